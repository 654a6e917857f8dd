package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/marentsov/financial-bot/internal/domain"
	"github.com/marentsov/financial-bot/internal/httputil"
	"github.com/marentsov/financial-bot/internal/logger"
	"github.com/marentsov/financial-bot/internal/metrics"
	"github.com/marentsov/financial-bot/internal/receipt"
	"github.com/marentsov/financial-bot/internal/repo"
)

// Интерфейсы покрывают ровно то, что нужно бэк-офису; конкретные репозитории
// из internal/repo подходят без обёрток.
type ExpenseStore interface {
	List(ctx context.Context, f repo.RequestFilter) ([]repo.ExpenseRow, error)
	GetByID(ctx context.Context, id int64) (domain.ExpenseRequest, error)
	UpdateStatus(ctx context.Context, ids []int64, st domain.Status) (int64, error)
	SetComment(ctx context.Context, id int64, comment string) error
}

type MoneyStore interface {
	List(ctx context.Context, f repo.RequestFilter) ([]repo.MoneyRow, error)
	GetByID(ctx context.Context, id int64) (domain.MoneyRequest, error)
	UpdateStatus(ctx context.Context, ids []int64, st domain.Status) (int64, error)
	SetComment(ctx context.Context, id int64, comment string) error
}

type UserStore interface {
	List(ctx context.Context, f repo.UserFilter) ([]domain.User, error)
	UpdateProfile(ctx context.Context, id int64, isActive *bool, adminComment *string) error
}

type Server struct {
	expenses ExpenseStore
	money    MoneyStore
	users    UserStore
	receipts receipt.Storage
}

func NewServer(e ExpenseStore, m MoneyStore, u UserStore, r receipt.Storage) *Server {
	return &Server{expenses: e, money: m, users: u, receipts: r}
}

func parseRequestFilter(r *http.Request) (repo.RequestFilter, error) {
	q := r.URL.Query()
	f := repo.RequestFilter{
		User:  q.Get("user"),
		Query: q.Get("q"),
	}

	if s := q.Get("status"); s != "" {
		st, ok := domain.ParseStatus(s)
		if !ok {
			return f, fmt.Errorf("unknown status: %s", s)
		}
		f.Status = string(st)
	}
	if s := q.Get("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return f, fmt.Errorf("bad from date: %s", s)
		}
		f.From = t
	}
	if s := q.Get("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return f, fmt.Errorf("bad to date: %s", s)
		}
		// дата "to" включается целиком
		f.To = t.AddDate(0, 0, 1)
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return f, fmt.Errorf("bad limit: %s", s)
		}
		f.Limit = n
	}
	return f, nil
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	f, err := parseRequestFilter(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	rows, err := s.expenses.List(r.Context(), f)
	if err != nil {
		logger.Log.Error("list expenses", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rows)
}

func (s *Server) getExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "bad id")
		return
	}
	req, err := s.expenses.GetByID(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "expense request not found")
		return
	}
	if err != nil {
		logger.Log.Error("get expense", zap.Int64("id", id), zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to get expense")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, req)
}

// getReceipt отдаёт байты чека с сохранённым content type и именем файла —
// для предпросмотра и скачивания из бэк-офиса.
func (s *Server) getReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "bad id")
		return
	}
	req, err := s.expenses.GetByID(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "expense request not found")
		return
	}
	if err != nil {
		logger.Log.Error("get expense", zap.Int64("id", id), zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to get expense")
		return
	}

	data, meta, err := s.receipts.Retrieve(r.Context(), req.ReceiptRef)
	if errors.Is(err, receipt.ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "receipt not found")
		return
	}
	if err != nil {
		logger.Log.Error("retrieve receipt", zap.String("ref", req.ReceiptRef), zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to retrieve receipt")
		return
	}

	w.Header().Set("Content-Type", meta.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", meta.Name))
	w.Write(data)
}

func (s *Server) listMoney(w http.ResponseWriter, r *http.Request) {
	f, err := parseRequestFilter(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	rows, err := s.money.List(r.Context(), f)
	if err != nil {
		logger.Log.Error("list money requests", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list money requests")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rows)
}

func (s *Server) getMoney(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "bad id")
		return
	}
	req, err := s.money.GetByID(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "money request not found")
		return
	}
	if err != nil {
		logger.Log.Error("get money request", zap.Int64("id", id), zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to get money request")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, req)
}

type idsRequest struct {
	IDs []int64 `json:"ids"`
}

type updatedResponse struct {
	Updated int64 `json:"updated"`
}

type bulkUpdater interface {
	UpdateStatus(ctx context.Context, ids []int64, st domain.Status) (int64, error)
}

// bulkStatus — массовый перевод статуса. Перевод безусловный: никакой
// проверки текущего статуса, повторное применение идемпотентно.
func (s *Server) bulkStatus(store bulkUpdater, kind string, st domain.Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req idsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.IDs) == 0 {
			httputil.WriteError(w, http.StatusBadRequest, "ids are required")
			return
		}

		n, err := store.UpdateStatus(r.Context(), req.IDs, st)
		if err != nil {
			logger.Log.Error("bulk status update",
				zap.String("kind", kind), zap.String("status", string(st)), zap.Error(err))
			httputil.WriteError(w, http.StatusInternalServerError, "failed to update status")
			return
		}

		metrics.StatusUpdates.WithLabelValues(kind, string(st)).Add(float64(n))
		logger.Log.Info("bulk status update",
			zap.String("kind", kind), zap.String("status", string(st)), zap.Int64("updated", n))
		httputil.WriteJSON(w, http.StatusOK, updatedResponse{Updated: n})
	}
}

type commentRequest struct {
	AdminComment string `json:"admin_comment"`
}

type commentSetter interface {
	SetComment(ctx context.Context, id int64, comment string) error
}

func (s *Server) setComment(store commentSetter, kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "bad id")
			return
		}
		var req commentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		err = store.SetComment(r.Context(), id, req.AdminComment)
		if errors.Is(err, repo.ErrNotFound) {
			httputil.WriteError(w, http.StatusNotFound, kind+" not found")
			return
		}
		if err != nil {
			logger.Log.Error("set comment", zap.String("kind", kind), zap.Int64("id", id), zap.Error(err))
			httputil.WriteError(w, http.StatusInternalServerError, "failed to set comment")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repo.UserFilter{Query: q.Get("q")}
	if s := q.Get("active"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "bad active flag")
			return
		}
		f.Active = &v
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			httputil.WriteError(w, http.StatusBadRequest, "bad limit")
			return
		}
		f.Limit = n
	}

	users, err := s.users.List(r.Context(), f)
	if err != nil {
		logger.Log.Error("list users", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, users)
}

type updateUserRequest struct {
	IsActive     *bool   `json:"is_active"`
	AdminComment *string `json:"admin_comment"`
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "bad id")
		return
	}
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = s.users.UpdateProfile(r.Context(), id, req.IsActive, req.AdminComment)
	if errors.Is(err, repo.ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		logger.Log.Error("update user", zap.Int64("id", id), zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to update user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
