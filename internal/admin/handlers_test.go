package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/marentsov/financial-bot/internal/domain"
	"github.com/marentsov/financial-bot/internal/logger"
	"github.com/marentsov/financial-bot/internal/receipt"
	"github.com/marentsov/financial-bot/internal/repo"
)

func init() {
	logger.Log = zap.NewNop()
}

type stubExpenses struct {
	lastFilter repo.RequestFilter
	lastIDs    []int64
	lastStatus domain.Status
	byID       map[int64]domain.ExpenseRequest
}

func (s *stubExpenses) List(ctx context.Context, f repo.RequestFilter) ([]repo.ExpenseRow, error) {
	s.lastFilter = f
	return []repo.ExpenseRow{}, nil
}

func (s *stubExpenses) GetByID(ctx context.Context, id int64) (domain.ExpenseRequest, error) {
	e, ok := s.byID[id]
	if !ok {
		return domain.ExpenseRequest{}, repo.ErrNotFound
	}
	return e, nil
}

func (s *stubExpenses) UpdateStatus(ctx context.Context, ids []int64, st domain.Status) (int64, error) {
	s.lastIDs = ids
	s.lastStatus = st
	return int64(len(ids)), nil
}

func (s *stubExpenses) SetComment(ctx context.Context, id int64, comment string) error {
	if _, ok := s.byID[id]; !ok {
		return repo.ErrNotFound
	}
	return nil
}

type stubMoney struct{}

func (s *stubMoney) List(ctx context.Context, f repo.RequestFilter) ([]repo.MoneyRow, error) {
	return nil, nil
}
func (s *stubMoney) GetByID(ctx context.Context, id int64) (domain.MoneyRequest, error) {
	return domain.MoneyRequest{}, repo.ErrNotFound
}
func (s *stubMoney) UpdateStatus(ctx context.Context, ids []int64, st domain.Status) (int64, error) {
	return int64(len(ids)), nil
}
func (s *stubMoney) SetComment(ctx context.Context, id int64, comment string) error {
	return repo.ErrNotFound
}

type stubUsers struct {
	updatedID int64
}

func (s *stubUsers) List(ctx context.Context, f repo.UserFilter) ([]domain.User, error) {
	return []domain.User{}, nil
}
func (s *stubUsers) UpdateProfile(ctx context.Context, id int64, isActive *bool, adminComment *string) error {
	if id == 404 {
		return repo.ErrNotFound
	}
	s.updatedID = id
	return nil
}

type stubReceipts struct {
	data map[string][]byte
	meta map[string]receipt.Meta
}

func (s *stubReceipts) Store(ctx context.Context, data []byte, name, contentType string) (string, error) {
	return "ref", nil
}
func (s *stubReceipts) Retrieve(ctx context.Context, ref string) ([]byte, receipt.Meta, error) {
	d, ok := s.data[ref]
	if !ok {
		return nil, receipt.Meta{}, receipt.ErrNotFound
	}
	return d, s.meta[ref], nil
}

func newTestServer(e *stubExpenses) (*Server, *stubUsers, *stubReceipts) {
	u := &stubUsers{}
	r := &stubReceipts{data: map[string][]byte{}, meta: map[string]receipt.Meta{}}
	return NewServer(e, &stubMoney{}, u, r), u, r
}

func TestListExpensesFilterParsing(t *testing.T) {
	e := &stubExpenses{}
	srv, _, _ := newTestServer(e)

	req := httptest.NewRequest(http.MethodGet,
		"/api/expenses/?status=approved&from=2024-01-01&to=2024-01-31&user=ivanov&q=бумага&limit=7", nil)
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	f := e.lastFilter
	if f.Status != "approved" || f.User != "ivanov" || f.Query != "бумага" || f.Limit != 7 {
		t.Errorf("filter not plumbed: %+v", f)
	}
	if !f.From.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("from = %v", f.From)
	}
	// верхняя граница включает весь день "to"
	if !f.To.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("to = %v", f.To)
	}
}

func TestListExpensesRejectsUnknownStatus(t *testing.T) {
	srv, _, _ := newTestServer(&stubExpenses{})

	req := httptest.NewRequest(http.MethodGet, "/api/expenses/?status=bogus", nil)
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestBulkApprove(t *testing.T) {
	e := &stubExpenses{}
	srv, _, _ := newTestServer(e)

	body := bytes.NewBufferString(`{"ids":[1,2,3]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/expenses/approve", body)
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Updated int64 `json:"updated"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Updated != 3 {
		t.Errorf("updated = %d, want 3", resp.Updated)
	}
	if e.lastStatus != domain.StatusApproved || len(e.lastIDs) != 3 {
		t.Errorf("store called with %v %v", e.lastIDs, e.lastStatus)
	}
}

func TestBulkRejectEmptyIDs(t *testing.T) {
	srv, _, _ := newTestServer(&stubExpenses{})

	req := httptest.NewRequest(http.MethodPost, "/api/expenses/reject",
		bytes.NewBufferString(`{"ids":[]}`))
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetExpenseNotFound(t *testing.T) {
	srv, _, _ := newTestServer(&stubExpenses{byID: map[int64]domain.ExpenseRequest{}})

	req := httptest.NewRequest(http.MethodGet, "/api/expenses/99", nil)
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGetReceipt(t *testing.T) {
	e := &stubExpenses{byID: map[int64]domain.ExpenseRequest{
		5: {
			ID:         5,
			Amount:     decimal.RequireFromString("100"),
			ReceiptRef: "abc",
		},
	}}
	srv, _, receipts := newTestServer(e)
	receipts.data["abc"] = []byte("jpeg-bytes")
	receipts.meta["abc"] = receipt.Meta{Name: "receipt_1.jpg", ContentType: "image/jpeg"}

	req := httptest.NewRequest(http.MethodGet, "/api/expenses/5/receipt", nil)
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("content type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "receipt_1.jpg") {
		t.Errorf("content disposition = %q", cd)
	}
	if w.Body.String() != "jpeg-bytes" {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestGetReceiptMissingBlob(t *testing.T) {
	e := &stubExpenses{byID: map[int64]domain.ExpenseRequest{
		5: {ID: 5, Amount: decimal.RequireFromString("100"), ReceiptRef: "gone"},
	}}
	srv, _, _ := newTestServer(e)

	req := httptest.NewRequest(http.MethodGet, "/api/expenses/5/receipt", nil)
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestUpdateUser(t *testing.T) {
	srv, users, _ := newTestServer(&stubExpenses{})

	req := httptest.NewRequest(http.MethodPatch, "/api/users/7",
		bytes.NewBufferString(`{"is_active":false,"admin_comment":"заблокирован"}`))
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if users.updatedID != 7 {
		t.Errorf("updated id = %d, want 7", users.updatedID)
	}
}

func TestUpdateUserNotFound(t *testing.T) {
	srv, _, _ := newTestServer(&stubExpenses{})

	req := httptest.NewRequest(http.MethodPatch, "/api/users/404",
		bytes.NewBufferString(`{"is_active":true}`))
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
