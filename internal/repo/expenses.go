package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/marentsov/financial-bot/internal/domain"
)

type Expenses struct{ pool *pgxpool.Pool }

func NewExpenses(p *pgxpool.Pool) *Expenses { return &Expenses{pool: p} }

// amount читаем как ::text и парсим в decimal: NUMERIC(10,2) в строке
// переживает дорогу без потери точности.
const expenseColumns = `id, user_id, amount::text, justification,
	receipt_ref, receipt_name, receipt_content_type,
	status, admin_comment, created_at, updated_at`

// ExpenseRow — заявка вместе с данными владельца для списков бэк-офиса.
type ExpenseRow struct {
	domain.ExpenseRequest
	TelegramID int64   `json:"telegram_id"`
	Username   *string `json:"username"`
	FullName   *string `json:"full_name"`
}

// Create пишет заявку одним INSERT: либо записаны все обязательные поля,
// либо ничего.
func (r *Expenses) Create(ctx context.Context, userID int64, amount decimal.Decimal, justification, receiptRef, receiptName, receiptContentType string) (domain.ExpenseRequest, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO expense_requests(user_id, amount, justification, receipt_ref, receipt_name, receipt_content_type)
		VALUES($1,$2,$3,$4,$5,$6)
		RETURNING `+expenseColumns+`
	`, userID, amount.StringFixed(2), justification, receiptRef, receiptName, receiptContentType)
	return scanExpense(row)
}

func (r *Expenses) GetByID(ctx context.Context, id int64) (domain.ExpenseRequest, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expense_requests WHERE id=$1`, id)
	e, err := scanExpense(row)
	return e, mapErr(err)
}

// ListByUser — последние заявки пользователя, свежие первыми.
func (r *Expenses) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.ExpenseRequest, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+expenseColumns+`
		FROM expense_requests
		WHERE user_id=$1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ExpenseRequest, 0, limit)
	for rows.Next() {
		e, e2 := scanExpense(rows)
		if e2 != nil {
			return nil, e2
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Expenses) List(ctx context.Context, f RequestFilter) ([]ExpenseRow, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	where, args := buildRequestWhere(f)
	args = append(args, f.Limit)

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT t.id, t.user_id, t.amount::text, t.justification,
			t.receipt_ref, t.receipt_name, t.receipt_content_type,
			t.status, t.admin_comment, t.created_at, t.updated_at,
			u.telegram_id, u.username, u.full_name
		FROM expense_requests t
		JOIN users u ON u.id = t.user_id
		WHERE %s
		ORDER BY t.created_at DESC
		LIMIT $%d
	`, where, len(args)), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ExpenseRow, 0, 32)
	for rows.Next() {
		var (
			e         ExpenseRow
			amountStr string
			status    string
		)
		if e2 := rows.Scan(
			&e.ID, &e.UserID, &amountStr, &e.Justification,
			&e.ReceiptRef, &e.ReceiptName, &e.ReceiptContentType,
			&status, &e.AdminComment, &e.CreatedAt, &e.UpdatedAt,
			&e.TelegramID, &e.Username, &e.FullName,
		); e2 != nil {
			return nil, e2
		}
		e.Status = domain.Status(status)
		if e.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpdateStatus переводит все перечисленные заявки в статус st без проверки
// текущего статуса: повторное применение безвредно, а финансист может
// исправить ошибку противоположным действием.
func (r *Expenses) UpdateStatus(ctx context.Context, ids []int64, st domain.Status) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE expense_requests
		SET status=$1, updated_at=now()
		WHERE id = ANY($2)
	`, string(st), ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *Expenses) SetComment(ctx context.Context, id int64, comment string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE expense_requests
		SET admin_comment=$2, updated_at=now()
		WHERE id=$1
	`, id, comment)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (domain.ExpenseRequest, error) {
	var (
		e         domain.ExpenseRequest
		amountStr string
		status    string
	)
	err := row.Scan(
		&e.ID, &e.UserID, &amountStr, &e.Justification,
		&e.ReceiptRef, &e.ReceiptName, &e.ReceiptContentType,
		&status, &e.AdminComment, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return domain.ExpenseRequest{}, err
	}
	e.Status = domain.Status(status)
	e.Amount, err = decimal.NewFromString(amountStr)
	return e, err
}
