package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/marentsov/financial-bot/internal/domain"
)

type Money struct{ pool *pgxpool.Pool }

func NewMoney(p *pgxpool.Pool) *Money { return &Money{pool: p} }

const moneyColumns = `id, user_id, amount::text, justification,
	status, admin_comment, created_at, updated_at`

// MoneyRow — запрос вместе с данными владельца для списков бэк-офиса.
type MoneyRow struct {
	domain.MoneyRequest
	TelegramID int64   `json:"telegram_id"`
	Username   *string `json:"username"`
	FullName   *string `json:"full_name"`
}

func (r *Money) Create(ctx context.Context, userID int64, amount decimal.Decimal, justification string) (domain.MoneyRequest, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO money_requests(user_id, amount, justification)
		VALUES($1,$2,$3)
		RETURNING `+moneyColumns+`
	`, userID, amount.StringFixed(2), justification)
	return scanMoney(row)
}

func (r *Money) GetByID(ctx context.Context, id int64) (domain.MoneyRequest, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+moneyColumns+` FROM money_requests WHERE id=$1`, id)
	m, err := scanMoney(row)
	return m, mapErr(err)
}

func (r *Money) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.MoneyRequest, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+moneyColumns+`
		FROM money_requests
		WHERE user_id=$1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.MoneyRequest, 0, limit)
	for rows.Next() {
		m, e := scanMoney(rows)
		if e != nil {
			return nil, e
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Money) List(ctx context.Context, f RequestFilter) ([]MoneyRow, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	where, args := buildRequestWhere(f)
	args = append(args, f.Limit)

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT t.id, t.user_id, t.amount::text, t.justification,
			t.status, t.admin_comment, t.created_at, t.updated_at,
			u.telegram_id, u.username, u.full_name
		FROM money_requests t
		JOIN users u ON u.id = t.user_id
		WHERE %s
		ORDER BY t.created_at DESC
		LIMIT $%d
	`, where, len(args)), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]MoneyRow, 0, 32)
	for rows.Next() {
		var (
			m         MoneyRow
			amountStr string
			status    string
		)
		if e := rows.Scan(
			&m.ID, &m.UserID, &amountStr, &m.Justification,
			&status, &m.AdminComment, &m.CreatedAt, &m.UpdatedAt,
			&m.TelegramID, &m.Username, &m.FullName,
		); e != nil {
			return nil, e
		}
		m.Status = domain.Status(status)
		if m.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Money) UpdateStatus(ctx context.Context, ids []int64, st domain.Status) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE money_requests
		SET status=$1, updated_at=now()
		WHERE id = ANY($2)
	`, string(st), ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *Money) SetComment(ctx context.Context, id int64, comment string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE money_requests
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

func scanMoney(row rowScanner) (domain.MoneyRequest, error) {
	var (
		m         domain.MoneyRequest
		amountStr string
		status    string
	)
	err := row.Scan(
		&m.ID, &m.UserID, &amountStr, &m.Justification,
		&status, &m.AdminComment, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return domain.MoneyRequest{}, err
	}
	m.Status = domain.Status(status)
	m.Amount, err = decimal.NewFromString(amountStr)
	return m, err
}
