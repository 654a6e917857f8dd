package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marentsov/financial-bot/internal/domain"
)

type Users struct{ pool *pgxpool.Pool }

func NewUsers(p *pgxpool.Pool) *Users { return &Users{pool: p} }

const userColumns = `id, telegram_id, username, full_name, is_active, created_at, admin_comment`

// GetOrCreate регистрирует пользователя по telegram_id; при повторном /start
// освежает username и full_name. Второй результат — создан ли пользователь сейчас.
func (r *Users) GetOrCreate(ctx context.Context, telegramID int64, username, fullName *string) (domain.User, bool, error) {
	var (
		u       domain.User
		created bool
	)
	// xmax = 0 у свежевставленной строки
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users(telegram_id, username, full_name)
		VALUES($1,$2,$3)
		ON CONFLICT (telegram_id) DO UPDATE
		SET username=EXCLUDED.username,
			full_name=EXCLUDED.full_name
		RETURNING `+userColumns+`, (xmax = 0)
	`, telegramID, username, fullName).Scan(
		&u.ID, &u.TelegramID, &u.Username, &u.FullName, &u.IsActive, &u.CreatedAt, &u.AdminComment, &created,
	)
	return u, created, err
}

func (r *Users) GetByTelegramID(ctx context.Context, telegramID int64) (domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE telegram_id=$1`,
		telegramID,
	).Scan(&u.ID, &u.TelegramID, &u.Username, &u.FullName, &u.IsActive, &u.CreatedAt, &u.AdminComment)
	return u, mapErr(err)
}

type UserFilter struct {
	Active *bool
	Query  string // подстрока username/full_name либо telegram_id
	Limit  int
}

func (r *Users) List(ctx context.Context, f UserFilter) ([]domain.User, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}

	where := []string{"TRUE"}
	args := []any{}
	if f.Active != nil {
		args = append(args, *f.Active)
		where = append(where, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, q)
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(telegram_id::text = $%d OR username ILIKE '%%' || $%d || '%%' OR full_name ILIKE '%%' || $%d || '%%')",
			n, n, n))
	}
	args = append(args, f.Limit)

	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM users WHERE %s ORDER BY created_at DESC LIMIT $%d`,
		userColumns, strings.Join(where, " AND "), len(args),
	), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.User, 0, 32)
	for rows.Next() {
		var u domain.User
		if e := rows.Scan(&u.ID, &u.TelegramID, &u.Username, &u.FullName, &u.IsActive, &u.CreatedAt, &u.AdminComment); e != nil {
			return nil, e
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateProfile меняет только редактируемые финансистом поля; nil — не трогать.
func (r *Users) UpdateProfile(ctx context.Context, id int64, isActive *bool, adminComment *string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET is_active = COALESCE($2, is_active),
			admin_comment = COALESCE($3, admin_comment)
		WHERE id = $1
	`, id, isActive, adminComment)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
