package repo

import (
	"fmt"
	"strings"
	"time"
)

// RequestFilter — параметры поиска для бэк-офиса. Пустые поля не участвуют
// в условии. To трактуется как исключающая верхняя граница.
type RequestFilter struct {
	Status string
	From   time.Time
	To     time.Time
	User   string // telegram_id, username или full_name
	Query  string // подстрока обоснования
	Limit  int
}

// buildRequestWhere собирает WHERE для таблиц заявок/запросов (алиас t)
// с присоединённой таблицей users (алиас u).
func buildRequestWhere(f RequestFilter) (string, []any) {
	where := []string{"TRUE"}
	args := []any{}

	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("t.status = $%d", len(args)))
	}
	if !f.From.IsZero() {
		args = append(args, f.From)
		where = append(where, fmt.Sprintf("t.created_at >= $%d", len(args)))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		where = append(where, fmt.Sprintf("t.created_at < $%d", len(args)))
	}
	if s := strings.TrimSpace(f.User); s != "" {
		args = append(args, s)
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(u.telegram_id::text = $%d OR u.username ILIKE '%%' || $%d || '%%' OR u.full_name ILIKE '%%' || $%d || '%%')",
			n, n, n))
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		args = append(args, s)
		where = append(where, fmt.Sprintf("t.justification ILIKE '%%' || $%d || '%%'", len(args)))
	}

	return strings.Join(where, " AND "), args
}
