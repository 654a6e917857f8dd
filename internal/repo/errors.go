package repo

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound возвращается вместо pgx.ErrNoRows, чтобы вызывающие слои
// не зависели от драйвера.
var ErrNotFound = errors.New("not found")

func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
