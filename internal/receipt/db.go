package receipt

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBStorage держит байты чека в таблице receipt_blobs той же базы.
// Бэкенд по умолчанию.
type DBStorage struct{ pool *pgxpool.Pool }

func NewDBStorage(p *pgxpool.Pool) *DBStorage { return &DBStorage{pool: p} }

func (s *DBStorage) Store(ctx context.Context, data []byte, name, contentType string) (string, error) {
	ref := uuid.NewString()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO receipt_blobs(ref, data, name, content_type)
		VALUES($1,$2,$3,$4)
	`, ref, data, name, contentType)
	if err != nil {
		return "", err
	}
	return ref, nil
}

func (s *DBStorage) Retrieve(ctx context.Context, ref string) ([]byte, Meta, error) {
	var (
		data []byte
		m    Meta
	)
	err := s.pool.QueryRow(ctx,
		`SELECT data, name, content_type FROM receipt_blobs WHERE ref=$1`,
		ref,
	).Scan(&data, &m.Name, &m.ContentType)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, Meta{}, ErrNotFound
	}
	if err != nil {
		return nil, Meta{}, err
	}
	return data, m, nil
}
