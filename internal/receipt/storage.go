package receipt

import (
	"context"
	"errors"
)

// Meta — исходное имя файла и content type, какими их прислал транспорт.
type Meta struct {
	Name        string
	ContentType string
}

// Storage — хранилище фото чеков. Ссылка (ref) непрозрачна для вызывающего
// кода и живёт в строке заявки вместо самих байтов.
type Storage interface {
	Store(ctx context.Context, data []byte, name, contentType string) (string, error)
	Retrieve(ctx context.Context, ref string) ([]byte, Meta, error)
}

var ErrNotFound = errors.New("receipt not found")
