package editor

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=editor

import (
	"context"
	"io"

	"bookstore/internal/book"
)

// Repository is the write side of the books table.
type Repository interface {
	Get(ctx context.Context, id int64) (book.Book, error)
	Insert(ctx context.Context, values []book.Assignment) (int64, error)
	Update(ctx context.Context, id int64, values []book.Assignment) error
	Delete(ctx context.Context, id int64) error
}

// ImageStore persists uploaded cover images and returns the stored filename.
type ImageStore interface {
	Save(name string, r io.Reader) (string, error)
}
