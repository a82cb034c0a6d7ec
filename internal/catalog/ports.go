package catalog

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=catalog

import (
	"context"

	"bookstore/internal/book"
)

// Repository is the read side of the books table.
type Repository interface {
	ListSummaries(ctx context.Context, p book.Predicate, order book.Order, limit, offset int) ([]book.Summary, int, error)
	List(ctx context.Context, p book.Predicate, order book.Order, limit, offset int) ([]book.Book, int, error)
	Get(ctx context.Context, id int64) (book.Book, error)
	DistinctTags(ctx context.Context) (categories, genres []string, err error)
}
