// Package catalog serves the read-only views of the inventory: the
// storefront listing, book detail, the admin listing and the title table.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"bookstore/internal/book"
	"bookstore/internal/pager"
	"bookstore/internal/session"
)

// ErrForbidden is returned by ListAdmin for non-admin callers.
var ErrForbidden = session.ErrForbidden

// TablePageSize is the fixed page size of the title table.
const TablePageSize = 50

// Listing is one page of the storefront.
type Listing struct {
	Items      []book.Summary
	Page       pager.Window
	Filter     book.Filter
	Categories []string
	Genres     []string
}

// AdminListing is one page of full records.
type AdminListing struct {
	Items  []book.Book
	Page   pager.Window
	Search string
}

// TableListing has the same shape as AdminListing.
type TableListing = AdminListing

type Service struct {
	repo          Repository
	pageSize      int
	adminPageSize int
	logger        *slog.Logger
}

func NewService(repo Repository, pageSize, adminPageSize int, logger *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		pageSize:      pageSize,
		adminPageSize: adminPageSize,
		logger:        logger.With("component", "catalog"),
	}
}

// List returns storefront page number matching f, newest first, along with
// every category and genre in the catalog regardless of f.
func (s *Service) List(ctx context.Context, number int, f book.Filter) (Listing, error) {
	f = f.Normalize()
	page := pager.New(number, s.pageSize)
	pred := book.NewPredicate(f, book.StorefrontSearchColumns)

	items, total, err := s.repo.ListSummaries(ctx, pred, book.OrderNewest, page.Limit(), page.Offset())
	if err != nil {
		return Listing{}, fmt.Errorf("list books: %w", err)
	}
	categories, genres, err := s.repo.DistinctTags(ctx)
	if err != nil {
		return Listing{}, fmt.Errorf("list tags: %w", err)
	}

	return Listing{
		Items:      items,
		Page:       page.Window(total),
		Filter:     f,
		Categories: categories,
		Genres:     genres,
	}, nil
}

// Get returns one book or book.ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (book.Book, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return book.Book{}, fmt.Errorf("get book %d: %w", id, err)
	}
	return b, nil
}

// ListAdmin returns full records for the inventory screen. The caller must be
// an admin; otherwise ErrForbidden is returned before the store is touched.
func (s *Service) ListAdmin(ctx context.Context, caller session.Session, number int, search string) (AdminListing, error) {
	if err := caller.RequireAdmin(); err != nil {
		return AdminListing{}, err
	}
	return s.records(ctx, pager.New(number, s.adminPageSize), search, book.AdminSearchColumns, book.OrderNewest)
}

// Table returns every column of each book ordered by title.
func (s *Service) Table(ctx context.Context, number int, search string) (TableListing, error) {
	return s.records(ctx, pager.New(number, TablePageSize), search, book.TableSearchColumns, book.OrderTitle)
}

func (s *Service) records(ctx context.Context, page pager.Page, search string, columns []string, order book.Order) (AdminListing, error) {
	f := book.Filter{Search: search}.Normalize()
	pred := book.NewPredicate(f, columns)

	items, total, err := s.repo.List(ctx, pred, order, page.Limit(), page.Offset())
	if err != nil {
		return AdminListing{}, fmt.Errorf("list books: %w", err)
	}
	return AdminListing{Items: items, Page: page.Window(total), Search: f.Search}, nil
}
