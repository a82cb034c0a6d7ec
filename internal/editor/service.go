// Package editor implements the admin create, update and delete operations on
// books, including cover uploads.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"bookstore/internal/book"
	"bookstore/internal/platform/imagestore"
	"bookstore/internal/session"
)

// ErrForbidden is returned for callers without an admin session.
var ErrForbidden = session.ErrForbidden

// Upload is an optional cover image submitted with the form.
type Upload struct {
	Filename string
	Body     io.Reader
}

type Service struct {
	repo   Repository
	images ImageStore
	logger *slog.Logger
}

func NewService(repo Repository, images ImageStore, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		images: images,
		logger: logger.With("component", "editor"),
	}
}

// Get loads a book for the edit form.
func (s *Service) Get(ctx context.Context, caller session.Session, id int64) (book.Book, error) {
	if err := caller.RequireAdmin(); err != nil {
		return book.Book{}, err
	}
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return book.Book{}, fmt.Errorf("get book %d: %w", id, err)
	}
	return b, nil
}

// Create inserts a book from form and returns its id.
func (s *Service) Create(ctx context.Context, caller session.Session, form Form, upload *Upload) (int64, error) {
	if err := caller.RequireAdmin(); err != nil {
		return 0, err
	}
	values, err := s.assignments(form, upload)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.Insert(ctx, values)
	if err != nil {
		return 0, fmt.Errorf("insert book: %w", err)
	}
	s.logger.Info("book created", "book_id", id, "by", caller.Name)
	return id, nil
}

// Update overwrites every editable column of book id from form. The stored
// image is only replaced when upload is non-nil.
func (s *Service) Update(ctx context.Context, caller session.Session, id int64, form Form, upload *Upload) error {
	if err := caller.RequireAdmin(); err != nil {
		return err
	}
	values, err := s.assignments(form, upload)
	if err != nil {
		return err
	}

	if err := s.repo.Update(ctx, id, values); err != nil {
		return fmt.Errorf("update book %d: %w", id, err)
	}
	s.logger.Info("book updated", "book_id", id, "by", caller.Name, "image", upload != nil)
	return nil
}

// Delete removes book id. Deleting a missing book is not an error.
func (s *Service) Delete(ctx context.Context, caller session.Session, id int64) error {
	if err := caller.RequireAdmin(); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	s.logger.Info("book deleted", "book_id", id, "by", caller.Name)
	return nil
}

// assignments validates form and, when present, stores the upload. The image
// is written before the row; a failed row write leaves it orphaned.
func (s *Service) assignments(form Form, upload *Upload) ([]book.Assignment, error) {
	values, err := form.Assignments()
	if err != nil {
		return nil, err
	}
	if upload == nil {
		return values, nil
	}

	name, err := s.images.Save(upload.Filename, upload.Body)
	if err != nil {
		if errors.Is(err, imagestore.ErrUnsupportedType) {
			return nil, &ValidationError{Fields: map[string]string{
				"image": "Image must be a .png, .jpg, .jpeg, .gif or .webp file",
			}}
		}
		return nil, fmt.Errorf("save image: %w", err)
	}
	return append(values, book.Assignment{Column: book.ImageColumn, Value: name}), nil
}
