package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore/internal/book"
	"bookstore/internal/session"
	"bookstore/internal/web"
)

func newTestHandler(t *testing.T) (*http.ServeMux, *MockRepository) {
	t.Helper()
	svc, repo := newTestService(t)
	renderer, err := web.NewRenderer(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	h := NewHTTPHandler(svc, renderer)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET /book/{id}", h.Detail)
	mux.HandleFunc("GET /table", h.Table)
	mux.HandleFunc("GET /admin", h.Admin)
	return mux, repo
}

func TestHTTPHandler_Index(t *testing.T) {
	mux, repo := newTestHandler(t)
	title := "The Hobbit"
	f := book.Filter{Search: "hobbit", Category: "Fantasy"}
	repo.EXPECT().
		ListSummaries(gomock.Any(), book.NewPredicate(f, book.StorefrontSearchColumns), book.OrderNewest, 12, 0).
		Return([]book.Summary{{ID: 3, Title: &title}}, 1, nil)
	repo.EXPECT().DistinctTags(gomock.Any()).Return([]string{"Fantasy"}, nil, nil)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?search=hobbit&category=Fantasy&page=abc", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `href="/book/3"`)
	assert.Contains(t, w.Body.String(), "The Hobbit")
}

func TestHTTPHandler_Detail(t *testing.T) {
	t.Run("non-numeric id", func(t *testing.T) {
		mux, _ := newTestHandler(t)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/book/abc", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing book", func(t *testing.T) {
		mux, repo := newTestHandler(t)
		repo.EXPECT().Get(gomock.Any(), int64(99)).Return(book.Book{}, book.ErrNotFound)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/book/99", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		mux, repo := newTestHandler(t)
		repo.EXPECT().Get(gomock.Any(), int64(7)).Return(book.Book{}, errors.New("timeout"))
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/book/7", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("found", func(t *testing.T) {
		mux, repo := newTestHandler(t)
		title := "Emma"
		repo.EXPECT().Get(gomock.Any(), int64(7)).Return(book.Book{ID: 7, Title: &title}, nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/book/7", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "<title>Emma | Bookstore</title>")
	})
}

func TestHTTPHandler_Admin(t *testing.T) {
	t.Run("anonymous is redirected", func(t *testing.T) {
		mux, _ := newTestHandler(t)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})

	t.Run("admin sees inventory", func(t *testing.T) {
		mux, repo := newTestHandler(t)
		repo.EXPECT().List(gomock.Any(), gomock.Any(), book.OrderNewest, 20, 0).Return([]book.Book{{ID: 12}}, 1, nil)

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req = req.WithContext(session.WithSession(context.Background(), adminSession))
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `action="/delete/12"`)
	})
}

func TestHTTPHandler_Table(t *testing.T) {
	mux, repo := newTestHandler(t)
	repo.EXPECT().List(gomock.Any(), gomock.Any(), book.OrderTitle, TablePageSize, 50).Return(nil, 51, nil)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/table?page=2", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No books found.")
	assert.Contains(t, w.Body.String(), "Page 2 of 2")
}
