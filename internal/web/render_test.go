package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore/internal/book"
	"bookstore/internal/pager"
	"bookstore/internal/session"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return r
}

func ptr[T any](v T) *T { return &v }

func TestNewRenderer_ParsesEveryPage(t *testing.T) {
	r := newTestRenderer(t)
	for _, name := range pageNames {
		assert.Contains(t, r.pages, name)
	}
}

func TestRender_IncludesSessionAndStatus(t *testing.T) {
	r := newTestRenderer(t)

	req := httptest.NewRequest(http.MethodGet, "/book/1", nil)
	req = req.WithContext(session.WithSession(req.Context(), session.Session{Name: "admin", Admin: true}))
	w := httptest.NewRecorder()

	b := book.Book{
		ID:       1,
		Title:    ptr("Dune"),
		Price:    ptr(9.5),
		Category: ptr("Science Fiction, Classics"),
		Synopsis: ptr("A *desert* planet <script>alert(1)</script>"),
	}
	r.Render(w, req, http.StatusOK, "detail", "Dune", b)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, body, "<h1>Dune</h1>")
	assert.Contains(t, body, "$9.50")
	assert.Contains(t, body, "<em>desert</em>")
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, `href="/edit/1"`)
	assert.Contains(t, body, "Log out")
}

func TestRender_UnknownPage(t *testing.T) {
	r := newTestRenderer(t)
	w := httptest.NewRecorder()

	r.Render(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "missing", "x", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestNotFoundAndServerError(t *testing.T) {
	r := newTestRenderer(t)

	w := httptest.NewRecorder()
	r.NotFound(w, httptest.NewRequest(http.MethodGet, "/book/99", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "404")

	w = httptest.NewRecorder()
	r.ServerError(w, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("db down"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
}

func TestRender_IndexPagination(t *testing.T) {
	r := newTestRenderer(t)

	data := struct {
		Items      []book.Summary
		Page       pager.Window
		Filter     book.Filter
		Categories []string
		Genres     []string
	}{
		Items:      []book.Summary{{ID: 13, Title: ptr("Last")}},
		Page:       pager.New(2, 12).Window(13),
		Filter:     book.Filter{Search: "war & peace", Category: "Fiction"},
		Categories: []string{"Fiction", "History"},
	}

	w := httptest.NewRecorder()
	r.Render(w, httptest.NewRequest(http.MethodGet, "/?page=2", nil), http.StatusOK, "index", "Catalog", data)

	body := w.Body.String()
	assert.Contains(t, body, "Page 2 of 2")
	assert.Contains(t, body, "&laquo; Previous")
	assert.Contains(t, body, "category=Fiction")
	assert.NotContains(t, body, "Next &raquo;")
	assert.Contains(t, body, `<option value="Fiction" selected>`)
}

func TestPageURL(t *testing.T) {
	assert.Equal(t, "/", pageURL("/", 1))
	assert.Equal(t, "/?page=3", pageURL("/", 3))
	assert.Equal(t, "/table?page=2&search=tolkien", pageURL("/table", 2, "search", "tolkien"))
	assert.Equal(t, "/", pageURL("/", 1, "search", "  ", "genre", ""))
}

func TestUploadURL(t *testing.T) {
	assert.Equal(t, "", imageURL(nil))
	assert.Equal(t, "/uploads/cover%20one.png", uploadURL("cover one.png"))
}

func TestStatic(t *testing.T) {
	w := httptest.NewRecorder()
	Static().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
