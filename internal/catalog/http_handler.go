package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"bookstore/internal/book"
	"bookstore/internal/httpx"
	"bookstore/internal/session"
	"bookstore/internal/web"
)

type HTTPHandler struct {
	svc      *Service
	renderer *web.Renderer
}

func NewHTTPHandler(svc *Service, renderer *web.Renderer) *HTTPHandler {
	return &HTTPHandler{svc: svc, renderer: renderer}
}

// pageParam reads ?page=, treating anything unparsable as the first page.
func pageParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		return 1
	}
	return n
}

// Index handles GET /
func (h *HTTPHandler) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	listing, err := h.svc.List(r.Context(), pageParam(r), book.Filter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Genre:    q.Get("genre"),
	})
	if err != nil {
		h.renderer.ServerError(w, r, err)
		return
	}
	h.renderer.Render(w, r, http.StatusOK, "index", "Catalog", listing)
}

// Detail handles GET /book/{id}
func (h *HTTPHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		h.renderer.NotFound(w, r)
		return
	}

	b, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			h.renderer.NotFound(w, r)
			return
		}
		h.renderer.ServerError(w, r, err)
		return
	}

	title := b.Value("title")
	if title == "" {
		title = "Untitled"
	}
	h.renderer.Render(w, r, http.StatusOK, "detail", title, b)
}

// Table handles GET /table
func (h *HTTPHandler) Table(w http.ResponseWriter, r *http.Request) {
	listing, err := h.svc.Table(r.Context(), pageParam(r), r.URL.Query().Get("search"))
	if err != nil {
		h.renderer.ServerError(w, r, err)
		return
	}
	h.renderer.Render(w, r, http.StatusOK, "table", "All titles", listing)
}

// Admin handles GET /admin
func (h *HTTPHandler) Admin(w http.ResponseWriter, r *http.Request) {
	caller := session.FromContext(r.Context())
	listing, err := h.svc.ListAdmin(r.Context(), caller, pageParam(r), r.URL.Query().Get("search"))
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			httpx.RedirectToLogin(w, r)
			return
		}
		h.renderer.ServerError(w, r, err)
		return
	}
	h.renderer.Render(w, r, http.StatusOK, "admin", "Inventory", listing)
}
