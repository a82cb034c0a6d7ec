package editor

import (
	"errors"
	"net/http"
	"strconv"

	"bookstore/internal/book"
	"bookstore/internal/httpx"
	"bookstore/internal/session"
	"bookstore/internal/web"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling file parts to disk.
const multipartMemory = 1 << 20

type HTTPHandler struct {
	svc      *Service
	renderer *web.Renderer
}

func NewHTTPHandler(svc *Service, renderer *web.Renderer) *HTTPHandler {
	return &HTTPHandler{svc: svc, renderer: renderer}
}

type formData struct {
	Action string
	Values Form
	Errors map[string]string
	Error  string
}

// AddForm handles GET /add
func (h *HTTPHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "form", "Add a book", formData{Action: "/add", Values: Form{}})
}

// Add handles POST /add
func (h *HTTPHandler) Add(w http.ResponseWriter, r *http.Request) {
	form, upload, closeUpload, err := parseForm(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	defer closeUpload()

	_, err = h.svc.Create(r.Context(), session.FromContext(r.Context()), form, upload)
	if err != nil {
		h.writeError(w, r, err, "Add a book", formData{Action: "/add", Values: form})
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// EditForm handles GET /edit/{id}
func (h *HTTPHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(r)
	if !ok {
		h.renderer.NotFound(w, r)
		return
	}

	b, err := h.svc.Get(r.Context(), session.FromContext(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err, "", formData{})
		return
	}
	h.renderer.Render(w, r, http.StatusOK, "form", "Edit book", formData{
		Action: "/edit/" + strconv.FormatInt(id, 10),
		Values: FormFromBook(b),
	})
}

// Edit handles POST /edit/{id}
func (h *HTTPHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(r)
	if !ok {
		h.renderer.NotFound(w, r)
		return
	}
	form, upload, closeUpload, err := parseForm(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	defer closeUpload()

	err = h.svc.Update(r.Context(), session.FromContext(r.Context()), id, form, upload)
	if err != nil {
		h.writeError(w, r, err, "Edit book", formData{
			Action: "/edit/" + strconv.FormatInt(id, 10),
			Values: form,
		})
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Delete handles POST /delete/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(r)
	if !ok {
		h.renderer.NotFound(w, r)
		return
	}
	if err := h.svc.Delete(r.Context(), session.FromContext(r.Context()), id); err != nil {
		h.writeError(w, r, err, "", formData{})
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error, title string, data formData) {
	var verr *ValidationError
	switch {
	case errors.Is(err, ErrForbidden):
		httpx.RedirectToLogin(w, r)
	case errors.Is(err, book.ErrNotFound):
		h.renderer.NotFound(w, r)
	case errors.As(err, &verr):
		data.Errors = verr.Fields
		data.Error = "Please correct the highlighted fields."
		h.renderer.Render(w, r, http.StatusBadRequest, "form", title, data)
	default:
		h.renderer.ServerError(w, r, err)
	}
}

func (h *HTTPHandler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.renderer.Error(w, r, http.StatusRequestEntityTooLarge, "The upload is too large.")
		return
	}
	h.renderer.Error(w, r, http.StatusBadRequest, "The form could not be read.")
}

func bookID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// parseForm reads the submitted columns and the optional "image" file. The
// returned func closes the uploaded file and is always safe to call.
func parseForm(r *http.Request) (Form, *Upload, func(), error) {
	noop := func() {}
	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, nil, noop, err
	}

	form := make(Form, len(book.Columns))
	for _, c := range book.Columns {
		if v, ok := r.PostForm[c.Name]; ok && len(v) > 0 {
			form[c.Name] = v[0]
		}
	}

	if r.MultipartForm == nil {
		return form, nil, noop, nil
	}
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return form, nil, noop, nil
	}
	if err != nil {
		return nil, nil, noop, err
	}
	if header.Filename == "" || header.Size == 0 {
		file.Close()
		return form, nil, noop, nil
	}
	return form, &Upload{Filename: header.Filename, Body: file}, func() { file.Close() }, nil
}
