// Package web renders the server-side HTML pages.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"

	"bookstore/internal/book"
	"bookstore/internal/httpx"
	"bookstore/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pageNames = []string{
	"index", "detail", "table", "admin", "form", "login", "register", "error",
}

// Page is the value every template executes against.
type Page struct {
	Title     string
	Session   session.Session
	CSRFToken string
	Data      any
}

type errorData struct {
	Status  int
	Message string
}

type Renderer struct {
	pages  map[string]*template.Template
	md     goldmark.Markdown
	logger *slog.Logger
}

// NewRenderer parses every page template once.
func NewRenderer(logger *slog.Logger) (*Renderer, error) {
	r := &Renderer{
		pages:  make(map[string]*template.Template, len(pageNames)),
		md:     goldmark.New(),
		logger: logger.With("component", "web"),
	}
	funcs := r.funcs()
	for _, name := range pageNames {
		tmpl, err := template.New("base.html").Funcs(funcs).ParseFS(templateFS,
			"templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render writes page name with the given status. The page is executed into a
// buffer first so a template failure still produces a clean 500.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, name, title string, data any) {
	tmpl, ok := r.pages[name]
	if !ok {
		r.logger.Error("unknown template", "name", name, "request_id", httpx.RequestIDFrom(req))
		http.Error(w, "An internal error occurred", http.StatusInternalServerError)
		return
	}

	page := Page{
		Title:     title,
		Session:   session.FromContext(req.Context()),
		CSRFToken: httpx.CSRFTokenFrom(req),
		Data:      data,
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", page); err != nil {
		r.logger.Error("failed to render page", "name", name, "error", err, "request_id", httpx.RequestIDFrom(req))
		http.Error(w, "An internal error occurred", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Error renders the error page.
func (r *Renderer) Error(w http.ResponseWriter, req *http.Request, status int, message string) {
	r.Render(w, req, status, "error", http.StatusText(status), errorData{Status: status, Message: message})
}

// NotFound renders the 404 page.
func (r *Renderer) NotFound(w http.ResponseWriter, req *http.Request) {
	r.Error(w, req, http.StatusNotFound, "The page you were looking for does not exist.")
}

// ServerError logs err and renders a generic 500 page.
func (r *Renderer) ServerError(w http.ResponseWriter, req *http.Request, err error) {
	r.logger.Error("request failed",
		"method", req.Method,
		"path", req.URL.Path,
		"error", err,
		"request_id", httpx.RequestIDFrom(req),
	)
	r.Error(w, req, http.StatusInternalServerError, "Something went wrong. Please try again later.")
}

// Static serves the embedded stylesheet under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"text":      text,
		"num":       num,
		"decimal":   decimal,
		"money":     money,
		"markdown":  r.markdown,
		"pageURL":   pageURL,
		"imageURL":  imageURL,
		"uploadURL": uploadURL,
		"columns":   func() []book.Column { return book.Columns },
		"inputType": inputType,
	}
}

func text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func num(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func decimal(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func money(f *float64) string {
	if f == nil {
		return ""
	}
	return fmt.Sprintf("$%.2f", *f)
}

// markdown renders s with goldmark. Raw HTML in the source is omitted by
// goldmark's default renderer.
func (r *Renderer) markdown(s *string) template.HTML {
	if s == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(*s), &buf); err != nil {
		r.logger.Error("failed to convert markdown", "error", err)
		return template.HTML(template.HTMLEscapeString(*s))
	}
	return template.HTML(buf.String())
}

// pageURL builds path?k=v&page=n from key/value pairs, skipping blank values.
func pageURL(path string, page int, pairs ...string) string {
	q := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) != "" {
			q.Set(pairs[i], pairs[i+1])
		}
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func uploadURL(name string) string {
	if name == "" {
		return ""
	}
	return "/uploads/" + url.PathEscape(name)
}

func imageURL(name *string) string {
	return uploadURL(text(name))
}

func inputType(c book.Column) string {
	if c.Kind == book.KindText {
		return "text"
	}
	return "number"
}
