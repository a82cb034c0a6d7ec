package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"bookstore/internal/platform/validate"
	"bookstore/internal/session"
	"bookstore/internal/user"
	"bookstore/internal/web"
)

type HTTPHandler struct {
	service  *Service
	codec    *session.Codec
	renderer *web.Renderer
	logger   *slog.Logger
}

func NewHTTPHandler(service *Service, codec *session.Codec, renderer *web.Renderer, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{
		service:  service,
		codec:    codec,
		renderer: renderer,
		logger:   logger.With("component", "auth_http"),
	}
}

type loginData struct {
	Identifier string
	Error      string
	Registered bool
}

type registerData struct {
	Username string
	Email    string
	Error    string
	Fields   []validate.FieldError
}

// LoginPage handles GET /login
func (h *HTTPHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "login", "Log in", loginData{
		Registered: r.URL.Query().Get("registered") == "1",
	})
}

// Login handles POST /login
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	identifier := r.PostFormValue("identifier")
	password := r.PostFormValue("password")

	s, err := h.service.Login(r.Context(), identifier, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.renderer.Render(w, r, http.StatusUnauthorized, "login", "Log in", loginData{
				Identifier: identifier,
				Error:      "Invalid username or password.",
			})
			return
		}
		h.renderer.ServerError(w, r, err)
		return
	}

	if err := h.codec.Issue(w, r, s); err != nil {
		h.renderer.ServerError(w, r, err)
		return
	}

	target := "/"
	if s.Admin {
		target = "/admin"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// RegisterPage handles GET /register
func (h *HTTPHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "register", "Register", registerData{})
}

// Register handles POST /register
func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	in := RegisterInput{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	data := registerData{Username: in.Username, Email: in.Email}

	_, err := h.service.Register(r.Context(), in)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			data.Fields = verr.Fields
			h.renderer.Render(w, r, http.StatusBadRequest, "register", "Register", data)
		case errors.Is(err, user.ErrDuplicate):
			data.Error = "That username or email is already registered."
			h.renderer.Render(w, r, http.StatusConflict, "register", "Register", data)
		default:
			h.renderer.ServerError(w, r, err)
		}
		return
	}

	http.Redirect(w, r, "/login?registered=1", http.StatusSeeOther)
}

// Logout handles GET /logout. It always succeeds, with or without a session.
func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session.Clear(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
