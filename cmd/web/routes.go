package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"bookstore/internal/auth"
	"bookstore/internal/catalog"
	"bookstore/internal/config"
	"bookstore/internal/editor"
	"bookstore/internal/httpx"
	"bookstore/internal/session"
	"bookstore/internal/web"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       pinger
	renderer *web.Renderer
	codec    *session.Codec
	limiter  *httpx.RateLimitMiddleware

	catalog *catalog.HTTPHandler
	editor  *editor.HTTPHandler
	auth    *auth.HTTPHandler
	images  http.Handler
}

func (a *app) routes() http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := a.db.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("GET /static/", web.Static())
	router.Handle("GET /uploads/{file}", http.StripPrefix("/uploads", a.images))

	router.HandleFunc("GET /{$}", a.catalog.Index)
	router.HandleFunc("GET /book/{id}", a.catalog.Detail)
	router.HandleFunc("GET /table", a.catalog.Table)

	router.HandleFunc("GET /login", a.auth.LoginPage)
	router.HandleFunc("POST /login", a.limiter.Wrap(a.auth.Login))
	router.HandleFunc("GET /register", a.auth.RegisterPage)
	router.HandleFunc("POST /register", a.limiter.Wrap(a.auth.Register))
	router.HandleFunc("GET /logout", a.auth.Logout)

	router.HandleFunc("GET /admin", httpx.RequireAdmin(a.catalog.Admin))
	router.HandleFunc("GET /add", httpx.RequireAdmin(a.editor.AddForm))
	router.HandleFunc("POST /add", httpx.RequireAdmin(a.editor.Add))
	router.HandleFunc("GET /edit/{id}", httpx.RequireAdmin(a.editor.EditForm))
	router.HandleFunc("POST /edit/{id}", httpx.RequireAdmin(a.editor.Edit))
	router.HandleFunc("POST /delete/{id}", httpx.RequireAdmin(a.editor.Delete))

	router.HandleFunc("/", a.renderer.NotFound)

	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.SessionMiddleware(a.codec),
		httpx.AccessLogMiddleware(a.logger),
		httpx.RecoveryMiddleware(a.logger),
		httpx.SecurityHeadersMiddleware(a.cfg.EnableHSTS),
		httpx.RequestSizeLimitMiddleware(a.cfg.Upload.MaxBytes),
		httpx.CSRFMiddleware,
	)
}
