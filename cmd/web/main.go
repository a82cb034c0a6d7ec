package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"bookstore/internal/auth"
	"bookstore/internal/book"
	"bookstore/internal/catalog"
	"bookstore/internal/config"
	"bookstore/internal/editor"
	"bookstore/internal/httpx"
	"bookstore/internal/platform/imagestore"
	"bookstore/internal/session"
	"bookstore/internal/user"
	"bookstore/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := openDB(ctx, cfg.DB, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	images, err := imagestore.NewOS(cfg.Upload.Dir)
	if err != nil {
		return err
	}
	renderer, err := web.NewRenderer(logger)
	if err != nil {
		return err
	}

	bookRepo := book.NewPostgresRepo(pool, cfg.DB.Timeout)
	userRepo := user.NewPostgresRepo(pool, cfg.DB.Timeout)
	codec := session.NewCodec(cfg.Session.Secret, cfg.Session.TTL)

	authSvc := auth.NewService(userRepo, auth.SuperAdmin{
		Username: cfg.SuperAdmin.Username,
		Password: cfg.SuperAdmin.Password,
	}, logger)
	catalogSvc := catalog.NewService(bookRepo, cfg.Paging.Catalog, cfg.Paging.Admin, logger)
	editorSvc := editor.NewService(bookRepo, images, logger)

	limiter := httpx.NewRateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	defer limiter.Close()

	a := &app{
		cfg:      cfg,
		logger:   logger,
		db:       pool,
		renderer: renderer,
		codec:    codec,
		limiter:  limiter,
		catalog:  catalog.NewHTTPHandler(catalogSvc, renderer),
		editor:   editor.NewHTTPHandler(editorSvc, renderer),
		auth:     auth.NewHTTPHandler(authSvc, codec, renderer, logger),
		images:   images.Handler(),
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}

func openDB(ctx context.Context, cfg config.DB, logger *slog.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("cannot create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot ping database (%s): %w", cfg.Redacted(), err)
	}
	logger.Info("database connection OK", "db", cfg.Redacted())
	return pool, nil
}

func setupLogger(cfg config.Log) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
