package session

import (
	"context"
	"errors"
)

// ErrForbidden is returned when an operation needs an admin session and the
// caller does not have one.
var ErrForbidden = errors.New("admin session required")

// Session is the per-client authentication state established at login.
// The super-admin has UserID 0.
type Session struct {
	UserID int64
	Name   string
	Admin  bool
}

// LoggedIn reports whether s belongs to an authenticated client.
func (s Session) LoggedIn() bool {
	return s.Name != ""
}

// RequireAdmin returns ErrForbidden unless s is an admin session.
func (s Session) RequireAdmin() error {
	if !s.LoggedIn() || !s.Admin {
		return ErrForbidden
	}
	return nil
}

type contextKey struct{}

// WithSession attaches s to ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored by WithSession, or the zero
// (anonymous) session.
func FromContext(ctx context.Context) Session {
	s, _ := ctx.Value(contextKey{}).(Session)
	return s
}
