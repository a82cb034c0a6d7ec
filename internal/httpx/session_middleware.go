package httpx

import (
	"net/http"

	"bookstore/internal/session"
)

// SessionMiddleware decodes the session cookie and stores the result (possibly
// anonymous) in the request context.
func SessionMiddleware(codec *session.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := codec.FromRequest(r)
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
		})
	}
}

// RedirectToLogin sends the client to the login page.
func RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// RequireAdmin lets only admin sessions through; everyone else is redirected
// to the login page.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := session.FromContext(r.Context()).RequireAdmin(); err != nil {
			RedirectToLogin(w, r)
			return
		}
		next(w, r)
	}
}
