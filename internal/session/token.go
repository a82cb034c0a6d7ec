package session

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie that carries the signed session token.
const CookieName = "bookstore_session"

// Claims is the JWT payload of a session token.
type Claims struct {
	Name  string `json:"name"`
	Admin bool   `json:"admin"`
	jwt.RegisteredClaims
}

// Codec signs sessions into HS256 tokens and verifies them back.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (c *Codec) Encode(s Session) (string, error) {
	if !s.LoggedIn() {
		return "", errors.New("session has no name")
	}
	now := c.now()
	claims := Claims{
		Name:  s.Name,
		Admin: s.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(s.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

func (c *Codec) Decode(token string) (Session, error) {
	t, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now))
	if err != nil {
		return Session{}, err
	}
	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return Session{}, jwt.ErrTokenInvalidClaims
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Session{}, fmt.Errorf("session subject: %w", err)
	}
	s := Session{UserID: id, Name: claims.Name, Admin: claims.Admin}
	if !s.LoggedIn() {
		return Session{}, jwt.ErrTokenInvalidClaims
	}
	return s, nil
}

// Issue stores s in the session cookie.
func (c *Codec) Issue(w http.ResponseWriter, r *http.Request, s Session) error {
	token, err := c.Encode(s)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  c.now().Add(c.ttl),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// FromRequest returns the session carried by the request cookie. A missing,
// expired or tampered cookie yields the anonymous session.
func (c *Codec) FromRequest(r *http.Request) Session {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return Session{}
	}
	s, err := c.Decode(cookie.Value)
	if err != nil {
		return Session{}
	}
	return s
}

// Clear expires the session cookie. Safe to call without a session.
func Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
