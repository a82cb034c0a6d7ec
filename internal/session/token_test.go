package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_RoundTrip(t *testing.T) {
	c := NewCodec("test-secret", time.Hour)

	token, err := c.Encode(Session{UserID: 42, Name: "reader", Admin: false})
	require.NoError(t, err)

	s, err := c.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, Session{UserID: 42, Name: "reader"}, s)
}

func TestCodec_SuperAdmin(t *testing.T) {
	c := NewCodec("test-secret", time.Hour)

	token, err := c.Encode(Session{UserID: 0, Name: "admin", Admin: true})
	require.NoError(t, err)

	s, err := c.Decode(token)
	require.NoError(t, err)
	assert.True(t, s.Admin)
	assert.NoError(t, s.RequireAdmin())
}

func TestCodec_Rejects(t *testing.T) {
	c := NewCodec("test-secret", time.Hour)

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewCodec("other", time.Hour).Encode(Session{UserID: 1, Name: "x", Admin: true})
		require.NoError(t, err)
		_, err = c.Decode(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		old := NewCodec("test-secret", time.Minute)
		old.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, err := old.Encode(Session{UserID: 1, Name: "x"})
		require.NoError(t, err)
		_, err = c.Decode(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("unsigned", func(t *testing.T) {
		claims := Claims{Name: "x", Admin: true, RegisteredClaims: jwt.RegisteredClaims{Subject: "1"}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = c.Decode(token)
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := c.Decode("not.a.token")
		assert.Error(t, err)
	})

	t.Run("anonymous session cannot be encoded", func(t *testing.T) {
		_, err := c.Encode(Session{})
		assert.Error(t, err)
	})
}

func TestCodec_CookieFlow(t *testing.T) {
	c := NewCodec("test-secret", time.Hour)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, c.Issue(w, r, Session{UserID: 3, Name: "ann"}))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[0])
	assert.Equal(t, Session{UserID: 3, Name: "ann"}, c.FromRequest(next))

	tampered := httptest.NewRequest(http.MethodGet, "/", nil)
	tampered.AddCookie(&http.Cookie{Name: CookieName, Value: cookies[0].Value + "x"})
	assert.False(t, c.FromRequest(tampered).LoggedIn())

	cleared := httptest.NewRecorder()
	Clear(cleared)
	Clear(cleared)
	for _, ck := range cleared.Result().Cookies() {
		assert.Equal(t, CookieName, ck.Name)
		assert.Equal(t, -1, ck.MaxAge)
	}
}

func TestSession_RequireAdmin(t *testing.T) {
	assert.ErrorIs(t, Session{}.RequireAdmin(), ErrForbidden)
	assert.ErrorIs(t, Session{UserID: 5, Name: "bob"}.RequireAdmin(), ErrForbidden)
	assert.NoError(t, Session{UserID: 5, Name: "bob", Admin: true}.RequireAdmin())
}
