package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore/internal/session"
	"bookstore/internal/user"
	"bookstore/internal/web"
)

func newTestHandler(t *testing.T) (*HTTPHandler, *MockUserStore, *session.Codec) {
	t.Helper()
	svc, store := newTestService(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	renderer, err := web.NewRenderer(logger)
	require.NoError(t, err)
	codec := session.NewCodec("test-secret", time.Hour)
	return NewHTTPHandler(svc, codec, renderer, logger), store, codec
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestHTTPHandler_Login(t *testing.T) {
	t.Run("super-admin goes to inventory", func(t *testing.T) {
		h, _, codec := newTestHandler(t)
		w := httptest.NewRecorder()

		h.Login(w, postForm("/login", url.Values{"identifier": {"admin"}, "password": {"root-pass"}}))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/admin", w.Header().Get("Location"))

		c := sessionCookie(t, w)
		require.NotNil(t, c)
		assert.True(t, c.HttpOnly)
		s, err := codec.Decode(c.Value)
		require.NoError(t, err)
		assert.Equal(t, session.Session{UserID: 0, Name: "admin", Admin: true}, s)
	})

	t.Run("user goes to catalog", func(t *testing.T) {
		h, store, codec := newTestHandler(t)
		hash, err := HashPassword("correct-horse")
		require.NoError(t, err)
		store.EXPECT().GetByUsernameOrEmail(gomock.Any(), "alice").
			Return(user.User{ID: 4, Username: "alice", PasswordHash: hash}, nil)
		w := httptest.NewRecorder()

		h.Login(w, postForm("/login", url.Values{"identifier": {"alice"}, "password": {"correct-horse"}}))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		s, err := codec.Decode(sessionCookie(t, w).Value)
		require.NoError(t, err)
		assert.False(t, s.Admin)
		assert.Equal(t, int64(4), s.UserID)
	})

	t.Run("bad credentials re-render the form", func(t *testing.T) {
		h, store, _ := newTestHandler(t)
		store.EXPECT().GetByUsernameOrEmail(gomock.Any(), "ghost").Return(user.User{}, user.ErrNotFound)
		w := httptest.NewRecorder()

		h.Login(w, postForm("/login", url.Values{"identifier": {"ghost"}, "password": {"whatever1"}}))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid username or password.")
		assert.Contains(t, w.Body.String(), `value="ghost"`)
		assert.Nil(t, sessionCookie(t, w))
	})

	t.Run("store failure is a 500", func(t *testing.T) {
		h, store, _ := newTestHandler(t)
		store.EXPECT().GetByUsernameOrEmail(gomock.Any(), "alice").Return(user.User{}, errors.New("conn refused"))
		w := httptest.NewRecorder()

		h.Login(w, postForm("/login", url.Values{"identifier": {"alice"}, "password": {"whatever1"}}))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHTTPHandler_Register(t *testing.T) {
	form := url.Values{"username": {"alice"}, "email": {"alice@example.com"}, "password": {"s3cret-pass"}}

	t.Run("success redirects to login", func(t *testing.T) {
		h, store, _ := newTestHandler(t)
		store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		w := httptest.NewRecorder()

		h.Register(w, postForm("/register", form))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login?registered=1", w.Header().Get("Location"))
	})

	t.Run("duplicate is a conflict", func(t *testing.T) {
		h, store, _ := newTestHandler(t)
		store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(user.ErrDuplicate)
		w := httptest.NewRecorder()

		h.Register(w, postForm("/register", form))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "already registered")
		assert.Contains(t, w.Body.String(), `value="alice@example.com"`)
	})

	t.Run("invalid input is a bad request", func(t *testing.T) {
		h, _, _ := newTestHandler(t)
		w := httptest.NewRecorder()

		h.Register(w, postForm("/register", url.Values{"username": {"al"}, "email": {"nope"}, "password": {"short"}}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `class="error"`)
	})
}

func TestHTTPHandler_LoginPageShowsRegisteredNotice(t *testing.T) {
	h, _, _ := newTestHandler(t)
	w := httptest.NewRecorder()

	h.LoginPage(w, httptest.NewRequest(http.MethodGet, "/login?registered=1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Account created")
}

func TestHTTPHandler_Logout(t *testing.T) {
	h, _, _ := newTestHandler(t)

	for _, withCookie := range []bool{true, false} {
		req := httptest.NewRequest(http.MethodGet, "/logout", nil)
		if withCookie {
			req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "anything"})
		}
		w := httptest.NewRecorder()

		h.Logout(w, req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		c := sessionCookie(t, w)
		require.NotNil(t, c)
		assert.Less(t, c.MaxAge, 0)
	}
}
