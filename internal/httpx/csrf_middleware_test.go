package httpx

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSRFMiddleware_IssuesTokenOnGet(t *testing.T) {
	var token string
	handler := CSRFMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = CSRFTokenFrom(r)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, token)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CSRFCookieName, cookies[0].Name)
	assert.Equal(t, token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestCSRFMiddleware_Post(t *testing.T) {
	const token = "0123456789abcdef"

	tests := []struct {
		name   string
		cookie string
		field  string
		header string
		want   int
	}{
		{"matching field", token, token, "", http.StatusOK},
		{"matching header", token, "", token, http.StatusOK},
		{"missing field", token, "", "", http.StatusForbidden},
		{"mismatched field", token, "other", "", http.StatusForbidden},
		{"no cookie", "", token, "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			handler := CSRFMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
			}))

			form := url.Values{}
			if tt.field != "" {
				form.Set(CSRFFieldName, tt.field)
			}
			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tt.header != "" {
				req.Header.Set("X-CSRF-Token", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: tt.cookie})
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, tt.want == http.StatusOK, reached)
		})
	}
}

func multipartBody(t *testing.T, token string, fileSize int) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField(CSRFFieldName, token))
	fw, err := mw.CreateFormFile("image", "cover.png")
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte("x"), fileSize))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestCSRFMiddleware_Multipart(t *testing.T) {
	const token = "0123456789abcdef"

	tests := []struct {
		name     string
		fileSize int
		want     int
	}{
		{"within limit", 100, http.StatusOK},
		{"chunked body over limit", 4096, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				assert.Equal(t, token, r.PostFormValue(CSRFFieldName))
			}), RequestSizeLimitMiddleware(1024), CSRFMiddleware)

			body, contentType := multipartBody(t, token, tt.fileSize)
			req := httptest.NewRequest(http.MethodPost, "/add", body)
			req.Header.Set("Content-Type", contentType)
			req.ContentLength = -1
			req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: token})
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, tt.want == http.StatusOK, reached)
		})
	}
}
