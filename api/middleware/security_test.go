package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurityHeaders(t *testing.T) {
	mw := newTestMiddleware(&stubUsers{})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	mw.SecurityHeaders()(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))

	mw.cfg.Server.Environment = "production"
	rec = httptest.NewRecorder()
	mw.SecurityHeaders()(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestBodyLimit(t *testing.T) {
	mw := newTestMiddleware(&stubUsers{})

	var readErr error
	handler := mw.BodyLimit(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"items":[]}`)))
	require.NoError(t, readErr)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(strings.Repeat("x", 64))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIsProbe(t *testing.T) {
	assert.True(t, isProbe("/metrics"))
	assert.True(t, isProbe("/health/ready"))
	assert.False(t, isProbe("/orders"))
	assert.False(t, isProbe("/healthy"))
}
