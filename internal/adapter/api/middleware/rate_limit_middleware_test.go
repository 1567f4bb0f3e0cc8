package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedLimiter struct {
	keys       []string
	allowed    bool
	retryAfter time.Duration
	err        error
}

func (l *scriptedLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	l.keys = append(l.keys, key)
	return l.allowed, l.retryAfter, l.err
}

func runRateLimit(t *testing.T, limiter *scriptedLimiter, uid string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/offers/sent", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if uid != "" {
		c.Set("uid", uid)
	}

	err := RateLimit(limiter)(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})(c)
	require.NoError(t, err)
	return rec
}

func TestRateLimitKeys(t *testing.T) {
	limiter := &scriptedLimiter{allowed: true}

	runRateLimit(t, limiter, "user-1")
	runRateLimit(t, limiter, "")

	assert.Equal(t, []string{"user:user-1", "ip:10.0.0.1"}, limiter.keys)
}

func TestRateLimitRejects(t *testing.T) {
	limiter := &scriptedLimiter{allowed: false, retryAfter: 1500 * time.Millisecond}

	rec := runRateLimit(t, limiter, "user-1")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "TOO_MANY_REQUESTS")
}

func TestRateLimitFailsOpen(t *testing.T) {
	limiter := &scriptedLimiter{err: errors.New("redis down")}

	rec := runRateLimit(t, limiter, "user-1")

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
