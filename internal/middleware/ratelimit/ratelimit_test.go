package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestLimiter(limit int) (*Limiter, *clock) {
	c := &clock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	l := NewLimiter(Config{RequestsPerMinute: limit, IdleTimeout: 5 * time.Minute})
	l.now = c.now
	return l, c
}

func TestAllowWindow(t *testing.T) {
	l, c := newTestLimiter(2)

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"), "clients are counted separately")

	c.t = c.t.Add(time.Minute)
	assert.True(t, l.Allow("a"), "a new window starts after a minute")
}

func TestCleanExpired(t *testing.T) {
	l, c := newTestLimiter(5)
	l.Allow("a")
	c.t = c.t.Add(4 * time.Minute)
	l.Allow("b")

	c.t = c.t.Add(2 * time.Minute)
	assert.Equal(t, 1, l.CleanExpired())
	assert.Equal(t, 1, l.ActiveClients())
}

func TestMiddlewareOnlyCountsWrites(t *testing.T) {
	l, _ := newTestLimiter(1)
	h := l.Middleware(RemoteAddr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(method string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(method, "/expenses", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		h.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusNoContent, do(http.MethodGet).Code)
	assert.Equal(t, http.StatusNoContent, do(http.MethodGet).Code)
	assert.Equal(t, http.StatusNoContent, do(http.MethodPost).Code)

	rr := do(http.MethodPost)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "60", rr.Header().Get("Retry-After"))
}

func TestRemoteAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "[::1]:8080"
	assert.Equal(t, "::1", RemoteAddr(req))

	req.RemoteAddr = "192.168.1.9"
	assert.Equal(t, "192.168.1.9", RemoteAddr(req))
}
