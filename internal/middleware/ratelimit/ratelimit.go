// Package ratelimit throttles write requests per client with a fixed
// one-minute window.
package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const window = time.Minute

// Limiter counts requests per client key. Idle entries are dropped by
// CleanExpired, so a cache.Manager can sweep it alongside the caches.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
	limit   int
	idle    time.Duration
	now     func() time.Time
}

type clientWindow struct {
	started  time.Time
	lastSeen time.Time
	requests int
}

// Config holds rate limiter configuration
type Config struct {
	RequestsPerMinute int
	// IdleTimeout is how long an untouched client entry is kept.
	IdleTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		IdleTimeout:       10 * time.Minute,
	}
}

func NewLimiter(config Config) *Limiter {
	def := DefaultConfig()
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = def.RequestsPerMinute
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = def.IdleTimeout
	}
	return &Limiter{
		clients: make(map[string]*clientWindow),
		limit:   config.RequestsPerMinute,
		idle:    config.IdleTimeout,
		now:     time.Now,
	}
}

// Allow records a request from key and reports whether it fits the current window.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.clients[key]
	if !ok || now.Sub(c.started) >= window {
		l.clients[key] = &clientWindow{started: now, lastSeen: now, requests: 1}
		return true
	}
	c.requests++
	c.lastSeen = now
	return c.requests <= l.limit
}

// CleanExpired drops clients idle for longer than the idle timeout.
func (l *Limiter) CleanExpired() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.idle)
	removed := 0
	for key, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, key)
			removed++
		}
	}
	return removed
}

// ActiveClients returns the number of currently tracked clients
func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Middleware rejects requests over the limit with 429. Only unsafe methods
// are counted; reads always pass.
func (l *Limiter) Middleware(key func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			if !l.Allow(key(r)) {
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RemoteAddr keys clients by r.RemoteAddr, which chi's RealIP middleware
// rewrites from the forwarding headers.
func RemoteAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
