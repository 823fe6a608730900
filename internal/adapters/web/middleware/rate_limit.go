package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int
}

// RateLimiter caps requests per client address over a fixed window.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*window
	limit     int
	span      time.Duration
	lastSweep time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per span.
func NewRateLimiter(limit int, span time.Duration) *RateLimiter {
	return &RateLimiter{
		clients:   make(map[string]*window),
		limit:     limit,
		span:      span,
		lastSweep: time.Now(),
	}
}

// Allow reports whether a request from addr fits in the current window and
// records it. Stale windows are recycled in place; at most once per span a
// full sweep drops entries for addresses that stopped talking, so one-shot
// clients cannot grow the map without bound.
func (rl *RateLimiter) Allow(addr string) bool {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastSweep) >= rl.span {
		for k, w := range rl.clients {
			if now.Sub(w.start) >= rl.span {
				delete(rl.clients, k)
			}
		}
		rl.lastSweep = now
	}

	w, ok := rl.clients[addr]
	if !ok || now.Sub(w.start) >= rl.span {
		rl.clients[addr] = &window{start: now, count: 1}
		return true
	}
	if w.count >= rl.limit {
		return false
	}
	w.count++
	return true
}

// RateLimitMiddleware rejects requests over the limit with 429.
func RateLimitMiddleware(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(r.RemoteAddr) {
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
