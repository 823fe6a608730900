package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	assert.True(t, rl.Allow("10.0.0.1:1234"))
	assert.True(t, rl.Allow("10.0.0.1:1234"))
	assert.True(t, rl.Allow("10.0.0.1:1234"))
	assert.False(t, rl.Allow("10.0.0.1:1234"))

	// Port changes do not dodge the limit.
	assert.False(t, rl.Allow("10.0.0.1:9999"))

	// Other clients are unaffected.
	assert.True(t, rl.Allow("10.0.0.2:1234"))
}

func TestRateLimiter_WindowRecycles(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	assert.True(t, rl.Allow("10.0.0.1:1234"))
	assert.False(t, rl.Allow("10.0.0.1:1234"))

	time.Sleep(15 * time.Millisecond)

	assert.True(t, rl.Allow("10.0.0.1:1234"))
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	rl := NewRateLimiter(5, 10*time.Millisecond)

	for i := 0; i < 50; i++ {
		assert.True(t, rl.Allow(fmt.Sprintf("10.1.0.%d:1234", i)))
	}
	assert.Len(t, rl.clients, 50)

	time.Sleep(15 * time.Millisecond)

	// The next request sweeps out every window that has gone stale.
	assert.True(t, rl.Allow("10.2.0.1:1234"))
	assert.Len(t, rl.clients, 1)
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	handler := RateLimitMiddleware(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.5:1000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.5:1000"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
