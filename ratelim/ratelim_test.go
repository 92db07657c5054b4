package ratelim

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Limit(t *testing.T) {
	rl := NewRateLimiter(5, 2)
	fixed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return fixed }

	h := rl.LimitFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	other.RemoteAddr = "10.0.0.2:5555"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, other)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimiter_ForgetsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.1.1.1"))
	assert.False(t, rl.Allow("1.1.1.1"))

	now = now.Add(11 * time.Minute)
	rl.Allow("2.2.2.2")
	rl.mu.Lock()
	_, kept := rl.visitors["1.1.1.1"]
	rl.mu.Unlock()
	assert.False(t, kept)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{name: "remote addr", remoteAddr: "192.168.1.5:1234", want: "192.168.1.5"},
		{name: "gateway appended hop", remoteAddr: "10.0.0.1:1", forwarded: "198.51.100.1, 203.0.113.7", want: "203.0.113.7"},
		{name: "loopback proxy", remoteAddr: "127.0.0.1:1", forwarded: "203.0.113.7", want: "203.0.113.7"},
		{name: "public peer ignores header", remoteAddr: "203.0.113.50:1", forwarded: "198.51.100.1", want: "203.0.113.50"},
		{name: "no port", remoteAddr: "pipe", want: "pipe"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = testCase.remoteAddr
			if testCase.forwarded != "" {
				req.Header.Set("X-Forwarded-For", testCase.forwarded)
			}
			assert.Equal(t, testCase.want, ClientIP(req))
		})
	}
}

func TestRateLimiter_SpoofedForwardedFor(t *testing.T) {
	rl := NewRateLimiter(5, 2)
	fixed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return fixed }
	h := rl.LimitFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	send := func(remoteAddr, forwarded string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = remoteAddr
		req.Header.Set("X-Forwarded-For", forwarded)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	allowed := 0
	for i := 0; i < 20; i++ {
		if send("10.0.0.9:80", fmt.Sprintf("198.51.100.%d, 203.0.113.7", i)) == http.StatusOK {
			allowed++
		}
	}
	assert.Equal(t, 2, allowed, "behind the gateway")

	allowed = 0
	for i := 0; i < 20; i++ {
		if send("203.0.113.8:4444", fmt.Sprintf("198.51.100.%d", i)) == http.StatusOK {
			allowed++
		}
	}
	assert.Equal(t, 2, allowed, "direct client")
}
