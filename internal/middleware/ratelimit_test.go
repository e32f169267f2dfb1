package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var lastCode int
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:51234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		lastCode = rr.Code

		if i < 3 && rr.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rr.Code)
		}
	}

	if lastCode != http.StatusTooManyRequests {
		t.Errorf("expected 429 after limit, got %d", lastCode)
	}
}

func TestRateLimiter_CountsPerIP(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, addr := range []string{"203.0.113.7:1000", "203.0.113.8:1000"} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("first request from %s should pass, got %d", addr, rr.Code)
		}
	}
}

func TestRateLimiter_SamePortDifferentConnection(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	if !rl.allow(clientIP(&http.Request{RemoteAddr: "203.0.113.7:1000"})) {
		t.Fatal("first request should be allowed")
	}
	// same host, new ephemeral port: still the same client
	if rl.allow(clientIP(&http.Request{RemoteAddr: "203.0.113.7:2000"})) {
		t.Error("port change should not reset the per-IP count")
	}
}
