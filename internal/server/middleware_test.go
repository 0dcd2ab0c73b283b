package server

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/agbru/fibdrv/internal/logging"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestSecurityMiddleware(t *testing.T) {
	t.Parallel()
	h := SecurityMiddleware(DefaultSecurityConfig(), okHandler)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://example.org")
	rec := httptest.NewRecorder()
	h(rec, req)

	for header, want := range map[string]string{
		"X-Content-Type-Options":       "nosniff",
		"X-Frame-Options":              "DENY",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "GET, OPTIONS",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}

	pre := httptest.NewRequest(http.MethodOptions, "/fibonacci", nil)
	rec = httptest.NewRecorder()
	h(rec, pre)
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status %d, want 204", rec.Code)
	}
}

func TestSecurityMiddlewareRestrictedOrigin(t *testing.T) {
	t.Parallel()
	cfg := SecurityConfig{EnableCORS: true, AllowedOrigins: []string{"https://ok.example"}, AllowedMethods: []string{"GET"}}
	h := SecurityMiddleware(cfg, okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	h(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("disallowed origin got CORS header %q", got)
	}
}

func TestRateLimiterBurst(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 2, Burst: 3})
	defer rl.Stop()

	for i := range 3 {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d within burst was rejected", i)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("request beyond burst was allowed")
	}
	if !rl.Allow("5.6.7.8") {
		t.Fatal("other client was rejected")
	}
}

func TestRateLimiterDrains(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 20, Burst: 1})
	defer rl.Stop()

	if !rl.Allow("a") {
		t.Fatal("first request rejected")
	}
	if rl.Allow("a") {
		t.Fatal("second request allowed before the bucket drained")
	}
	time.Sleep(150 * time.Millisecond)
	if !rl.Allow("a") {
		t.Fatal("request rejected after the bucket drained")
	}
}

func TestRateLimiterDefaults(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimiterConfig{})
	defer rl.Stop()
	if rl.rate != 20 || rl.cleanup != 5*time.Minute {
		t.Errorf("defaults: rate %v, cleanup %v", rl.rate, rl.cleanup)
	}
	if got := rl.retryAfter(); got != 1 {
		t.Errorf("retryAfter() = %d, want 1", got)
	}
	slow := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.25})
	defer slow.Stop()
	if got := slow.retryAfter(); got != 4 {
		t.Errorf("retryAfter() at 0.25 rps = %d, want 4", got)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, Burst: 1})
	h := RateLimitMiddleware(rl, okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusTooManyRequests || rec.Header().Get("Retry-After") != "1" {
		t.Errorf("second request: status %d, Retry-After %q", rec.Code, rec.Header().Get("Retry-After"))
	}
	rl.Stop()
}

func TestGetClientIP(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded", map[string]string{"X-Forwarded-For": " 9.9.9.9 , 10.0.0.1"}, "1.1.1.1:1", "9.9.9.9"},
		{"real ip", map[string]string{"X-Real-IP": "8.8.8.8"}, "1.1.1.1:1", "8.8.8.8"},
		{"remote v4", nil, "1.1.1.1:1234", "1.1.1.1"},
		{"remote v6", nil, "[::1]:1234", "::1"},
		{"no port", nil, "[::1]", "::1"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remote
		for k, v := range tt.headers {
			req.Header.Set(k, v)
		}
		if got := getClientIP(req); got != tt.want {
			t.Errorf("%s: getClientIP = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestLoggingMiddlewareRequestID(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	s := &Server{logger: logging.NewStdLoggerAdapter(log.New(&logs, "", 0))}
	h := s.loggingMiddleware(okHandler)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	id := rec.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("generated request id %q is not a UUID: %v", id, err)
	}
	if !strings.Contains(logs.String(), id) {
		t.Errorf("request id missing from log line %q", logs.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "client-42")
	rec = httptest.NewRecorder()
	h(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "client-42" {
		t.Errorf("request id = %q, want the client value", got)
	}
}
