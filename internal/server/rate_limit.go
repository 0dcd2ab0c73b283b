package server

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kevinms/leakybucket-go"
)

// RateLimiter limits each client to Burst requests at once, drained at
// RequestsPerSecond. Every client owns one leaky bucket keyed by address.
type RateLimiter struct {
	mu       sync.Mutex
	buckets  *leakybucket.Collector
	rate     float64
	cleanup  time.Duration
	stopOnce sync.Once
	stopChan chan struct{}
}

// RateLimiterConfig configures a RateLimiter.
type RateLimiterConfig struct {
	// RequestsPerSecond is the drain rate. Default: 20.
	RequestsPerSecond float64
	// Burst is the bucket size. Default: twice the rate, at least 1.
	Burst int
	// CleanupInterval is how often drained buckets are pruned. Default: 5m.
	CleanupInterval time.Duration
}

// NewRateLimiter creates a RateLimiter and starts its cleanup goroutine;
// call Stop to end it.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = 20
	}
	if config.Burst <= 0 {
		config.Burst = max(int(math.Ceil(2*config.RequestsPerSecond)), 1)
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}

	rl := &RateLimiter{
		buckets:  leakybucket.NewCollector(config.RequestsPerSecond, int64(config.Burst), true),
		rate:     config.RequestsPerSecond,
		cleanup:  config.CleanupInterval,
		stopChan: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Allow records one request from clientIP and reports whether its bucket
// had room for it.
func (rl *RateLimiter) Allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.buckets.Remaining(clientIP) <= 0 {
		return false
	}
	rl.buckets.Add(clientIP, 1)
	return true
}

// retryAfter is the number of whole seconds until one request drains.
func (rl *RateLimiter) retryAfter() int {
	return max(int(math.Ceil(1/rl.rate)), 1)
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			rl.buckets.Prune()
			rl.mu.Unlock()
		case <-rl.stopChan:
			return
		}
	}
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopChan) })
}

// RateLimitMiddleware answers 429 with a Retry-After header once a client
// has spent its tokens.
func RateLimitMiddleware(rl *RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(getClientIP(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", fmt.Sprint(rl.retryAfter()))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"Too Many Requests","message":"Rate limit exceeded. Please try again later."}`))
			return
		}
		next(w, r)
	}
}

// getClientIP returns the first X-Forwarded-For address, then X-Real-IP,
// then RemoteAddr without its port.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.Trim(r.RemoteAddr, "[]")
	}
	return host
}
