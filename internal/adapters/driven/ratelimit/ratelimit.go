// Package ratelimit paces calls to hosted model APIs.
//
// Free-tier OpenRouter models enforce tight per-minute quotas. The limiter
// spaces requests with a token bucket and, after a 429 response, holds all
// further requests until the provider's retry-after period has passed.
// It never retries a request itself.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBackoff is used when a 429 response carries no retry-after hint.
const DefaultBackoff = 20 * time.Second

// Config holds rate limiting configuration.
type Config struct {
	// RequestsPerSecond is the sustained rate limit. Zero disables pacing.
	RequestsPerSecond float64

	// Burst is the maximum burst size.
	Burst int
}

// DefaultConfig is conservative enough for OpenRouter's free tier.
var DefaultConfig = Config{RequestsPerSecond: 0.5, Burst: 3}

// Limiter is a token bucket with backoff after rate limit responses.
// A nil *Limiter never blocks.
type Limiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
	now     func() time.Time
}

// New creates a limiter from cfg.
func New(cfg Config) *Limiter {
	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Limiter{
		limiter: rate.NewLimiter(limit, burst),
		now:     time.Now,
	}
}

// Wait blocks until a request can be made without exceeding the rate limit.
// It also respects any backoff period set by RecordRateLimit.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if wait := retryAt.Sub(l.now()); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return l.limiter.Wait(ctx)
}

// RecordRateLimit sets a backoff period after a 429 response.
// A non-positive retryAfter uses DefaultBackoff.
func (l *Limiter) RecordRateLimit(retryAfter time.Duration) {
	if l == nil {
		return
	}
	if retryAfter <= 0 {
		retryAfter = DefaultBackoff
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if at := l.now().Add(retryAfter); at.After(l.retryAt) {
		l.retryAt = at
	}
}

// Allow reports whether a request can be made immediately without blocking.
func (l *Limiter) Allow() bool {
	if l == nil {
		return true
	}

	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if l.now().Before(retryAt) {
		return false
	}
	return l.limiter.Allow()
}

// BackingOff reports whether the limiter is holding requests after a 429.
func (l *Limiter) BackingOff() bool {
	if l == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.now().Before(l.retryAt)
}
