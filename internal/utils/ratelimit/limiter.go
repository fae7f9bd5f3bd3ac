// Package ratelimit provides per-client token bucket rate limiting for the
// endpoints that can be abused to spray mail or guess accounts.
package ratelimit

import (
	"math"
	"sync"
	"time"
)

// Limiter is a token bucket for one client. Tokens are added at a fixed
// rate and every allowed request consumes one.
type Limiter struct {
	tokens   float64
	lastTime time.Time
	rate     float64
	capacity float64
	now      func() time.Time
	mu       sync.Mutex
}

// Rate controls how many requests per second are allowed
type Rate struct {
	// RequestsPerSecond defines how many tokens are added per second
	RequestsPerSecond float64

	// Burst defines the maximum size of the token bucket
	Burst int
}

// NewLimiter creates a new rate limiter with the specified rate and burst capacity.
func NewLimiter(rate float64, burst int) *Limiter {
	return newLimiterWithClock(rate, burst, time.Now)
}

func newLimiterWithClock(rate float64, burst int, now func() time.Time) *Limiter {
	return &Limiter{
		tokens:   float64(burst),
		lastTime: now(),
		rate:     rate,
		capacity: float64(burst),
		now:      now,
	}
}

// refill must be called with mu held.
func (l *Limiter) refill() {
	now := l.now()
	elapsed := now.Sub(l.lastTime).Seconds()
	l.lastTime = now

	l.tokens = math.Min(l.capacity, l.tokens+elapsed*l.rate)
}

// Allow reports whether a request may proceed, consuming a token if so.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()

	if l.tokens < 1 {
		return false
	}

	l.tokens--
	return true
}

// RetryAfter returns how long until the next token is available. It is zero
// when a token is available now and negative when none will ever be added.
func (l *Limiter) RetryAfter() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()

	if l.tokens >= 1 {
		return 0
	}
	if l.rate <= 0 {
		return -1
	}
	missing := 1 - l.tokens
	return time.Duration(math.Ceil(missing / l.rate * float64(time.Second)))
}

// idleFor returns how long the limiter has gone without a request.
func (l *Limiter) idleFor() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.now().Sub(l.lastTime)
}

// ResetTokens refills the bucket.
func (l *Limiter) ResetTokens() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tokens = l.capacity
	l.lastTime = l.now()
}
