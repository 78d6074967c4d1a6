package scraper

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// RateLimiter enforces a minimum interval between requests, shared by every
// caller holding the same instance.
//
// Unlike a token bucket, the interval is measured from the completion of the
// previous Wait, so back-to-back bursts are spaced by the full interval. The
// mutex is held across the timed sleep: concurrent waiters serialize and
// each observes the same minimum spacing.
type RateLimiter struct {
	mu          sync.Mutex
	minInterval time.Duration
	last        time.Time
}

// NewRateLimiter creates a limiter allowing requestsPerSecond requests.
func NewRateLimiter(requestsPerSecond float64) (*RateLimiter, error) {
	if requestsPerSecond <= 0 {
		return nil, eris.Errorf("rate limiter: requests per second must be > 0, got %v", requestsPerSecond)
	}
	return &RateLimiter{
		minInterval: time.Duration(float64(time.Second) / requestsPerSecond),
	}, nil
}

// MinInterval returns the configured minimum spacing between requests.
func (r *RateLimiter) MinInterval() time.Duration {
	return r.minInterval
}

// Wait blocks until the minimum interval since the previous completed Wait
// has elapsed. The first call never waits. The shared timestamp is updated
// when the wait completes, not when it starts.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.last.IsZero() {
		if d := r.minInterval - time.Since(r.last); d > 0 {
			t := time.NewTimer(d)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
			}
		}
	}

	r.last = time.Now()
	return nil
}
