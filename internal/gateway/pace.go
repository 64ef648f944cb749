package gateway

import (
	"context"
	"math/rand/v2"
	"time"

	"golang.org/x/time/rate"
)

// Pacer delays the caller before each external request. Every
// implementation guarantees that requests never form a burst; they differ
// only in how the spacing is computed.
type Pacer interface {
	// Wait blocks until the next request may be issued, or until the
	// context is cancelled.
	Wait(ctx context.Context) error
}

// JitterPacer sleeps a uniformly random duration in [Min, Max] before each
// request. Randomized spacing avoids a detectable request-rate signature on
// sources that fingerprint fixed intervals.
type JitterPacer struct {
	// Min and Max bound the random delay. Min must be <= Max.
	Min time.Duration
	Max time.Duration
}

// NewJitterPacer creates a JitterPacer with the given delay window.
func NewJitterPacer(minDelay, maxDelay time.Duration) *JitterPacer {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &JitterPacer{Min: minDelay, Max: maxDelay}
}

// Wait sleeps for a random duration within the window.
func (p *JitterPacer) Wait(ctx context.Context) error {
	delay := p.Min
	if span := p.Max - p.Min; span > 0 {
		delay += time.Duration(rand.Int64N(int64(span) + 1))
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// BucketPacer paces requests with a token bucket of burst size one, so the
// minimum spacing between requests is the refill interval.
type BucketPacer struct {
	limiter *rate.Limiter
}

// NewBucketPacer creates a BucketPacer that allows one request per interval.
func NewBucketPacer(interval time.Duration) *BucketPacer {
	return &BucketPacer{
		// Burst of 1 keeps the no-burst guarantee: a caller that was
		// idle does not get to fire a backlog of requests at once.
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Wait blocks until the bucket grants a token.
func (p *BucketPacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// NopPacer performs no pacing. Used in tests against local fakes.
type NopPacer struct{}

// Wait returns immediately.
func (NopPacer) Wait(ctx context.Context) error {
	return ctx.Err()
}
