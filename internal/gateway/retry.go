package gateway

import "time"

// RetryPolicy bounds re-attempts of a failed fetch and decides which
// failure kinds are worth retrying.
//
// Design decision: An explicit policy object replaces retry-with-sleep
// loops scattered at call sites. Non-retryable failures propagate as typed
// FetchErrors instead of being silently swallowed.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, including the first.
	// Values below 1 behave as 1.
	MaxAttempts int

	// Backoff returns how long to wait before the given attempt
	// (1-based, counting failures so far). Nil means no wait.
	Backoff func(attempt int) time.Duration

	// Retryable lists the failure kinds eligible for another attempt.
	Retryable map[Kind]bool
}

// DefaultRetryPolicy retries transient failures up to three attempts with
// doubling backoff. Blocked failures are not retried here: the interactive
// backend resolves them by waiting for a human, and the stateless backend
// cannot resolve them at all.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff:     ExponentialBackoff(2 * time.Second),
		Retryable:   map[Kind]bool{KindTransient: true},
	}
}

// ExponentialBackoff returns a backoff function that doubles the base
// duration for each failed attempt: base, 2*base, 4*base, ...
func ExponentialBackoff(base time.Duration) func(attempt int) time.Duration {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		return base << (attempt - 1)
	}
}

// ShouldRetry reports whether another attempt is allowed after err on the
// given 1-based attempt number, and the delay to wait before it.
func (p RetryPolicy) ShouldRetry(err error, attempt int) (time.Duration, bool) {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if attempt >= maxAttempts {
		return 0, false
	}
	if !p.Retryable[KindOf(err)] {
		return 0, false
	}
	if p.Backoff == nil {
		return 0, true
	}
	return p.Backoff(attempt), true
}
