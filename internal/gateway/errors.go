package gateway

import (
	"errors"
	"fmt"
)

// Kind classifies a fetch failure. The pipeline's failure policy is driven
// entirely by this taxonomy: transient and blocked failures degrade to
// partial results, malformed pages are skipped, and only fatal failures
// abort the run.
type Kind int

const (
	// KindTransient marks retry-eligible failures: network hiccups and
	// HTTP 5xx responses.
	KindTransient Kind = iota + 1

	// KindBlocked marks bot-detection events: CAPTCHA challenges, access
	// denied pages, and HTTP 403/429. Retry only after backoff or human
	// intervention.
	KindBlocked

	// KindNotFound marks an absent entity (HTTP 404). Not an error in the
	// pipeline sense; callers treat it as an empty result.
	KindNotFound

	// KindMalformed marks an unexpected page structure. The affected unit
	// is logged and skipped.
	KindMalformed

	// KindFatal marks configuration or session failures that abort the
	// whole run.
	KindFatal
)

// String returns the kind name for logging.
func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindBlocked:
		return "blocked"
	case KindNotFound:
		return "not_found"
	case KindMalformed:
		return "malformed"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// FetchError is a classified failure from a gateway fetch.
type FetchError struct {
	// Kind is the failure classification.
	Kind Kind

	// URL is the request that failed.
	URL string

	// StatusCode is the HTTP status, when one was received.
	StatusCode int

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %s (status %d)", e.URL, e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind of err, or 0 when err is not a FetchError.
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

// IsBlocked reports whether err is a bot-detection failure.
func IsBlocked(err error) bool { return KindOf(err) == KindBlocked }

// IsNotFound reports whether err marks an absent entity.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsTransient reports whether err is retry-eligible.
func IsTransient(err error) bool { return KindOf(err) == KindTransient }

// IsFatal reports whether err must abort the run.
func IsFatal(err error) bool { return KindOf(err) == KindFatal }
