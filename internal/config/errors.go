package config

import "errors"

// Configuration validation errors.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoScholarID is returned when no Google Scholar author ID is
	// provided.
	ErrNoScholarID = errors.New("no scholar ID specified: provide the author's Google Scholar ID")

	// ErrInvalidMode is returned when the affiliation mode is neither
	// "aggressive" nor "conservative".
	ErrInvalidMode = errors.New("invalid affiliation mode: must be \"aggressive\" or \"conservative\"")

	// ErrInvalidGeocodeAttempts is returned when the geocode attempt
	// budget is not positive. Zero attempts would drop every institution.
	ErrInvalidGeocodeAttempts = errors.New("invalid geocode attempts: must be positive")

	// ErrInvalidPaceWindow is returned when the pacing delay window is
	// negative or inverted.
	ErrInvalidPaceWindow = errors.New("invalid pace window: minimum must be non-negative and not exceed maximum")
)
