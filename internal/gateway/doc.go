// Package gateway issues single logical requests against the external
// citation source, which actively defends itself against automation.
//
// The package owns all anti-blocking behavior so that callers never see it:
//   - A Pacer inserts a delay before every external call so requests never
//     form a detectable burst (randomized jitter or token bucket)
//   - Block detection scans returned content for challenge markers
//   - A RetryPolicy bounds re-attempts and classifies which failure kinds
//     are retry-eligible
//
// Two interchangeable backends implement the same Fetch contract: a
// stateless HTTP backend (fast, more blockable) and a persistent browser
// backend (slower, keeps a live session and waits out CAPTCHAs). Callers are
// agnostic to which one is in use.
//
// Design decision: The browser handle is an explicitly owned resource
// created with the backend and released by Close, never a hidden singleton.
// Re-establishing a browser session is expensive, so the handle is reused
// across calls and access to it is serialized inside the backend.
package gateway
