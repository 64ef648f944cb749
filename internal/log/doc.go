// Package log provides logging built on top of the standard slog package,
// with automatic sanitization of attribute values.
//
// This package extends slog to provide:
//   - Masking of credential values (API keys, tokens, cookies)
//   - Truncation of fetched page snippets so logs stay readable
//   - Configurable log levels with verbose mode support
//
// # Why sanitize
//
// Geocoding providers are configured with API keys, and page fetches can
// attach whole HTML documents as attributes while debugging parser issues.
// The SanitizeHandler masks the former and truncates the latter before the
// record reaches the underlying handler, so verbose logs can be shared
// without scrubbing.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	logger.Debug("page fetched",
//	    "url", url,
//	    "body", page.Body, // truncated to a short prefix
//	)
//
//	slog.SetDefault(logger)
package log
