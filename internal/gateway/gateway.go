package gateway

import (
	"bytes"
	"context"
	"log/slog"
	"time"
)

// blockMarkers are content fragments that indicate the source has gated the
// page behind a bot challenge. Matching is case-sensitive: "Forbidden" as an
// error page title is a block signal, "forbidden" inside an abstract is not.
var blockMarkers = [][]byte{
	[]byte("CAPTCHA"),
	[]byte("not a robot"),
	[]byte("Access Denied"),
	[]byte("Forbidden"),
}

// Blocked reports whether the page content carries a known block marker.
func Blocked(body []byte) bool {
	for _, marker := range blockMarkers {
		if bytes.Contains(body, marker) {
			return true
		}
	}
	return false
}

// Page is the raw result of one fetch.
type Page struct {
	// URL is the fetched URL.
	URL string

	// Body is the page content. The backend caps its size.
	Body []byte

	// StatusCode is the HTTP status when the backend observed one.
	// Browser backends report 200 for any page that rendered.
	StatusCode int
}

// Backend fetches one page from the external source. Implementations own
// any session state and must be safe for use by multiple goroutines.
type Backend interface {
	// Fetch retrieves the page at the given URL. Failures are returned
	// as *FetchError values classified by Kind.
	Fetch(ctx context.Context, url string) (*Page, error)

	// Close releases any session resources held by the backend.
	Close() error
}

// Gateway wraps a Backend with pacing and bounded retry. It is the single
// entry point the rest of the pipeline uses for external requests.
type Gateway struct {
	backend Backend
	pacer   Pacer
	retry   RetryPolicy
	logger  *slog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithPacer sets the pacing policy. Default is a 1-5 second jitter.
func WithPacer(p Pacer) Option {
	return func(g *Gateway) {
		g.pacer = p
	}
}

// WithRetryPolicy sets the retry policy. Default is DefaultRetryPolicy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(g *Gateway) {
		g.retry = p
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// New creates a Gateway over the given backend.
func New(backend Backend, opts ...Option) *Gateway {
	g := &Gateway{
		backend: backend,
		pacer:   NewJitterPacer(1*time.Second, 5*time.Second),
		retry:   DefaultRetryPolicy(),
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.logger == nil {
		g.logger = slog.Default()
	}

	return g
}

// Fetch paces, fetches, and retries per policy. The returned error, when
// non-nil, is the classified error of the final attempt.
func (g *Gateway) Fetch(ctx context.Context, url string) (*Page, error) {
	var lastErr error

	for attempt := 1; ; attempt++ {
		if err := g.pacer.Wait(ctx); err != nil {
			return nil, &FetchError{Kind: KindFatal, URL: url, Err: err}
		}

		page, err := g.backend.Fetch(ctx, url)
		if err == nil {
			return page, nil
		}
		lastErr = err

		delay, retry := g.retry.ShouldRetry(err, attempt)
		if !retry {
			return nil, lastErr
		}

		g.logger.Warn("fetch failed, retrying",
			"url", url,
			"attempt", attempt,
			"kind", KindOf(err).String(),
			"backoff", delay,
		)

		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, &FetchError{Kind: KindFatal, URL: url, Err: ctx.Err()}
			case <-timer.C:
			}
		}
	}
}

// Close releases the underlying backend.
func (g *Gateway) Close() error {
	return g.backend.Close()
}
