package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Default settings for the HTTP backend.
const (
	// DefaultUserAgent is a plain desktop browser signature. The source
	// serves a degraded page, or a challenge, to obvious non-browser agents.
	DefaultUserAgent = "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:52.0) Gecko/20100101 Firefox/52.0"

	// DefaultMaxBodySize caps response bodies at 5MB. Citation pages are
	// well under 1MB; the cap guards against runaway downloads.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultHTTPTimeout bounds one request round trip.
	DefaultHTTPTimeout = 30 * time.Second
)

// HTTPBackend fetches pages with a plain HTTP client. It holds no session
// state, which makes it fast but more likely to trip the source's bot
// detection than the browser backend.
type HTTPBackend struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
}

// HTTPOption configures an HTTPBackend.
type HTTPOption func(*HTTPBackend)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(b *HTTPBackend) {
		b.client = client
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) HTTPOption {
	return func(b *HTTPBackend) {
		b.userAgent = ua
	}
}

// WithMaxBodySize caps the response body size in bytes.
func WithMaxBodySize(size int64) HTTPOption {
	return func(b *HTTPBackend) {
		if size > 0 {
			b.maxBodySize = size
		}
	}
}

// NewHTTPBackend creates an HTTPBackend with sensible defaults.
func NewHTTPBackend(opts ...HTTPOption) *HTTPBackend {
	b := &HTTPBackend{
		client:      &http.Client{Timeout: DefaultHTTPTimeout},
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Fetch GETs the URL and classifies the outcome.
func (b *HTTPBackend) Fetch(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Kind: KindFatal, URL: url, Err: err}
	}
	req.Header.Set("User-Agent", b.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := b.client.Do(req)
	if err != nil {
		// Connection-level failures are worth another attempt.
		return nil, &FetchError{Kind: KindTransient, URL: url, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // Read errors surface via io.ReadAll

	if kind, bad := classifyStatus(resp.StatusCode); bad {
		return nil, &FetchError{Kind: kind, URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, b.maxBodySize))
	if err != nil {
		return nil, &FetchError{Kind: KindTransient, URL: url, Err: fmt.Errorf("read body: %w", err)}
	}

	if Blocked(body) {
		// A stateless backend cannot clear a challenge; fail the unit
		// and let the caller degrade to partial results.
		return nil, &FetchError{Kind: KindBlocked, URL: url, StatusCode: resp.StatusCode}
	}

	return &Page{URL: url, Body: body, StatusCode: resp.StatusCode}, nil
}

// Close implements Backend. The HTTP backend holds no session state.
func (b *HTTPBackend) Close() error {
	return nil
}

// classifyStatus maps an HTTP status to a failure kind. The bool is false
// for statuses that carry a usable page.
func classifyStatus(status int) (Kind, bool) {
	switch {
	case status == http.StatusNotFound:
		return KindNotFound, true
	case status == http.StatusForbidden || status == http.StatusTooManyRequests:
		return KindBlocked, true
	case status >= 500:
		return KindTransient, true
	case status >= 400:
		return KindMalformed, true
	default:
		return 0, false
	}
}
