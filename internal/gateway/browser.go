package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
)

// DefaultChallengePoll is how often the browser backend re-reads the live
// page while waiting for a human to solve a challenge.
const DefaultChallengePoll = 5 * time.Second

// BrowserBackend fetches pages through a persistent Chrome session driven
// by rod with stealth patches. The session survives bot challenges: when a
// page comes back gated, the backend keeps the page open and polls until a
// human has solved the challenge in the visible browser window.
//
// The browser handle is created once, reused for every fetch, and released
// by Close. Fetches are serialized internally because a single page handle
// cannot render two URLs at once.
type BrowserBackend struct {
	// mu serializes access to the session handle.
	mu sync.Mutex

	browser *rod.Browser
	lnch    *launcher.Launcher
	page    *rod.Page

	// headless controls whether Chrome runs without a window. Headless
	// sessions cannot receive a human solve, so challenge waits are only
	// meaningful with headless=false.
	headless bool

	// challengePoll is the interval between checks while a challenge is
	// pending. There is no timeout: the wait blocks until the human
	// signals completion by solving, or the context is cancelled.
	challengePoll time.Duration

	logger *slog.Logger
}

// BrowserOption configures a BrowserBackend.
type BrowserOption func(*BrowserBackend)

// WithHeadless runs Chrome without a visible window. Challenge pages then
// fail as Blocked instead of waiting for a human.
func WithHeadless(headless bool) BrowserOption {
	return func(b *BrowserBackend) {
		b.headless = headless
	}
}

// WithChallengePoll sets the poll interval for pending challenges.
func WithChallengePoll(interval time.Duration) BrowserOption {
	return func(b *BrowserBackend) {
		if interval > 0 {
			b.challengePoll = interval
		}
	}
}

// WithBrowserLogger sets a custom logger.
func WithBrowserLogger(logger *slog.Logger) BrowserOption {
	return func(b *BrowserBackend) {
		b.logger = logger
	}
}

// NewBrowserBackend launches Chrome and opens one stealth page that all
// fetches share. The caller owns the backend and must Close it.
func NewBrowserBackend(opts ...BrowserOption) (*BrowserBackend, error) {
	b := &BrowserBackend{
		challengePoll: DefaultChallengePoll,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}

	b.lnch = launcher.New().Headless(b.headless)
	controlURL, err := b.lnch.Launch()
	if err != nil {
		return nil, &FetchError{Kind: KindFatal, Err: fmt.Errorf("launch browser: %w", err)}
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		b.lnch.Cleanup()
		return nil, &FetchError{Kind: KindFatal, Err: fmt.Errorf("connect browser: %w", err)}
	}
	b.browser = browser

	page, err := stealth.Page(browser)
	if err != nil {
		_ = browser.Close()
		b.lnch.Cleanup()
		return nil, &FetchError{Kind: KindFatal, Err: fmt.Errorf("open stealth page: %w", err)}
	}
	b.page = page

	return b, nil
}

// Fetch navigates the shared page to the URL and returns the rendered HTML.
// A gated page suspends the fetch until the challenge clears.
func (b *BrowserBackend) Fetch(ctx context.Context, url string) (*Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	page := b.page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return nil, &FetchError{Kind: KindTransient, URL: url, Err: fmt.Errorf("navigate: %w", err)}
	}
	if err := page.WaitLoad(); err != nil {
		return nil, &FetchError{Kind: KindTransient, URL: url, Err: fmt.Errorf("wait load: %w", err)}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, &FetchError{Kind: KindTransient, URL: url, Err: fmt.Errorf("read html: %w", err)}
	}

	if Blocked([]byte(html)) {
		if b.headless {
			return nil, &FetchError{Kind: KindBlocked, URL: url}
		}
		html, err = b.awaitChallenge(ctx, page, url)
		if err != nil {
			return nil, err
		}
	}

	return &Page{URL: url, Body: []byte(html), StatusCode: 200}, nil
}

// awaitChallenge polls the live page until the block markers disappear,
// meaning a human solved the challenge in the browser window.
func (b *BrowserBackend) awaitChallenge(ctx context.Context, page *rod.Page, url string) (string, error) {
	b.logger.Warn("challenge detected, waiting for human solve",
		"url", url,
		"poll_interval", b.challengePoll,
	)

	ticker := time.NewTicker(b.challengePoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", &FetchError{Kind: KindBlocked, URL: url, Err: ctx.Err()}
		case <-ticker.C:
		}

		html, err := page.HTML()
		if err != nil {
			return "", &FetchError{Kind: KindTransient, URL: url, Err: fmt.Errorf("read html: %w", err)}
		}
		if !Blocked([]byte(html)) {
			b.logger.Info("challenge cleared", "url", url)
			return html, nil
		}
	}
}

// Close closes the page, the browser, and the launched Chrome process.
func (b *BrowserBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var firstErr error
	if b.page != nil {
		if err := b.page.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		b.page = nil
	}
	if b.browser != nil {
		if err := b.browser.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		b.browser = nil
	}
	if b.lnch != nil {
		b.lnch.Cleanup()
		b.lnch = nil
	}
	return firstErr
}
