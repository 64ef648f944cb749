package scholar

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/nao1215/citemap/internal/gateway"
)

// citingPage builds one citation-search page with the given result titles
// and an optional navigation anchor to the next page.
func citingPage(nextLabel int, nextHref string, titles ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i, title := range titles {
		fmt.Fprintf(&b, `<div class="gs_ri">
			<h3 class="gs_rt">%s</h3>
			<div class="gs_a"><a href="/citations?user=author%d">A Author</a></div>
		</div>`, title, i)
	}
	if nextHref != "" {
		fmt.Fprintf(&b, `<a class="gs_nma" href="%s">%d</a>`, nextHref, nextLabel)
	}
	b.WriteString("</body></html>")
	return b.String()
}

// TestWalkerWalkCitations tests citation-search pagination.
func TestWalkerWalkCitations(t *testing.T) {
	t.Parallel()

	const base = "http://test"

	t.Run("single page walk", func(t *testing.T) {
		t.Parallel()

		fetcher := &fakeFetcher{pages: map[string]string{
			CitationsURL(base, "111"): citingPage(0, "", "Paper one", "Paper two"),
		}}
		w := NewWalker(fetcher, WithWalkerBaseURL(base))

		rows, err := w.WalkCitations(context.Background(), "111")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rows) != 2 {
			t.Errorf("got %d rows, want 2", len(rows))
		}
	})

	t.Run("follows navigation anchors across pages", func(t *testing.T) {
		t.Parallel()

		fetcher := &fakeFetcher{pages: map[string]string{
			CitationsURL(base, "111"):            citingPage(2, "/scholar?cites=111&start=10", "Page one paper"),
			base + "/scholar?cites=111&start=10": citingPage(3, "/scholar?cites=111&start=20", "Page two paper"),
			base + "/scholar?cites=111&start=20": citingPage(0, "", "Page three paper"),
		}}
		w := NewWalker(fetcher, WithWalkerBaseURL(base))

		rows, err := w.WalkCitations(context.Background(), "111")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rows) != 3 {
			t.Errorf("got %d rows, want 3", len(rows))
		}
		if len(fetcher.calls) != 3 {
			t.Errorf("calls = %d, want 3", len(fetcher.calls))
		}
	})

	t.Run("stale anchor label terminates the walk", func(t *testing.T) {
		t.Parallel()

		// The anchor is labeled 3 while the walker is on page 1, so it
		// must not be followed.
		fetcher := &fakeFetcher{pages: map[string]string{
			CitationsURL(base, "111"): citingPage(3, "/scholar?cites=111&start=20", "Only paper"),
		}}
		w := NewWalker(fetcher, WithWalkerBaseURL(base))

		rows, err := w.WalkCitations(context.Background(), "111")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rows) != 1 {
			t.Errorf("got %d rows, want 1", len(rows))
		}
		if len(fetcher.calls) != 1 {
			t.Errorf("calls = %d, want 1", len(fetcher.calls))
		}
	})

	t.Run("seed failure propagates", func(t *testing.T) {
		t.Parallel()

		fetcher := &fakeFetcher{errs: map[string]error{
			CitationsURL(base, "111"): &gateway.FetchError{Kind: gateway.KindBlocked, StatusCode: 403},
		}}
		w := NewWalker(fetcher, WithWalkerBaseURL(base))

		_, err := w.WalkCitations(context.Background(), "111")
		if !gateway.IsBlocked(err) {
			t.Errorf("expected blocked error, got %v", err)
		}
	})

	t.Run("mid-walk failure keeps rows gathered so far", func(t *testing.T) {
		t.Parallel()

		fetcher := &fakeFetcher{
			pages: map[string]string{
				CitationsURL(base, "111"): citingPage(2, "/scholar?cites=111&start=10", "First paper"),
			},
			errs: map[string]error{
				base + "/scholar?cites=111&start=10": &gateway.FetchError{Kind: gateway.KindBlocked},
			},
		}
		w := NewWalker(fetcher, WithWalkerBaseURL(base))

		rows, err := w.WalkCitations(context.Background(), "111")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rows) != 1 {
			t.Errorf("got %d rows, want 1", len(rows))
		}
	})
}
