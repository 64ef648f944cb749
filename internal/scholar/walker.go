package scholar

import (
	"context"
	"log/slog"
)

// Walker paginates a citation-search result set: seed page, then whichever
// navigation anchor is labeled exactly one past the current page, until no
// such anchor exists or a fetch fails.
//
// A walk is not restartable; each call re-walks from the seed. A failure
// mid-walk terminates the walk and the rows gathered so far are returned,
// never discarded.
type Walker struct {
	fetcher Fetcher
	baseURL string
	logger  *slog.Logger
}

// WalkerOption configures a Walker.
type WalkerOption func(*Walker)

// WithWalkerBaseURL points the walker at a different endpoint (tests).
func WithWalkerBaseURL(base string) WalkerOption {
	return func(w *Walker) {
		w.baseURL = base
	}
}

// WithWalkerLogger sets a custom logger.
func WithWalkerLogger(logger *slog.Logger) WalkerOption {
	return func(w *Walker) {
		w.logger = logger
	}
}

// NewWalker creates a Walker over the given fetcher.
func NewWalker(fetcher Fetcher, opts ...WalkerOption) *Walker {
	w := &Walker{
		fetcher: fetcher,
		baseURL: DefaultBaseURL,
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.logger == nil {
		w.logger = slog.Default()
	}

	return w
}

// WalkCitations enumerates every result row under one citation cluster.
// An error is returned only when the seed page itself cannot be fetched or
// parsed; later pages degrade to partial results.
func (w *Walker) WalkCitations(ctx context.Context, citesID string) ([]CitingRow, error) {
	pageURL := CitationsURL(w.baseURL, citesID)
	current := 1

	var rows []CitingRow
	for {
		page, err := w.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			if current == 1 {
				return nil, err
			}
			w.logger.Warn("citation walk terminated early",
				"cites_id", citesID,
				"page", current,
				"rows_so_far", len(rows),
				"error", err,
			)
			return rows, nil
		}

		doc, err := Document(page)
		if err != nil {
			if current == 1 {
				return nil, err
			}
			w.logger.Warn("citation page unparseable, stopping walk",
				"cites_id", citesID, "page", current, "error", err)
			return rows, nil
		}

		pageRows := ParseCitingPage(doc)
		for _, row := range pageRows {
			if len(row.AuthorIDs) == 0 {
				w.logger.Warn("no author links for citing paper",
					"title", row.PaperTitle)
			}
		}
		rows = append(rows, pageRows...)

		next := NextPageURL(doc, w.baseURL, current)
		if next == "" {
			return rows, nil
		}
		pageURL = next
		current++
	}
}
