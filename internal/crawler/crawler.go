package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/citemap/internal/aggregate"
	"github.com/nao1215/citemap/internal/model"
	"github.com/nao1215/citemap/internal/scholar"
)

// Default pool sizes. The citation pool stays small because citation-search
// pages sit behind the source's most aggressive rate limiting; the crawl
// pool serves the cheaper profile and publication pages.
const (
	DefaultCrawlConcurrency    = 8
	DefaultCitationConcurrency = 2
)

// Crawler walks the citation graph for one author.
type Crawler struct {
	client *scholar.Client
	walker *scholar.Walker

	// crawlConcurrency bounds the pool for publication fills and
	// author-profile fetches.
	crawlConcurrency int

	// citationConcurrency bounds the pool for citation-page walks.
	citationConcurrency int

	mode   model.AffiliationMode
	logger *slog.Logger

	// mu guards state.
	mu    sync.Mutex
	state State
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithCrawlConcurrency sets the general pool size. Values of one or less
// select the sequential path.
func WithCrawlConcurrency(n int) Option {
	return func(c *Crawler) {
		c.crawlConcurrency = n
	}
}

// WithCitationConcurrency sets the citation-walk pool size. Values of one
// or less select the sequential path.
func WithCitationConcurrency(n int) Option {
	return func(c *Crawler) {
		c.citationConcurrency = n
	}
}

// WithMode sets the affiliation identification mode.
func WithMode(mode model.AffiliationMode) Option {
	return func(c *Crawler) {
		c.mode = mode
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// New creates a Crawler over the given Scholar client and walker.
func New(client *scholar.Client, walker *scholar.Walker, opts ...Option) *Crawler {
	c := &Crawler{
		client:              client,
		walker:              walker,
		crawlConcurrency:    DefaultCrawlConcurrency,
		citationConcurrency: DefaultCitationConcurrency,
		mode:                model.ModeAggressive,
		state:               StateInit,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// State returns the crawl's current state.
func (c *Crawler) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Crawler) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	c.logger.Debug("crawler state", "state", s.String())
}

// Run executes the full traversal and fills the report's publication, edge,
// and raw-affiliation collections. A returned error means the run failed
// before producing a usable edge set; unit-level failures have already been
// degraded to partial results by then.
func (c *Crawler) Run(ctx context.Context, report *model.CitationReport) error {
	profile, err := c.client.AuthorProfile(ctx, report.ScholarID)
	if err != nil {
		c.setState(StateFailed)
		return fmt.Errorf("fetch author profile %s: %w", report.ScholarID, err)
	}
	report.AuthorName = profile.Name
	c.setState(StateProfileFetched)
	c.logger.Info("author profile found",
		"author", profile.Name,
		"publications", len(profile.Publications),
	)

	report.Publications = c.fillPublications(ctx, report.ScholarID, profile.Publications)
	c.setState(StatePublicationsFilled)

	report.Edges = c.collectEdges(ctx, report.Publications)
	c.setState(StateCitingEdgesCollected)
	c.logger.Info("citation edges collected", "edges", len(report.Edges))

	if err := ctx.Err(); err != nil {
		c.setState(StateFailed)
		return err
	}

	report.RawAffiliations = c.ResolveAffiliations(ctx, report.Edges)
	c.setState(StateAffiliationsResolved)
	c.logger.Info("affiliations resolved",
		"edges", len(report.Edges),
		"records", len(report.RawAffiliations),
	)

	c.setState(StateDone)
	return nil
}

// fillPublications fetches per-publication metadata so every reference
// carries its citation-cluster IDs. A publication whose fill fails keeps
// its profile-page data and simply contributes no clusters.
func (c *Crawler) fillPublications(ctx context.Context, authorID string, refs []model.PublicationRef) []model.PublicationRef {
	filled := make([]model.PublicationRef, len(refs))

	c.forEach(ctx, c.crawlConcurrency, len(refs), func(i int) {
		ref, err := c.client.FillPublication(ctx, authorID, refs[i])
		if err != nil {
			c.logger.Warn("publication fill failed, keeping profile data",
				"title", refs[i].Title, "error", err)
			ref = refs[i]
		}
		filled[i] = ref
	})

	return filled
}

// citesTarget pairs one citation cluster with the publication it belongs to.
type citesTarget struct {
	citesID    string
	paperTitle string
}

// collectEdges walks every citation cluster and builds the deduplicated
// edge set. Rows without author profile links are dropped here.
func (c *Crawler) collectEdges(ctx context.Context, pubs []model.PublicationRef) []model.CitationEdge {
	var targets []citesTarget
	for _, pub := range pubs {
		for _, citesID := range pub.CitesID {
			targets = append(targets, citesTarget{citesID: citesID, paperTitle: pub.Title})
		}
	}

	var (
		mu    sync.Mutex
		edges []model.CitationEdge
	)
	attempted, walked := len(targets), 0

	c.forEach(ctx, c.citationConcurrency, len(targets), func(i int) {
		target := targets[i]
		rows, err := c.walker.WalkCitations(ctx, target.citesID)
		if err != nil {
			c.logger.Warn("citation walk failed, skipping cluster",
				"cites_id", target.citesID,
				"cited_paper", target.paperTitle,
				"error", err,
			)
			return
		}

		var found []model.CitationEdge
		for _, row := range rows {
			for _, authorID := range row.AuthorIDs {
				found = append(found, model.CitationEdge{
					CitedPaperTitle:  target.paperTitle,
					CitingAuthorID:   authorID,
					CitingPaperTitle: row.PaperTitle,
				})
			}
		}

		mu.Lock()
		edges = append(edges, found...)
		walked++
		mu.Unlock()
	})

	c.logger.Info("citation clusters walked", "attempted", attempted, "succeeded", walked)
	return aggregate.Unique(edges)
}

// citingAuthor is the per-author result of affiliation resolution.
type citingAuthor struct {
	name        string
	affiliation string
}

// ResolveAffiliations fetches each distinct citing author's profile once
// and fans the affiliation out to every edge referencing the author. Edges
// whose author yields no usable affiliation produce no record. Exported
// separately from Run so a checkpoint-resumed pipeline can re-enter the
// traversal here.
func (c *Crawler) ResolveAffiliations(ctx context.Context, edges []model.CitationEdge) []model.AffiliationRecord {
	var authorIDs []string
	seen := make(map[string]bool)
	for _, e := range edges {
		if e.CitingAuthorID != "" && !seen[e.CitingAuthorID] {
			seen[e.CitingAuthorID] = true
			authorIDs = append(authorIDs, e.CitingAuthorID)
		}
	}

	var (
		mu      sync.Mutex
		byID    = make(map[string]citingAuthor, len(authorIDs))
		orgName = make(map[string]string) // organization ID -> official name
	)

	c.forEach(ctx, c.crawlConcurrency, len(authorIDs), func(i int) {
		id := authorIDs[i]
		profile, err := c.client.CitingAuthorProfile(ctx, id)
		if err != nil {
			c.logger.Warn("citing author profile failed, skipping",
				"author_id", id, "error", err)
			return
		}

		affiliation := ""
		switch c.mode {
		case model.ModeConservative:
			if profile.OrganizationID == "" {
				break
			}
			mu.Lock()
			name, cached := orgName[profile.OrganizationID]
			mu.Unlock()
			if !cached {
				// Organization pages are shared across authors;
				// resolve each distinct one once.
				name, err = c.client.OrganizationName(ctx, profile.OrganizationID)
				if err != nil {
					c.logger.Warn("organization lookup failed, skipping",
						"author_id", id,
						"organization_id", profile.OrganizationID,
						"error", err,
					)
					return
				}
				mu.Lock()
				orgName[profile.OrganizationID] = name
				mu.Unlock()
			}
			affiliation = name
		default: // aggressive
			affiliation = profile.Affiliation
		}

		if affiliation == "" {
			return
		}
		mu.Lock()
		byID[id] = citingAuthor{name: profile.Name, affiliation: affiliation}
		mu.Unlock()
	})

	var records []model.AffiliationRecord
	for _, e := range edges {
		author, ok := byID[e.CitingAuthorID]
		if !ok {
			continue
		}
		records = append(records, model.AffiliationRecord{
			CitingAuthorName: author.name,
			CitingPaperTitle: e.CitingPaperTitle,
			CitedPaperTitle:  e.CitedPaperTitle,
			Affiliation:      author.affiliation,
		})
	}

	c.logger.Info("citing authors resolved",
		"attempted", len(authorIDs),
		"succeeded", len(byID),
	)
	return aggregate.Unique(records)
}

// forEach runs fn over n items, at most limit at a time. A limit of one or
// less runs a plain sequential loop with identical semantics. Workers check
// the context themselves; one worker's failure never cancels the others.
func (c *Crawler) forEach(ctx context.Context, limit, n int, fn func(i int)) {
	if n == 0 {
		return
	}
	if limit <= 1 {
		for i := 0; i < n; i++ {
			if ctx.Err() != nil {
				return
			}
			fn(i)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			fn(i)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // Workers report failures via the logger
}
