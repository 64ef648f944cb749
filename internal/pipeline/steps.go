package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/citemap/internal/aggregate"
	"github.com/nao1215/citemap/internal/crawler"
	"github.com/nao1215/citemap/internal/database"
	"github.com/nao1215/citemap/internal/geocode"
	"github.com/nao1215/citemap/internal/model"
	"github.com/nao1215/citemap/internal/normalizer"
)

// CrawlStep runs the citation-graph traversal, consulting the checkpoint
// store first so a resumed run skips the expensive network stages.
//
// Checkpoint policy: the affiliation-stage checkpoint bypasses the crawl
// entirely; the edge-stage checkpoint bypasses the walk but re-resolves
// affiliations, which lets a user switch affiliation modes without
// re-walking citation pages. Checkpoints are written once per run, only
// when the corresponding stage produced a non-empty result, and never
// expire on their own.
type CrawlStep struct {
	crawler *crawler.Crawler

	// store is nil when checkpointing is disabled.
	store *database.CheckpointStore

	logger *slog.Logger
}

// CrawlStepOption configures a CrawlStep.
type CrawlStepOption func(*CrawlStep)

// WithCheckpointStore enables checkpoint reads and writes.
func WithCheckpointStore(store *database.CheckpointStore) CrawlStepOption {
	return func(s *CrawlStep) {
		s.store = store
	}
}

// WithCrawlLogger sets a custom logger for the crawl step.
func WithCrawlLogger(logger *slog.Logger) CrawlStepOption {
	return func(s *CrawlStep) {
		s.logger = logger
	}
}

// NewCrawlStep creates the crawl step.
func NewCrawlStep(c *crawler.Crawler, opts ...CrawlStepOption) *CrawlStep {
	s := &CrawlStep{
		crawler: c,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do executes the crawl, or restores its output from a checkpoint.
func (s *CrawlStep) Do(ctx context.Context, report *model.CitationReport) error {
	if s.store != nil {
		if done, err := s.restore(ctx, report); err != nil {
			return err
		} else if done {
			return nil
		}
	}

	if err := s.crawler.Run(ctx, report); err != nil {
		return fmt.Errorf("crawl %s: %w", report.ScholarID, err)
	}

	s.persist(ctx, report)
	return nil
}

// restore loads checkpointed state. It reports true when the crawl can be
// skipped entirely.
func (s *CrawlStep) restore(ctx context.Context, report *model.CitationReport) (bool, error) {
	records, err := s.store.LoadAffiliations(ctx, report.ScholarID)
	switch {
	case err == nil:
		report.RawAffiliations = records
		report.AffiliationsFromCheckpoint = true
		s.logger.Info("affiliation checkpoint found, skipping crawl",
			"scholar_id", report.ScholarID,
			"records", len(records),
		)
		return true, nil
	case !errors.Is(err, database.ErrNoCheckpoint):
		return false, fmt.Errorf("load affiliation checkpoint: %w", err)
	}

	edges, err := s.store.LoadEdges(ctx, report.ScholarID)
	switch {
	case err == nil:
		report.Edges = edges
		report.EdgesFromCheckpoint = true
		s.logger.Info("edge checkpoint found, resolving affiliations only",
			"scholar_id", report.ScholarID,
			"edges", len(edges),
		)
		report.RawAffiliations = s.crawler.ResolveAffiliations(ctx, edges)
		s.persist(ctx, report)
		return true, nil
	case !errors.Is(err, database.ErrNoCheckpoint):
		return false, fmt.Errorf("load edge checkpoint: %w", err)
	}

	return false, nil
}

// persist writes the checkpoints for whatever stages completed non-empty.
// Checkpoint write failures are logged, not fatal: the data is already in
// the report and the run should not die for a cache.
func (s *CrawlStep) persist(ctx context.Context, report *model.CitationReport) {
	if s.store == nil {
		return
	}

	if len(report.Edges) > 0 && !report.EdgesFromCheckpoint {
		if err := s.store.SaveEdges(ctx, report.ScholarID, report.Edges); err != nil {
			s.logger.Warn("edge checkpoint write failed", "error", err)
		}
	}
	if len(report.RawAffiliations) > 0 && !report.AffiliationsFromCheckpoint {
		if err := s.store.SaveAffiliations(ctx, report.ScholarID, report.RawAffiliations); err != nil {
			s.logger.Warn("affiliation checkpoint write failed", "error", err)
		}
	}
}

// NormalizeStep turns raw affiliation records into the set fed to the
// geocoder. Conservative-mode records already hold official organization
// names and skip normalization; aggressive-mode records are cleaned and
// merged with the raw set so a string that resists cleaning is still
// geocoded in its raw form.
type NormalizeStep struct {
	logger *slog.Logger
}

// NormalizeStepOption configures a NormalizeStep.
type NormalizeStepOption func(*NormalizeStep)

// WithNormalizeLogger sets a custom logger for the normalize step.
func WithNormalizeLogger(logger *slog.Logger) NormalizeStepOption {
	return func(s *NormalizeStep) {
		s.logger = logger
	}
}

// NewNormalizeStep creates the normalization step.
func NewNormalizeStep(opts ...NormalizeStepOption) *NormalizeStep {
	s := &NormalizeStep{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *NormalizeStep) Name() string {
	return "normalize"
}

// Do executes the normalization step.
func (s *NormalizeStep) Do(_ context.Context, report *model.CitationReport) error {
	raw := aggregate.Unique(report.RawAffiliations)
	report.RawAffiliations = raw

	if report.Mode == model.ModeConservative {
		report.CleanedAffiliations = raw
		s.logger.Info("conservative mode, normalization skipped",
			"records", len(raw),
		)
		return nil
	}

	var cleaned []model.AffiliationRecord
	for _, rec := range raw {
		for _, name := range normalizer.Normalize(rec.Affiliation) {
			out := rec
			out.Affiliation = name
			cleaned = append(cleaned, out)
		}
	}

	report.CleanedAffiliations = aggregate.Merge(raw, cleaned)
	s.logger.Info("affiliations normalized",
		"raw", len(raw),
		"cleaned", len(cleaned),
		"merged", len(report.CleanedAffiliations),
	)
	return nil
}

// GeocodeStep resolves institution names to coordinates. It is the one
// stage that never parallelizes, per the geocoding service's usage policy.
type GeocodeStep struct {
	resolver *geocode.Resolver
	logger   *slog.Logger
}

// GeocodeStepOption configures a GeocodeStep.
type GeocodeStepOption func(*GeocodeStep)

// WithGeocodeLogger sets a custom logger for the geocode step.
func WithGeocodeLogger(logger *slog.Logger) GeocodeStepOption {
	return func(s *GeocodeStep) {
		s.logger = logger
	}
}

// NewGeocodeStep creates the geocoding step.
func NewGeocodeStep(resolver *geocode.Resolver, opts ...GeocodeStepOption) *GeocodeStep {
	s := &GeocodeStep{
		resolver: resolver,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *GeocodeStep) Name() string {
	return "geocode"
}

// Do executes the geocoding step.
func (s *GeocodeStep) Do(ctx context.Context, report *model.CitationReport) error {
	geocoded, stats := s.resolver.ResolveAll(ctx, report.CleanedAffiliations)
	report.Geocoded = aggregate.Unique(geocoded)
	report.UniqueInstitutions = stats.Unique
	report.ResolvedInstitutions = stats.Resolved
	return ctx.Err()
}
