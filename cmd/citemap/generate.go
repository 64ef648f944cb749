package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nao1215/citemap/internal/config"
	"github.com/nao1215/citemap/internal/crawler"
	"github.com/nao1215/citemap/internal/database"
	"github.com/nao1215/citemap/internal/gateway"
	"github.com/nao1215/citemap/internal/geocode"
	"github.com/nao1215/citemap/internal/log"
	"github.com/nao1215/citemap/internal/model"
	"github.com/nao1215/citemap/internal/pipeline"
	"github.com/nao1215/citemap/internal/report"
	"github.com/nao1215/citemap/internal/scholar"
	"github.com/spf13/cobra"
)

// scholarIDEnv is the environment variable consulted when no scholar ID
// is given as an argument. A .env file in the working directory is loaded
// first, so the ID can live there instead of shell history.
const scholarIDEnv = "CITEMAP_SCHOLAR_ID"

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [scholar-id]",
		Short: "Crawl a Scholar author's citations and generate the citation map",
		Long: `Generate crawls the citation graph of a Google Scholar author and
produces an interactive world map plus a CSV dataset of citing institutions.

The crawl runs in stages: publications, citing papers, citing-author
affiliations, geocoding. Completed stages are checkpointed so an
interrupted run picks up where it left off.

Examples:
  # Crawl an author and write citation_map.html and citation_info.csv
  citemap generate Smr99uEAAAAJ

  # Verified organizations only (slower, but no free-text noise)
  citemap generate --mode conservative Smr99uEAAAAJ

  # Drive a real browser so a human can solve CAPTCHA challenges
  citemap generate --browser Smr99uEAAAAJ

  # Ignore checkpoints and re-crawl from scratch
  citemap generate --force-refresh Smr99uEAAAAJ

Configuration file (.citemap) example:
  user_agent: "Mozilla/5.0 ..."
  geocode_overrides:
    - match: "my lab"
      lat: 48.8566
      lon: 2.3522
      country: France`,
		Args: cobra.MaximumNArgs(1),
		RunE: runGenerateCmd,
	}

	// Crawl behavior flags
	cmd.Flags().StringP("mode", "m", string(model.ModeAggressive),
		"Affiliation mode: aggressive (self-reported text) or conservative (verified organizations)")
	cmd.Flags().IntP("crawl-concurrency", "C", config.DefaultCrawlConcurrency,
		"Worker pool size for profile and publication fetches")
	cmd.Flags().Int("citation-concurrency", config.DefaultCitationConcurrency,
		"Worker pool size for citation-search walks (keep small)")
	cmd.Flags().Duration("pace-min", config.DefaultPaceMin,
		"Minimum randomized delay before each request")
	cmd.Flags().Duration("pace-max", config.DefaultPaceMax,
		"Maximum randomized delay before each request")

	// Backend flags
	cmd.Flags().BoolP("browser", "b", false,
		"Fetch through a real browser session instead of plain HTTP")
	cmd.Flags().Bool("headless", false,
		"Run the browser without a visible window (challenges cannot be solved)")

	// Checkpoint flags
	cmd.Flags().String("checkpoint-dir", config.XDGCacheDir(),
		"Directory for the checkpoint database (empty disables checkpointing)")
	cmd.Flags().BoolP("force-refresh", "f", false,
		"Delete existing checkpoints for this author before crawling")

	// Geocoding flags
	cmd.Flags().Int("geocode-attempts", config.DefaultGeocodeMaxAttempts,
		"Resolution attempts per institution before it is dropped")

	// Output flags
	cmd.Flags().StringP("output-html", "o", config.DefaultOutputHTML,
		"Destination for the world-map page (empty skips it)")
	cmd.Flags().String("output-csv", config.DefaultOutputCSV,
		"Destination for the CSV dataset (empty skips it)")
	cmd.Flags().Bool("pin-color", true,
		"Color map pins per institution instead of uniform blue")
	cmd.Flags().Bool("summary", false,
		"Print a markdown run summary to stdout")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .citemap in current or home directory)")

	return cmd
}

// runGenerateCmd executes the generate command.
func runGenerateCmd(cmd *cobra.Command, args []string) error {
	// A .env in the working directory may carry the scholar ID.
	// Missing file is the normal case, not an error.
	_ = godotenv.Load() //nolint:errcheck // optional file

	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runGenerate(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	if len(args) > 0 {
		cfg.ScholarID = args[0]
	} else {
		cfg.ScholarID = os.Getenv(scholarIDEnv)
	}

	var err error

	mode, err := cmd.Flags().GetString("mode")
	if err != nil {
		return nil, err
	}
	cfg.Mode = model.AffiliationMode(mode)

	cfg.CrawlConcurrency, err = cmd.Flags().GetInt("crawl-concurrency")
	if err != nil {
		return nil, err
	}

	cfg.CitationConcurrency, err = cmd.Flags().GetInt("citation-concurrency")
	if err != nil {
		return nil, err
	}

	cfg.PaceMin, err = cmd.Flags().GetDuration("pace-min")
	if err != nil {
		return nil, err
	}

	cfg.PaceMax, err = cmd.Flags().GetDuration("pace-max")
	if err != nil {
		return nil, err
	}

	cfg.UseBrowser, err = cmd.Flags().GetBool("browser")
	if err != nil {
		return nil, err
	}

	cfg.Headless, err = cmd.Flags().GetBool("headless")
	if err != nil {
		return nil, err
	}

	cfg.CheckpointDir, err = cmd.Flags().GetString("checkpoint-dir")
	if err != nil {
		return nil, err
	}

	cfg.ForceRefresh, err = cmd.Flags().GetBool("force-refresh")
	if err != nil {
		return nil, err
	}

	cfg.GeocodeMaxAttempts, err = cmd.Flags().GetInt("geocode-attempts")
	if err != nil {
		return nil, err
	}

	cfg.OutputHTML, err = cmd.Flags().GetString("output-html")
	if err != nil {
		return nil, err
	}

	cfg.OutputCSV, err = cmd.Flags().GetString("output-csv")
	if err != nil {
		return nil, err
	}

	cfg.PinColorful, err = cmd.Flags().GetBool("pin-color")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownSummary, err = cmd.Flags().GetBool("summary")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load settings from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.FileConfig, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	} else {
		cfg.FileConfig = &config.File{}
	}

	return cfg, nil
}

// runGenerate wires the crawl pipeline and executes it.
func runGenerate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting crawl",
		"scholarID", cfg.ScholarID,
		"mode", cfg.Mode,
		"useBrowser", cfg.UseBrowser,
		"crawlConcurrency", cfg.CrawlConcurrency,
		"citationConcurrency", cfg.CitationConcurrency,
	)

	// Fetch backend: plain HTTP by default, a real browser on request.
	backend, err := newBackend(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create fetch backend: %w", err)
	}

	gw := gateway.New(backend,
		gateway.WithPacer(gateway.NewJitterPacer(cfg.PaceMin, cfg.PaceMax)),
		gateway.WithLogger(logger),
	)
	defer func() {
		if err := gw.Close(); err != nil {
			logger.Error("failed to close fetch backend", "error", err)
		}
	}()

	// Scholar client and citation walker share the gateway, so pacing
	// applies across both.
	clientOpts := []scholar.ClientOption{scholar.WithClientLogger(logger)}
	walkerOpts := []scholar.WalkerOption{scholar.WithWalkerLogger(logger)}
	if cfg.FileConfig != nil && cfg.FileConfig.BaseURL != "" {
		clientOpts = append(clientOpts, scholar.WithBaseURL(cfg.FileConfig.BaseURL))
		walkerOpts = append(walkerOpts, scholar.WithWalkerBaseURL(cfg.FileConfig.BaseURL))
	}
	client := scholar.NewClient(gw, clientOpts...)
	walker := scholar.NewWalker(gw, walkerOpts...)

	cr := crawler.New(client, walker,
		crawler.WithCrawlConcurrency(cfg.CrawlConcurrency),
		crawler.WithCitationConcurrency(cfg.CitationConcurrency),
		crawler.WithMode(cfg.Mode),
		crawler.WithLogger(logger),
	)

	// Checkpoint store, unless disabled.
	var store *database.CheckpointStore
	if cfg.CheckpointDir != "" {
		store, err = database.Open(cfg.CheckpointDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open checkpoint database: %w", err)
		}
		defer store.Close()
		logger.Info("checkpoint database opened", "dir", cfg.CheckpointDir)

		if cfg.ForceRefresh {
			if err := store.Delete(ctx, cfg.ScholarID); err != nil {
				return fmt.Errorf("failed to delete checkpoints: %w", err)
			}
			logger.Info("existing checkpoints deleted", "scholarID", cfg.ScholarID)
		}
	}

	resolverOpts := []geocode.ResolverOption{
		geocode.WithMaxAttempts(cfg.GeocodeMaxAttempts),
		geocode.WithResolverLogger(logger),
	}
	if cfg.FileConfig != nil && len(cfg.FileConfig.GeocodeOverrides) > 0 {
		resolverOpts = append(resolverOpts, geocode.WithExtraOverrides(cfg.FileConfig.GeocodeOverrides))
	}
	resolver := geocode.NewResolver(resolverOpts...)

	crawlOpts := []pipeline.CrawlStepOption{pipeline.WithCrawlLogger(logger)}
	if store != nil {
		crawlOpts = append(crawlOpts, pipeline.WithCheckpointStore(store))
	}

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewCrawlStep(cr, crawlOpts...),
		pipeline.NewNormalizeStep(pipeline.WithNormalizeLogger(logger)),
		pipeline.NewGeocodeStep(resolver, pipeline.WithGeocodeLogger(logger)),
	)

	rpt := model.NewCitationReport(cfg.ScholarID, cfg.Mode)

	fmt.Printf("Crawling citations for %s...\n", cfg.ScholarID)
	startTime := time.Now()

	if err := p.Execute(ctx, rpt); err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	elapsed := time.Since(startTime)
	fmt.Printf("Crawl completed in %s: %d citing edges, %d/%d institutions resolved\n\n",
		elapsed.Round(time.Millisecond), len(rpt.Edges), rpt.ResolvedInstitutions, rpt.UniqueInstitutions)

	return exportReport(cfg, rpt, logger)
}

// newBackend selects the fetch backend from configuration.
func newBackend(cfg *config.Config, logger *slog.Logger) (gateway.Backend, error) {
	if cfg.UseBrowser {
		return gateway.NewBrowserBackend(
			gateway.WithHeadless(cfg.Headless),
			gateway.WithBrowserLogger(logger),
		)
	}

	var opts []gateway.HTTPOption
	if cfg.FileConfig != nil && cfg.FileConfig.UserAgent != "" {
		opts = append(opts, gateway.WithUserAgent(cfg.FileConfig.UserAgent))
	}
	return gateway.NewHTTPBackend(opts...), nil
}

// exportReport writes the configured output files.
func exportReport(cfg *config.Config, rpt *model.CitationReport, logger *slog.Logger) error {
	if len(rpt.Geocoded) == 0 {
		logger.Warn("no geocoded records; nothing to export", "scholarID", rpt.ScholarID)
	}

	if cfg.OutputCSV != "" {
		if err := writeToFile(cfg.OutputCSV, func(f *os.File) error {
			_, err := report.NewCSVWriter(f).Write(rpt)
			return err
		}); err != nil {
			return fmt.Errorf("failed to write CSV dataset: %w", err)
		}
		fmt.Printf("Dataset written to %s\n", cfg.OutputCSV)
	}

	if cfg.OutputHTML != "" {
		if err := writeToFile(cfg.OutputHTML, func(f *os.File) error {
			_, err := report.NewMapWriter(f, cfg.PinColorful).Write(rpt)
			return err
		}); err != nil {
			return fmt.Errorf("failed to write map: %w", err)
		}
		fmt.Printf("Map written to %s\n", cfg.OutputHTML)
	}

	if cfg.MarkdownSummary {
		if _, err := report.NewMarkdownWriter(os.Stdout).Write(rpt); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}

	if rpt.Error != nil {
		return rpt.Error
	}
	return nil
}

// writeToFile opens path for writing, creating parent directories, and
// runs fn against the open file.
func writeToFile(path string, fn func(*os.File) error) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	return fn(f)
}
