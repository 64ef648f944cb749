package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/citemap/internal/model"
)

// Default configuration values. The pacing window mirrors what the source
// tolerates in practice; tighter spacing gets sessions challenged quickly.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "citemap"

	// DefaultCrawlConcurrency bounds the pool for publication fills and
	// author-profile fetches. These pages sit behind looser abuse
	// detection than citation search, so the pool can be larger.
	DefaultCrawlConcurrency = 8

	// DefaultCitationConcurrency bounds the pool for citation-search
	// walks. Kept small: these pages trip rate limiting first.
	DefaultCitationConcurrency = 2

	// DefaultGeocodeMaxAttempts is how many forward+reverse round trips
	// one institution name gets before it is dropped.
	DefaultGeocodeMaxAttempts = 3

	// DefaultPaceMin and DefaultPaceMax bound the randomized delay
	// inserted before every external call.
	DefaultPaceMin = 1 * time.Second
	DefaultPaceMax = 5 * time.Second

	// DefaultOutputHTML and DefaultOutputCSV are the exporter paths.
	DefaultOutputHTML = "citation_map.html"
	DefaultOutputCSV  = "citation_info.csv"
)

// Config holds all configuration options for citemap.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would
// add complexity without significant benefit.
type Config struct {
	// ScholarID is the root author's Google Scholar ID.
	ScholarID string

	// CrawlConcurrency is the worker-pool size for publication fills and
	// citing-author profile fetches. One or less runs sequentially.
	CrawlConcurrency int

	// CitationConcurrency is the worker-pool size for citation-search
	// page walks. One or less runs sequentially.
	CitationConcurrency int

	// Mode selects conservative (verified organizations only) or
	// aggressive (self-reported free text) affiliation identification.
	Mode model.AffiliationMode

	// UseBrowser selects the persistent browser backend instead of the
	// stateless HTTP backend. Slower, but survives CAPTCHAs when a human
	// is around to solve them.
	UseBrowser bool

	// Headless runs the browser backend without a visible window.
	// Challenge pages then fail as blocked instead of waiting for a
	// human solve. Ignored for the HTTP backend.
	Headless bool

	// CheckpointDir is the directory for the checkpoint database.
	// Empty disables checkpointing entirely.
	CheckpointDir string

	// ForceRefresh deletes any existing checkpoints for the author
	// before the run, forcing a full re-crawl.
	ForceRefresh bool

	// GeocodeMaxAttempts bounds resolution attempts per institution.
	GeocodeMaxAttempts int

	// PaceMin and PaceMax bound the randomized per-request delay.
	PaceMin time.Duration
	PaceMax time.Duration

	// OutputHTML is the destination for the world-map page.
	// Empty skips the map exporter.
	OutputHTML string

	// OutputCSV is the destination for the dataset export.
	// Empty skips the CSV exporter.
	OutputCSV string

	// PinColorful assigns map pins a color per institution instead of a
	// single uniform color.
	PinColorful bool

	// MarkdownSummary writes a markdown run summary to stdout after the
	// pipeline completes.
	MarkdownSummary bool

	// Verbose enables slog.LevelDebug output.
	Verbose bool

	// ConfigFilePath is the path to the configuration file. If empty,
	// the tool searches for .citemap in the current directory and then
	// in the user's home directory.
	ConfigFilePath string

	// FileConfig holds settings loaded from the config file.
	FileConfig *File
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		CrawlConcurrency:    DefaultCrawlConcurrency,
		CitationConcurrency: DefaultCitationConcurrency,
		Mode:                model.ModeAggressive,
		CheckpointDir:       XDGCacheDir(),
		GeocodeMaxAttempts:  DefaultGeocodeMaxAttempts,
		PaceMin:             DefaultPaceMin,
		PaceMax:             DefaultPaceMax,
		OutputHTML:          DefaultOutputHTML,
		OutputCSV:           DefaultOutputCSV,
		PinColorful:         true,
	}
}

// XDGDataDir returns the XDG data directory for citemap.
// On Linux: ~/.local/share/citemap
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for citemap.
// On Linux: ~/.config/citemap
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for citemap. This is the
// default checkpoint location.
// On Linux: ~/.cache/citemap
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid. It returns the first
// error found; fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.ScholarID == "" {
		return ErrNoScholarID
	}

	if !c.Mode.Valid() {
		return ErrInvalidMode
	}

	if c.GeocodeMaxAttempts <= 0 {
		return ErrInvalidGeocodeAttempts
	}

	if c.PaceMin < 0 || c.PaceMax < c.PaceMin {
		return ErrInvalidPaceWindow
	}

	return nil
}
