package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/citemap/internal/model"
)

// TestNewConfig tests default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.CrawlConcurrency != DefaultCrawlConcurrency {
		t.Errorf("CrawlConcurrency = %d, want %d", cfg.CrawlConcurrency, DefaultCrawlConcurrency)
	}
	if cfg.CitationConcurrency != DefaultCitationConcurrency {
		t.Errorf("CitationConcurrency = %d, want %d", cfg.CitationConcurrency, DefaultCitationConcurrency)
	}
	if cfg.Mode != model.ModeAggressive {
		t.Errorf("Mode = %q, want %q", cfg.Mode, model.ModeAggressive)
	}
	if cfg.GeocodeMaxAttempts != DefaultGeocodeMaxAttempts {
		t.Errorf("GeocodeMaxAttempts = %d, want %d", cfg.GeocodeMaxAttempts, DefaultGeocodeMaxAttempts)
	}
	if cfg.PaceMin != DefaultPaceMin || cfg.PaceMax != DefaultPaceMax {
		t.Errorf("pace window = %v..%v, want %v..%v", cfg.PaceMin, cfg.PaceMax, DefaultPaceMin, DefaultPaceMax)
	}
	if cfg.OutputHTML != DefaultOutputHTML {
		t.Errorf("OutputHTML = %q, want %q", cfg.OutputHTML, DefaultOutputHTML)
	}
	if cfg.OutputCSV != DefaultOutputCSV {
		t.Errorf("OutputCSV = %q, want %q", cfg.OutputCSV, DefaultOutputCSV)
	}
	if !cfg.PinColorful {
		t.Error("PinColorful = false, want true")
	}
	if cfg.CheckpointDir == "" {
		t.Error("CheckpointDir is empty, want XDG cache directory")
	}
	if !strings.HasSuffix(cfg.CheckpointDir, AppName) {
		t.Errorf("CheckpointDir = %q, want %s suffix", cfg.CheckpointDir, AppName)
	}
}

// TestConfigValidate tests validation rules and their precedence.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		cfg := NewConfig()
		cfg.ScholarID = "abc123"
		return cfg
	}

	t.Run("valid config passes", func(t *testing.T) {
		t.Parallel()

		if err := valid().Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("missing scholar ID", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.ScholarID = ""
		if err := cfg.Validate(); !errors.Is(err, ErrNoScholarID) {
			t.Errorf("got %v, want ErrNoScholarID", err)
		}
	})

	t.Run("invalid mode", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.Mode = model.AffiliationMode("bold")
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidMode) {
			t.Errorf("got %v, want ErrInvalidMode", err)
		}
	})

	t.Run("non-positive geocode attempts", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.GeocodeMaxAttempts = 0
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidGeocodeAttempts) {
			t.Errorf("got %v, want ErrInvalidGeocodeAttempts", err)
		}
	})

	t.Run("negative pace minimum", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.PaceMin = -1 * time.Second
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidPaceWindow) {
			t.Errorf("got %v, want ErrInvalidPaceWindow", err)
		}
	})

	t.Run("pace maximum below minimum", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.PaceMin = 5 * time.Second
		cfg.PaceMax = 1 * time.Second
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidPaceWindow) {
			t.Errorf("got %v, want ErrInvalidPaceWindow", err)
		}
	})

	t.Run("first error wins", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.ScholarID = ""
		cfg.Mode = model.AffiliationMode("bold")
		if err := cfg.Validate(); !errors.Is(err, ErrNoScholarID) {
			t.Errorf("got %v, want ErrNoScholarID", err)
		}
	})
}
