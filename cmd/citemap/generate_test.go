package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/citemap/internal/config"
	"github.com/nao1215/citemap/internal/model"
)

// TestNewGenerateCmd tests the generate command creation.
func TestNewGenerateCmd(t *testing.T) {
	t.Parallel()

	cmd := NewGenerateCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "generate [scholar-id]" {
			t.Errorf("expected use 'generate [scholar-id]', got %q", cmd.Use)
		}
	})

	t.Run("has expected flags with defaults", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			flag string
			def  string
		}{
			{flag: "mode", def: string(model.ModeAggressive)},
			{flag: "crawl-concurrency", def: "8"},
			{flag: "citation-concurrency", def: "2"},
			{flag: "pace-min", def: "1s"},
			{flag: "pace-max", def: "5s"},
			{flag: "browser", def: "false"},
			{flag: "headless", def: "false"},
			{flag: "force-refresh", def: "false"},
			{flag: "geocode-attempts", def: "3"},
			{flag: "output-html", def: config.DefaultOutputHTML},
			{flag: "output-csv", def: config.DefaultOutputCSV},
			{flag: "pin-color", def: "true"},
			{flag: "summary", def: "false"},
			{flag: "config", def: ""},
		}

		for _, tt := range tests {
			f := cmd.Flags().Lookup(tt.flag)
			if f == nil {
				t.Errorf("expected flag %q", tt.flag)
				continue
			}
			if f.DefValue != tt.def {
				t.Errorf("flag %q default = %q, want %q", tt.flag, f.DefValue, tt.def)
			}
		}
	})
}

// TestBuildConfig tests flag extraction into a Config.
//
// Serial: subtests mutate the process environment.
func TestBuildConfig(t *testing.T) {
	t.Run("scholar ID comes from the argument", func(t *testing.T) {
		cmd := NewGenerateCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"abc123"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.ScholarID != "abc123" {
			t.Errorf("ScholarID = %q, want %q", cfg.ScholarID, "abc123")
		}
	})

	t.Run("scholar ID falls back to the environment", func(t *testing.T) {
		t.Setenv(scholarIDEnv, "env456")

		cmd := NewGenerateCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.ScholarID != "env456" {
			t.Errorf("ScholarID = %q, want %q", cfg.ScholarID, "env456")
		}
	})

	t.Run("flags override defaults", func(t *testing.T) {
		cmd := NewGenerateCmd()
		args := []string{
			"--mode", "conservative",
			"--crawl-concurrency", "3",
			"--pace-min", "2s",
			"--pace-max", "10s",
			"--browser",
			"--pin-color=false",
			"--output-html", "out/map.html",
		}
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"abc123"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Mode != model.ModeConservative {
			t.Errorf("Mode = %q, want conservative", cfg.Mode)
		}
		if cfg.CrawlConcurrency != 3 {
			t.Errorf("CrawlConcurrency = %d, want 3", cfg.CrawlConcurrency)
		}
		if cfg.PaceMin != 2*time.Second || cfg.PaceMax != 10*time.Second {
			t.Errorf("pace window = %v..%v", cfg.PaceMin, cfg.PaceMax)
		}
		if !cfg.UseBrowser {
			t.Error("UseBrowser = false, want true")
		}
		if cfg.PinColorful {
			t.Error("PinColorful = true, want false")
		}
		if cfg.OutputHTML != "out/map.html" {
			t.Errorf("OutputHTML = %q", cfg.OutputHTML)
		}
	})

	t.Run("explicit config file is loaded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "conf.yml")
		if err := os.WriteFile(path, []byte("user_agent: test-agent\n"), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cmd := NewGenerateCmd()
		if err := cmd.ParseFlags([]string{"--config", path}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"abc123"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.FileConfig == nil || cfg.FileConfig.UserAgent != "test-agent" {
			t.Errorf("FileConfig = %+v, want user agent test-agent", cfg.FileConfig)
		}
	})

	t.Run("missing explicit config file is an error", func(t *testing.T) {
		cmd := NewGenerateCmd()
		if err := cmd.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "nope")}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		if _, err := buildConfig(cmd, []string{"abc123"}); !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("got %v, want ErrConfigNotFound", err)
		}
	})
}
