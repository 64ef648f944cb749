package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/citemap/internal/geocode"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".citemap"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML configuration file structure. Everything in it is
// optional; flags fill in the rest.
type File struct {
	// UserAgent overrides the User-Agent the HTTP backend sends.
	UserAgent string `yaml:"user_agent"`

	// BaseURL overrides the citation source endpoint. Mainly useful for
	// pointing the tool at a mirror.
	BaseURL string `yaml:"base_url"`

	// GeocodeOverrides are additional hard-coded locations consulted
	// after the built-in commercial-entity table.
	GeocodeOverrides []geocode.Override `yaml:"geocode_overrides"`
}

// LoadConfigFile loads settings from a YAML file. If the file does not
// exist, it returns ErrConfigNotFound; callers handle that based on whether
// the path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
//  1. If configPath is specified, use it directly
//  2. Look for .citemap in the current directory
//  3. Look for .citemap in the user's home directory
//
// Returns the path if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
