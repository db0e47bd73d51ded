// Package config provides configuration loading for the scrubbing tools.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/nscherger/meta-scrubber/audit"
)

// PixelMode selects how image data is carried into the scrubbed file.
type PixelMode string

const (
	// PixelsCopy copies the entropy-coded image data byte for byte.
	PixelsCopy PixelMode = "copy"
	// PixelsReencode decodes the image and encodes it again at Quality.
	PixelsReencode PixelMode = "reencode"
)

var ErrInvalid = errors.New("invalid configuration")

// AuditConfig selects where scrub records go.
type AuditConfig struct {
	Backend audit.Backend `yaml:"backend"`
	Path    string        `yaml:"path"`
}

// Config holds the scrubbing pipeline settings.
type Config struct {
	// Directory for scrubbed files; empty means next to the source.
	OutputDir string      `yaml:"output_dir"`
	Audit     AuditConfig `yaml:"audit"`
	Pixels    PixelMode   `yaml:"pixels"`
	Quality   int         `yaml:"quality"`
	// Re-read every output and warn about tags that survived.
	Verify bool `yaml:"verify"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Audit: AuditConfig{
			Backend: audit.BackendCSV,
			Path:    "metadata_changes.csv",
		},
		Pixels:  PixelsCopy,
		Quality: 100,
		Verify:  true,
	}
}

// Load reads the YAML file at path over the defaults, applies META_SCRUB_*
// environment overrides and validates the result. An empty path skips the
// file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.OutputDir = getEnv("META_SCRUB_OUTPUT_DIR", c.OutputDir)
	c.Audit.Backend = audit.Backend(getEnv("META_SCRUB_AUDIT_BACKEND", string(c.Audit.Backend)))
	c.Audit.Path = getEnv("META_SCRUB_AUDIT_PATH", c.Audit.Path)
	c.Pixels = PixelMode(getEnv("META_SCRUB_PIXELS", string(c.Pixels)))
	c.Quality = getEnvInt("META_SCRUB_QUALITY", c.Quality)
	c.Verify = getEnvBool("META_SCRUB_VERIFY", c.Verify)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	switch c.Audit.Backend {
	case audit.BackendCSV, audit.BackendSQLite:
		if c.Audit.Path == "" {
			result = multierror.Append(result, fmt.Errorf("%w: audit.path is required for the %s backend", ErrInvalid, c.Audit.Backend))
		}
	case audit.BackendNone:
	default:
		result = multierror.Append(result, fmt.Errorf("%w: audit.backend %q", ErrInvalid, c.Audit.Backend))
	}
	switch c.Pixels {
	case PixelsCopy, PixelsReencode:
	default:
		result = multierror.Append(result, fmt.Errorf("%w: pixels %q", ErrInvalid, c.Pixels))
	}
	if c.Quality < 1 || c.Quality > 100 {
		result = multierror.Append(result, fmt.Errorf("%w: quality %d not in 1-100", ErrInvalid, c.Quality))
	}
	return result.ErrorOrNil()
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
