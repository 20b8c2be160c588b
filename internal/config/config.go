// Package config provides YAML-based configuration loading for arbor.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arborcli/arbor/internal/layout"
)

// Config is the top-level arbor configuration, loaded from
// ~/.arbor/config.yaml. Every field is optional; a missing file yields
// the stock configuration.
type Config struct {
	DBPath string        `yaml:"db_path"`
	Layout layout.Config `yaml:"layout"`
}

// Default returns the stock configuration. The database lives under
// ~/.arbor unless overridden.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		DBPath: filepath.Join(home, ".arbor", "arbor.db"),
		Layout: layout.DefaultConfig(),
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".arbor", "config.yaml")
}

// Load reads a YAML config file from path. A missing file is not an
// error; it yields Default().
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config. Unset fields
// fall back to their defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.Layout.BaseWidth == 0 {
		c.Layout.BaseWidth = def.Layout.BaseWidth
	}
	if c.Layout.BaseHeight == 0 {
		c.Layout.BaseHeight = def.Layout.BaseHeight
	}
	if c.Layout.HGap == 0 {
		c.Layout.HGap = def.Layout.HGap
	}
	if c.Layout.VGap == 0 {
		c.Layout.VGap = def.Layout.VGap
	}
	if c.Layout.DepthScalePercent == 0 {
		c.Layout.DepthScalePercent = def.Layout.DepthScalePercent
	}
	if c.Layout.MinScalePercent == 0 {
		c.Layout.MinScalePercent = def.Layout.MinScalePercent
	}
}

func (c *Config) validate() error {
	var errs []string
	if c.Layout.BaseWidth < 0 || c.Layout.BaseHeight < 0 {
		errs = append(errs, "layout box sizes must be non-negative")
	}
	if p := c.Layout.DepthScalePercent; p < 1 || p > 100 {
		errs = append(errs, fmt.Sprintf("layout.depth_scale_percent must be 1-100, got %d", p))
	}
	if p := c.Layout.MinScalePercent; p < 1 || p > 100 {
		errs = append(errs, fmt.Sprintf("layout.min_scale_percent must be 1-100, got %d", p))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
