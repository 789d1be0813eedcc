package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/mactul/jpeg-turbo-examples/internal/jpeg"
)

// Config holds conversion defaults that a YAML file may override.
// Command-line values take precedence over everything here.
type Config struct {
	Quality     int    `yaml:"quality"`
	Subsampling string `yaml:"subsampling"`
	KeepICC     bool   `yaml:"keep_icc"`
	Verbose     bool   `yaml:"verbose"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Quality:     jpeg.DefaultQuality,
		Subsampling: "420",
	}
}

// Load reads a YAML file on top of the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if c.Quality < jpeg.MinQuality || c.Quality > jpeg.MaxQuality {
		return fmt.Errorf("quality must be between %d and %d, got %d", jpeg.MinQuality, jpeg.MaxQuality, c.Quality)
	}
	if _, err := jpeg.ParseSubsampling(c.Subsampling); err != nil {
		return err
	}
	return nil
}

// SubsamplingMode returns the parsed subsampling setting.
func (c *Config) SubsamplingMode() jpeg.Subsampling {
	s, err := jpeg.ParseSubsampling(c.Subsampling)
	if err != nil {
		return jpeg.DefaultSubsampling
	}
	return s
}
