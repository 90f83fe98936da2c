// Package config loads operational settings from a YAML file and
// supplies the documented defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nordtext/bidict/pkg/bidict/internalerr"
	"github.com/nordtext/bidict/pkg/bidict/translate"
)

// Filters holds the statistical filter settings for finalization.
type Filters struct {
	SourceTF int64   `yaml:"source_tf"`
	SourceDF float64 `yaml:"source_df"`
	TransTF  int64   `yaml:"trans_tf"`
	TransDF  float64 `yaml:"trans_df"`
	TopN     int     `yaml:"top_n"`
}

// Config holds the operational knobs for both passes.
type Config struct {
	// Engine is the MT engine binary.
	Engine string `yaml:"engine"`

	// Direction is the language pair passed to the engine.
	Direction string `yaml:"direction"`

	ChunkSize int    `yaml:"chunk_size"`
	Workers   int    `yaml:"workers"`
	Separator string `yaml:"separator"`

	// TimeoutSeconds bounds one engine invocation; zero disables it.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// SkipFailedChunks trades fail-fast for skip-and-continue.
	SkipFailedChunks bool `yaml:"skip_failed_chunks"`

	Filters Filters `yaml:"filters"`
}

// Default returns the documented default configuration.
func Default() Config {
	return Config{
		Engine:    "apertium",
		Direction: "nno-nob",
		ChunkSize: translate.DefaultChunkSize,
		Workers:   translate.DefaultWorkers,
		Separator: translate.DefaultSeparator,
		Filters: Filters{
			SourceTF: 5,
			SourceDF: 0.5,
			TransTF:  5,
			TransDF:  0.5,
			TopN:     1,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges that would otherwise fail deep inside a run.
func (c Config) Validate() error {
	if c.Engine == "" {
		return fmt.Errorf("%w: engine must not be empty", internalerr.ErrInvalidConfig)
	}
	if from, to, ok := strings.Cut(c.Direction, "-"); !ok || from == "" || to == "" {
		return fmt.Errorf("%w: direction must be <from>-<to>, got %q", internalerr.ErrInvalidConfig, c.Direction)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size must be positive, got %d", internalerr.ErrInvalidConfig, c.ChunkSize)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", internalerr.ErrInvalidConfig, c.Workers)
	}
	if c.Separator == "" {
		return fmt.Errorf("%w: separator must not be empty", internalerr.ErrInvalidConfig)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: timeout_seconds must not be negative, got %d", internalerr.ErrInvalidConfig, c.TimeoutSeconds)
	}
	if c.Filters.SourceDF < 0 || c.Filters.SourceDF > 1 {
		return fmt.Errorf("%w: source_df must be in [0,1], got %g", internalerr.ErrInvalidConfig, c.Filters.SourceDF)
	}
	if c.Filters.TransDF < 0 || c.Filters.TransDF > 1 {
		return fmt.Errorf("%w: trans_df must be in [0,1], got %g", internalerr.ErrInvalidConfig, c.Filters.TransDF)
	}
	return nil
}
