// Package config loads the application configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rcollins/contacts/internal/dedup"
)

// Config is the application configuration, loaded from a YAML file with
// per-field defaults. Detection settings can additionally be overridden via
// environment variables (see dedup.ConfigFromEnv).
type Config struct {
	// DBPath is the SQLite database file path
	DBPath string `yaml:"db_path"`

	// AutoRefresh enables automatic re-analysis after mutations
	AutoRefresh bool `yaml:"auto_refresh"`

	// RefreshMinInterval throttles refresh triggers; zero means unlimited
	RefreshMinInterval time.Duration `yaml:"refresh_min_interval"`

	// Dedup holds the detection engine settings
	Dedup DedupConfig `yaml:"dedup"`
}

// DedupConfig mirrors the detection engine settings in the config file
type DedupConfig struct {
	SimilarityThreshold  float64 `yaml:"similarity_threshold"`
	MaxBucketComparisons int     `yaml:"max_bucket_comparisons"`
	MinNameLength        int     `yaml:"min_name_length"`
}

// Default returns the default application configuration
func Default() *Config {
	dd := dedup.DefaultConfig()
	return &Config{
		DBPath:      ".contacts/contacts.db",
		AutoRefresh: true,
		Dedup: DedupConfig{
			SimilarityThreshold:  dd.SimilarityThreshold,
			MaxBucketComparisons: dd.MaxBucketComparisons,
			MinNameLength:        dd.MinNameLength,
		},
	}
}

// Load reads the configuration file at path. A missing file is not an
// error: defaults are returned. Environment variables override the
// detection settings last.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return applyEnv(cfg)
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return applyEnv(cfg)
}

// applyEnv layers environment overrides on the detection settings and
// validates the result
func applyEnv(cfg *Config) (*Config, error) {
	base := cfg.DetectorConfig()
	withEnv, err := envOverrides(base)
	if err != nil {
		return nil, err
	}
	cfg.Dedup = DedupConfig{
		SimilarityThreshold:  withEnv.SimilarityThreshold,
		MaxBucketComparisons: withEnv.MaxBucketComparisons,
		MinNameLength:        withEnv.MinNameLength,
	}

	if err := withEnv.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dedup configuration: %w", err)
	}
	if cfg.RefreshMinInterval < 0 {
		return nil, fmt.Errorf("refresh_min_interval cannot be negative (got %v)", cfg.RefreshMinInterval)
	}
	return cfg, nil
}

// envOverrides starts from base and applies the dedup environment variables
func envOverrides(base dedup.Config) (dedup.Config, error) {
	fromEnv, err := dedup.ConfigFromEnv()
	if err != nil {
		return base, err
	}
	defaults := dedup.DefaultConfig()
	// Only fields the environment actually changed win over the file
	if fromEnv.SimilarityThreshold != defaults.SimilarityThreshold {
		base.SimilarityThreshold = fromEnv.SimilarityThreshold
	}
	if fromEnv.MaxBucketComparisons != defaults.MaxBucketComparisons {
		base.MaxBucketComparisons = fromEnv.MaxBucketComparisons
	}
	if fromEnv.MinNameLength != defaults.MinNameLength {
		base.MinNameLength = fromEnv.MinNameLength
	}
	return base, nil
}

// DetectorConfig converts the file settings into a detection engine config
func (c *Config) DetectorConfig() dedup.Config {
	return dedup.Config{
		SimilarityThreshold:  c.Dedup.SimilarityThreshold,
		MaxBucketComparisons: c.Dedup.MaxBucketComparisons,
		MinNameLength:        c.Dedup.MinNameLength,
	}
}
