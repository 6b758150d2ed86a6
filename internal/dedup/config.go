package dedup

import (
	"fmt"
	"os"
	"strconv"
)

// Confidence assigned to each detection signal. A group connected by more
// than one signal takes the maximum of the contributing confidences.
const (
	// ExactNameConfidence is the confidence for identical normalized names
	ExactNameConfidence = 0.90
	// SamePhoneConfidence is the confidence for a shared phone number
	SamePhoneConfidence = 0.95
	// SameEmailConfidence is the confidence for a shared email address
	SameEmailConfidence = 0.95
)

// Config holds configuration for the duplicate detection engine
type Config struct {
	// SimilarityThreshold is the minimum name similarity (0.0-1.0) for the
	// similar-name signal to fire.
	// Higher values = more conservative (misses "Jon Smith" vs "John Smith")
	// Lower values = more aggressive (false positives on short names)
	// Default: 0.80
	SimilarityThreshold float64

	// MaxBucketComparisons caps the number of pairwise similarity checks
	// performed within one prefilter bucket. Buckets are keyed by the first
	// letter of the normalized name, so this bounds the quadratic pass and
	// keeps overall detection near-linear.
	// Default: 2000
	MaxBucketComparisons int

	// MinNameLength is the minimum normalized name length to run the
	// similarity comparison. Very short names match almost anything.
	// Default: 3
	MinNameLength int
}

// DefaultConfig returns the default detection configuration
//
// These defaults are chosen to:
// - Catch common typo-level name variants (0.80 similarity)
// - Keep the similar-name pass bounded on pathological inputs
// - Skip similarity checks on names too short to be meaningful
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold:  0.80,
		MaxBucketComparisons: 2000,
		MinNameLength:        3,
	}
}

// Validate checks if the configuration has valid values
func (c Config) Validate() error {
	if c.SimilarityThreshold < 0.0 || c.SimilarityThreshold > 1.0 {
		return fmt.Errorf("similarity_threshold must be between 0.0 and 1.0 (got %.2f)", c.SimilarityThreshold)
	}
	if c.MaxBucketComparisons <= 0 {
		return fmt.Errorf("max_bucket_comparisons must be positive (got %d)", c.MaxBucketComparisons)
	}
	if c.MinNameLength < 0 {
		return fmt.Errorf("min_name_length cannot be negative (got %d)", c.MinNameLength)
	}
	return nil
}

// String returns a human-readable representation of the config
func (c Config) String() string {
	return fmt.Sprintf("Config{Threshold: %.2f, MaxBucketComparisons: %d, MinNameLength: %d}",
		c.SimilarityThreshold, c.MaxBucketComparisons, c.MinNameLength)
}

// ConfigFromEnv creates a Config from environment variables, falling back to defaults
//
// Environment variables:
//   - CONTACTS_DEDUP_SIMILARITY_THRESHOLD: Minimum name similarity (0.0-1.0) (default: 0.80)
//   - CONTACTS_DEDUP_MAX_BUCKET_COMPARISONS: Cap on per-bucket similarity checks (default: 2000)
//   - CONTACTS_DEDUP_MIN_NAME_LENGTH: Minimum name length for similarity (default: 3)
//
// Returns an error if any environment variable has an invalid value.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if err := parseEnvFloat("CONTACTS_DEDUP_SIMILARITY_THRESHOLD", &cfg.SimilarityThreshold); err != nil {
		return cfg, err
	}
	if err := parseEnvInt("CONTACTS_DEDUP_MAX_BUCKET_COMPARISONS", &cfg.MaxBucketComparisons); err != nil {
		return cfg, err
	}
	if err := parseEnvInt("CONTACTS_DEDUP_MIN_NAME_LENGTH", &cfg.MinNameLength); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration from environment: %w", err)
	}

	return cfg, nil
}

// parseEnvFloat parses a float64 from an environment variable
func parseEnvFloat(key string, dest *float64) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

// parseEnvInt parses an int from an environment variable
func parseEnvInt(key string, dest *int) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}
