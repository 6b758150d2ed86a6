package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcollins/contacts/internal/dedup"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	defaults := Default()
	assert.Equal(t, defaults.DBPath, cfg.DBPath)
	assert.True(t, cfg.AutoRefresh)
	assert.Equal(t, time.Duration(0), cfg.RefreshMinInterval)
	assert.Equal(t, defaults.Dedup, cfg.Dedup)
}

func TestLoadParsesFile(t *testing.T) {
	path := writeConfig(t, `
db_path: /tmp/contacts.db
auto_refresh: false
refresh_min_interval: 2s
dedup:
  similarity_threshold: 0.9
  max_bucket_comparisons: 500
  min_name_length: 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/contacts.db", cfg.DBPath)
	assert.False(t, cfg.AutoRefresh)
	assert.Equal(t, 2*time.Second, cfg.RefreshMinInterval)
	assert.Equal(t, 0.9, cfg.Dedup.SimilarityThreshold)
	assert.Equal(t, 500, cfg.Dedup.MaxBucketComparisons)
	assert.Equal(t, 4, cfg.Dedup.MinNameLength)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "db_path: /tmp/other.db\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.db", cfg.DBPath)
	assert.Equal(t, Default().Dedup, cfg.Dedup)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "db_path: [unterminated\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsInvalidDedupSettings(t *testing.T) {
	path := writeConfig(t, `
dedup:
  similarity_threshold: 1.5
  max_bucket_comparisons: 100
  min_name_length: 3
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsNegativeInterval(t *testing.T) {
	path := writeConfig(t, "refresh_min_interval: -1s\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverridesFileSettings(t *testing.T) {
	t.Setenv("CONTACTS_DEDUP_SIMILARITY_THRESHOLD", "0.95")
	path := writeConfig(t, `
dedup:
  similarity_threshold: 0.7
  max_bucket_comparisons: 500
  min_name_length: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	// Environment wins over the file; untouched fields keep the file values
	assert.Equal(t, 0.95, cfg.Dedup.SimilarityThreshold)
	assert.Equal(t, 500, cfg.Dedup.MaxBucketComparisons)
}

func TestDetectorConfigRoundTrip(t *testing.T) {
	cfg := Default()
	dd := cfg.DetectorConfig()
	assert.Equal(t, dedup.DefaultConfig(), dd)
	require.NoError(t, dd.Validate())
}
