package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Caia-Tech/word2vec-corpus/pkg/word2vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	require.NoError(t, config.Validate())

	assert.Equal(t, 2048, config.Dataset.MaxExamplesPerFile)
	assert.Equal(t, filepath.Join("shared", "data", "wikipedia"), config.Paths.WikipediaDir())
	assert.Equal(t, 30*time.Second, config.Scraper.Timeout)
	assert.False(t, config.Scraper.ContinueOnError)

	dir, err := config.Paths.ExamplesDir(word2vec.CBOW)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("shared", "data", "cbow"), dir)

	dir, err = config.Paths.ExamplesDir(word2vec.SkipGram)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("shared", "data", "skipgram"), dir)

	_, err = config.Paths.ExamplesDir(word2vec.ExampleType(9))
	assert.Error(t, err)
}

func TestPathsResolveAgainstRoot(t *testing.T) {
	paths := &PathsConfig{Root: "/srv/project", CBOW: "out/cbow", SkipGram: "/abs/skipgram"}

	dir, err := paths.ExamplesDir(word2vec.CBOW)
	require.NoError(t, err)
	assert.Equal(t, "/srv/project/out/cbow", dir)

	dir, err = paths.ExamplesDir(word2vec.SkipGram)
	require.NoError(t, err)
	assert.Equal(t, "/abs/skipgram", dir)
}

func TestPresetConfigs(t *testing.T) {
	dev := DevelopmentConfig()
	assert.Equal(t, "debug", dev.Logging.Level)

	prod := ProductionConfig()
	assert.Equal(t, "json", prod.Logging.Format)
	assert.True(t, prod.Scraper.ContinueOnError)
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	raw := `{
		"paths": {"root": "/data/project", "wikipedia": "corpus", "cbow": "c", "skipgram": "s"},
		"dataset": {"max_examples_per_file": 100}
	}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 100, config.Dataset.MaxExamplesPerFile)
	assert.Equal(t, "/data/project/corpus", config.Paths.WikipediaDir())
	// untouched sections keep their defaults
	assert.Equal(t, "https://en.wikipedia.org", config.Scraper.BaseURL)
	assert.Equal(t, "info", config.Logging.Level)
}

func TestLoadConfigRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	unknown := filepath.Join(dir, "unknown.json")
	require.NoError(t, os.WriteFile(unknown, []byte(`{"colour": "blue"}`), 0644))
	_, err := LoadConfig(unknown)
	assert.Error(t, err)

	badCap := filepath.Join(dir, "cap.json")
	require.NoError(t, os.WriteFile(badCap, []byte(`{"dataset": {"max_examples_per_file": 0}}`), 0644))
	_, err = LoadConfig(badCap)
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxExamplesPerFile, config.Dataset.MaxExamplesPerFile)
}

func TestLoadConfigMetricsSection(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "metrics.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"metrics": {"textfile_path": "/var/lib/node_exporter/w2v.prom"}}`), 0644))
	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/node_exporter/w2v.prom", config.Metrics.TextfilePath)

	nullPath := filepath.Join(dir, "null.json")
	require.NoError(t, os.WriteFile(nullPath, []byte(`{"metrics": null}`), 0644))
	config, err = LoadConfig(nullPath)
	require.NoError(t, err)
	require.NotNil(t, config.Metrics)
	assert.Empty(t, config.Metrics.TextfilePath)
}
