package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Caia-Tech/word2vec-corpus/pkg/logging"
	"github.com/Caia-Tech/word2vec-corpus/pkg/word2vec"
)

// DefaultMaxExamplesPerFile is the number of examples written to each shard
const DefaultMaxExamplesPerFile = 2048

// Config holds complete configuration for both pipelines
type Config struct {
	// Logging configuration
	Logging *logging.LogConfig `json:"logging"`

	// Data paths
	Paths *PathsConfig `json:"paths"`

	// Example generation settings
	Dataset *DatasetConfig `json:"dataset"`

	// Wikipedia scraper settings
	Scraper *ScraperConfig `json:"scraper"`

	// Run metrics export
	Metrics *MetricsConfig `json:"metrics"`
}

// PathsConfig holds the data directories. Relative entries resolve against Root.
type PathsConfig struct {
	Root      string `json:"root"`
	Wikipedia string `json:"wikipedia"`
	CBOW      string `json:"cbow"`
	SkipGram  string `json:"skipgram"`
}

// DatasetConfig holds example generation settings
type DatasetConfig struct {
	MaxExamplesPerFile int `json:"max_examples_per_file"`
}

// MetricsConfig controls the Prometheus textfile export. An empty path disables it.
type MetricsConfig struct {
	TextfilePath string `json:"textfile_path"`
}

// ScraperConfig holds scraping settings
type ScraperConfig struct {
	BaseURL          string        `json:"base_url"`
	RandomPath       string        `json:"random_path"`
	UserAgent        string        `json:"user_agent"`
	Timeout          time.Duration `json:"timeout"`
	Delay            time.Duration `json:"delay"`            // pause between article requests
	MaxContentSize   int64         `json:"max_content_size"` // bytes
	RespectRobotsTxt bool          `json:"respect_robots_txt"`
	ContinueOnError  bool          `json:"continue_on_error"`
	CommitArticles   bool          `json:"commit_articles"` // commit each article into a git repo
	StopwordsFile    string        `json:"stopwords_file"`  // one word per line, empty uses the built-in English list
}

// DefaultConfig returns a complete default configuration
func DefaultConfig() *Config {
	return &Config{
		Logging: logging.DefaultLogConfig(),

		Paths: &PathsConfig{
			Root:      ".",
			Wikipedia: filepath.Join("shared", "data", "wikipedia"),
			CBOW:      filepath.Join("shared", "data", "cbow"),
			SkipGram:  filepath.Join("shared", "data", "skipgram"),
		},

		Dataset: &DatasetConfig{
			MaxExamplesPerFile: DefaultMaxExamplesPerFile,
		},

		Scraper: &ScraperConfig{
			BaseURL:          "https://en.wikipedia.org",
			RandomPath:       "/wiki/Special:Random",
			UserAgent:        "word2vec-corpus/1.0 (+https://github.com/Caia-Tech/word2vec-corpus)",
			Timeout:          30 * time.Second,
			Delay:            1 * time.Second,
			MaxContentSize:   10 * 1024 * 1024, // 10MB
			RespectRobotsTxt: true,
			ContinueOnError:  false,
			CommitArticles:   false,
		},

		Metrics: &MetricsConfig{},
	}
}

// ProductionConfig returns configuration for unattended batch runs
func ProductionConfig() *Config {
	config := DefaultConfig()

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Scraper.ContinueOnError = true
	config.Scraper.Delay = 2 * time.Second

	return config
}

// DevelopmentConfig returns development configuration
func DevelopmentConfig() *Config {
	config := DefaultConfig()

	config.Logging.Level = "debug"
	config.Logging.Format = "pretty"
	config.Logging.Console = true

	return config
}

// LoadConfig overlays the JSON file at path on the defaults. Unknown fields are rejected.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks settings that have no usable fallback
func (c *Config) Validate() error {
	if c.Logging == nil || c.Paths == nil || c.Dataset == nil || c.Scraper == nil {
		return fmt.Errorf("config sections logging, paths, dataset and scraper are required")
	}
	if c.Metrics == nil {
		c.Metrics = &MetricsConfig{}
	}
	if c.Dataset.MaxExamplesPerFile <= 0 {
		return fmt.Errorf("dataset.max_examples_per_file must be positive, got %d", c.Dataset.MaxExamplesPerFile)
	}
	if c.Scraper.Timeout < 0 || c.Scraper.Delay < 0 {
		return fmt.Errorf("scraper timeout and delay cannot be negative")
	}
	return nil
}

// Resolve returns p anchored at the project root unless it is already absolute
func (p *PathsConfig) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Root, path)
}

// WikipediaDir is the directory the scraper writes articles to
func (p *PathsConfig) WikipediaDir() string {
	return p.Resolve(p.Wikipedia)
}

// ExamplesDir is the shard directory for the named example type
func (p *PathsConfig) ExamplesDir(exampleType word2vec.ExampleType) (string, error) {
	switch exampleType {
	case word2vec.CBOW:
		return p.Resolve(p.CBOW), nil
	case word2vec.SkipGram:
		return p.Resolve(p.SkipGram), nil
	default:
		return "", fmt.Errorf("no output directory for example type %s", exampleType)
	}
}
