// Command scrape-wikipedia fetches random Wikipedia articles, cleans their
// text and writes one .txt file per article for the example generator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Caia-Tech/word2vec-corpus/internal/metrics"
	"github.com/Caia-Tech/word2vec-corpus/internal/processing"
	"github.com/Caia-Tech/word2vec-corpus/internal/procurement/scraping"
	"github.com/Caia-Tech/word2vec-corpus/internal/storage"
	"github.com/Caia-Tech/word2vec-corpus/pkg/logging"
	"github.com/Caia-Tech/word2vec-corpus/pkg/pipeline"
	"github.com/google/uuid"
)

const (
	exitOK         = 0
	exitRunFailure = 1
	exitUsage      = 2
)

type options struct {
	num             int
	continueOnError bool
	commit          bool
	respectRobots   bool
	delay           time.Duration
	timeout         time.Duration
	stopwords       string
	root            string
	configPath      string
	logLevel        string
	metricsFile     string

	set map[string]bool // flags given on the command line
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{set: make(map[string]bool)}
	fs := flag.NewFlagSet("scrape-wikipedia", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.IntVar(&opts.num, "num", 1, "number of random articles to scrape")
	fs.IntVar(&opts.num, "n", 1, "shorthand for --num")
	fs.BoolVar(&opts.continueOnError, "continue-on-error", false, "log failed articles and keep going")
	fs.BoolVar(&opts.commit, "commit", false, "commit each article into a git repository in the article directory")
	fs.BoolVar(&opts.respectRobots, "respect-robots", true, "honour robots.txt crawl delay and rules")
	fs.DurationVar(&opts.delay, "delay", 0, "minimum pause between article requests")
	fs.DurationVar(&opts.timeout, "timeout", 0, "per-request timeout")
	fs.StringVar(&opts.stopwords, "stopwords", "", "stopword file, one word per line")
	fs.StringVar(&opts.root, "root", "", "project root the article directory resolves against")
	fs.StringVar(&opts.configPath, "config", "", "JSON config file overlaid on the defaults")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "write run metrics in Prometheus text format to this file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	fs.Visit(func(f *flag.Flag) {
		opts.set[f.Name] = true
	})
	if opts.num < 0 {
		return nil, fmt.Errorf("--num cannot be negative, got %d", opts.num)
	}
	return opts, nil
}

// applyOverrides copies explicitly given flags onto the loaded config
func applyOverrides(config *pipeline.Config, opts *options) {
	if opts.root != "" {
		config.Paths.Root = opts.root
	}
	if opts.logLevel != "" {
		config.Logging.Level = opts.logLevel
	}
	if opts.set["continue-on-error"] {
		config.Scraper.ContinueOnError = opts.continueOnError
	}
	if opts.set["commit"] {
		config.Scraper.CommitArticles = opts.commit
	}
	if opts.set["respect-robots"] {
		config.Scraper.RespectRobotsTxt = opts.respectRobots
	}
	if opts.set["delay"] {
		config.Scraper.Delay = opts.delay
	}
	if opts.set["timeout"] {
		config.Scraper.Timeout = opts.timeout
	}
	if opts.stopwords != "" {
		config.Scraper.StopwordsFile = opts.stopwords
	}
	if opts.metricsFile != "" {
		if config.Metrics == nil {
			config.Metrics = &pipeline.MetricsConfig{}
		}
		config.Metrics.TextfilePath = opts.metricsFile
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "scrape-wikipedia: %v\n", err)
		return exitUsage
	}

	config, err := pipeline.LoadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "scrape-wikipedia: %v\n", err)
		return exitUsage
	}
	applyOverrides(config, opts)
	if err := config.Validate(); err != nil {
		fmt.Fprintf(stderr, "scrape-wikipedia: %v\n", err)
		return exitUsage
	}
	if err := logging.SetupLogger(config.Logging); err != nil {
		fmt.Fprintf(stderr, "scrape-wikipedia: failed to setup logging: %v\n", err)
		return exitUsage
	}

	logger := logging.GetLogger("scrape-wikipedia")
	service, storageMetrics, err := buildService(config)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize scraper")
		return exitRunFailure
	}

	summary, err := service.Run(ctx, opts.num)
	if path := config.Metrics.TextfilePath; path != "" {
		runMetrics := metrics.New()
		runMetrics.RecordScrape(summary, err)
		runMetrics.RecordStorage(storageMetrics)
		if writeErr := runMetrics.WriteTextfile(path); writeErr != nil {
			logger.Warn().Err(writeErr).Msg("Failed to export run metrics")
		}
	}
	if err != nil {
		logger.Error().Err(err).Int("persisted", summary.Persisted).Msg("Scrape failed")
		return exitRunFailure
	}

	logger.Info().
		Int("persisted", summary.Persisted).
		Int("failed", summary.Failed).
		Str("dir", config.Paths.WikipediaDir()).
		Msg("Done")
	return exitOK
}

func buildService(config *pipeline.Config) (*scraping.Service, *storage.SimpleMetricsCollector, error) {
	sc := config.Scraper
	runID := uuid.New().String()

	stopwords := processing.EnglishStopwords()
	if sc.StopwordsFile != "" {
		loaded, err := processing.LoadStopwords(sc.StopwordsFile)
		if err != nil {
			return nil, nil, err
		}
		stopwords = loaded
	}

	dir := config.Paths.WikipediaDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create article directory: %w", err)
	}

	storageMetrics := storage.NewSimpleMetricsCollector()
	var sink storage.ArticleStorage
	if sc.CommitArticles {
		store, err := storage.NewGitStore(dir, runID, storageMetrics)
		if err != nil {
			return nil, nil, err
		}
		sink = store
	} else {
		store, err := storage.NewFileStore(dir, storageMetrics)
		if err != nil {
			return nil, nil, err
		}
		sink = store
	}

	fetcher := scraping.NewArticleFetcher(&scraping.FetcherConfig{
		BaseURL:        sc.BaseURL,
		RandomPath:     sc.RandomPath,
		UserAgent:      sc.UserAgent,
		Timeout:        sc.Timeout,
		MaxContentSize: sc.MaxContentSize,
	})

	var compliance *scraping.ComplianceChecker
	if sc.RespectRobotsTxt {
		compliance = scraping.NewComplianceChecker(sc.BaseURL, sc.UserAgent, sc.Timeout)
	}

	service := scraping.NewService(
		fetcher,
		processing.NewArticleCleaner(stopwords),
		sink,
		compliance,
		&scraping.ServiceConfig{
			Delay:           sc.Delay,
			ContinueOnError: sc.ContinueOnError,
			ErrorBackoff:    sc.Delay,
			RunID:           runID,
		},
	)
	return service, storageMetrics, nil
}
