package scraping

import (
	"context"
	"fmt"
	"time"

	"github.com/Caia-Tech/word2vec-corpus/internal/processing"
	"github.com/Caia-Tech/word2vec-corpus/pkg/document"
	"github.com/Caia-Tech/word2vec-corpus/pkg/logging"
	"github.com/Caia-Tech/word2vec-corpus/pkg/ratelimit"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// rateLimitSource is the limiter key for article requests
const rateLimitSource = "articles"

// Fetcher retrieves one random article
type Fetcher interface {
	FetchRandomArticle(ctx context.Context) (*document.Article, error)
}

// ArticleSink persists a cleaned article and returns where it was written
type ArticleSink interface {
	Persist(ctx context.Context, article *document.Article) (string, error)
}

// ServiceConfig configures a scraping run
type ServiceConfig struct {
	Delay           time.Duration `json:"delay"`             // minimum spacing between article requests
	ContinueOnError bool          `json:"continue_on_error"` // log and count failed articles instead of aborting
	ErrorBackoff    time.Duration `json:"error_backoff"`     // extra wait per error after repeated failures, zero disables
	RunID           string        `json:"run_id"`            // generated when empty
}

// Summary reports the outcome of a scraping run
type Summary struct {
	RunID     string        `json:"run_id"`
	Requested int           `json:"requested"`
	Persisted int           `json:"persisted"`
	Failed    int           `json:"failed"`
	Files     []string      `json:"files"`
	Errors    []string      `json:"errors,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// Service runs the fetch, clean, persist loop
type Service struct {
	fetcher    Fetcher
	cleaner    *processing.TextCleaner
	sink       ArticleSink
	limiter    *ratelimit.SourceRateLimiter
	compliance *ComplianceChecker
	config     *ServiceConfig
	logger     zerolog.Logger
}

// NewService wires a scraping service. compliance may be nil to skip robots.txt handling.
func NewService(fetcher Fetcher, cleaner *processing.TextCleaner, sink ArticleSink, compliance *ComplianceChecker, config *ServiceConfig) *Service {
	if config == nil {
		config = &ServiceConfig{Delay: time.Second}
	}
	if config.RunID == "" {
		config.RunID = uuid.New().String()
	}

	limiter := ratelimit.NewSourceRateLimiter()
	limiter.RegisterSource(rateLimitSource, config.Delay, config.ErrorBackoff, 5*time.Minute)

	return &Service{
		fetcher:    fetcher,
		cleaner:    cleaner,
		sink:       sink,
		limiter:    limiter,
		compliance: compliance,
		config:     config,
		logger:     logging.GetRunLogger("scrape-wikipedia", config.RunID),
	}
}

// Run scrapes num articles. By default the first failure aborts the run and
// is returned together with the summary of what was persisted before it.
func (s *Service) Run(ctx context.Context, num int) (*Summary, error) {
	if num < 0 {
		return nil, fmt.Errorf("number of articles cannot be negative, got %d", num)
	}

	start := time.Now()
	summary := &Summary{
		RunID:     s.config.RunID,
		Requested: num,
		Files:     []string{},
	}

	s.applyRobotsPolicy(ctx)

	s.logger.Info().
		Int("articles", num).
		Bool("continue_on_error", s.config.ContinueOnError).
		Msg("Starting scrape")

	for i := 0; i < num; i++ {
		if err := s.limiter.WaitForSource(ctx, rateLimitSource); err != nil {
			summary.Duration = time.Since(start)
			return summary, err
		}

		path, err := s.scrapeOne(ctx)
		if err != nil {
			s.limiter.RecordError(rateLimitSource)
			summary.Failed++
			summary.Errors = append(summary.Errors, err.Error())

			if !s.config.ContinueOnError || ctx.Err() != nil {
				summary.Duration = time.Since(start)
				s.logger.Error().Err(err).Int("article", i+1).Msg("Scrape aborted")
				return summary, err
			}
			s.logger.Warn().Err(err).Int("article", i+1).Msg("Article failed, continuing")
			continue
		}

		s.limiter.RecordSuccess(rateLimitSource)
		summary.Persisted++
		summary.Files = append(summary.Files, path)
	}

	summary.Duration = time.Since(start)
	s.logger.Info().
		Int("persisted", summary.Persisted).
		Int("failed", summary.Failed).
		Dur("duration", summary.Duration).
		Msg("Scrape completed")
	return summary, nil
}

func (s *Service) scrapeOne(ctx context.Context) (string, error) {
	article, err := s.fetcher.FetchRandomArticle(ctx)
	if err != nil {
		return "", err
	}

	if s.compliance != nil && !s.compliance.Allowed(article.URL) {
		return "", &ComplianceError{URL: article.URL}
	}

	result, err := s.cleaner.CleanArticle(ctx, article)
	if err != nil {
		return "", fmt.Errorf("failed to clean %q: %w", article.Title, err)
	}

	path, err := s.sink.Persist(ctx, article)
	if err != nil {
		return "", fmt.Errorf("failed to persist %q: %w", article.Title, err)
	}

	s.logger.Info().
		Str("title", article.Title).
		Str("file", path).
		Int("words", result.WordsKept).
		Msg("Article saved")
	return path, nil
}

// applyRobotsPolicy raises the request spacing to the site's Crawl-delay
func (s *Service) applyRobotsPolicy(ctx context.Context) {
	if s.compliance == nil {
		return
	}

	if !s.compliance.Loaded() {
		if err := s.compliance.Load(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("robots.txt unavailable, using configured delay")
			return
		}
	}

	if delay := s.compliance.CrawlDelay(); delay > s.config.Delay {
		_ = s.limiter.SetMinInterval(rateLimitSource, delay)
		s.logger.Info().Dur("crawl_delay", delay).Msg("Using robots.txt crawl delay")
	}
}
