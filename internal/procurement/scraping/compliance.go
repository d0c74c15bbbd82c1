package scraping

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/temoto/robotstxt"
)

// ComplianceChecker reads a site's robots.txt once and answers crawl-delay
// and path questions for our user agent.
type ComplianceChecker struct {
	client    *http.Client
	baseURL   string
	userAgent string
	robots    *robotstxt.RobotsData
	loaded    bool
}

// NewComplianceChecker creates a checker for the site at baseURL
func NewComplianceChecker(baseURL, userAgent string, timeout time.Duration) *ComplianceChecker {
	return &ComplianceChecker{
		client:    &http.Client{Timeout: timeout},
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
	}
}

// Load fetches and parses robots.txt. A missing file (4xx) allows everything;
// an unreachable server is reported so the caller can decide.
func (cc *ComplianceChecker) Load(ctx context.Context) error {
	robotsURL := cc.baseURL + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return &NetworkError{URL: robotsURL, Err: err}
	}
	req.Header.Set("User-Agent", cc.userAgent)

	resp, err := cc.client.Do(req)
	if err != nil {
		return &NetworkError{URL: robotsURL, Err: err}
	}
	defer resp.Body.Close()

	robots, err := robotstxt.FromResponse(resp)
	if err != nil {
		return &ParseError{URL: robotsURL, Reason: err.Error()}
	}

	cc.robots = robots
	cc.loaded = true

	log.Debug().
		Str("url", robotsURL).
		Int("status_code", resp.StatusCode).
		Dur("crawl_delay", cc.CrawlDelay()).
		Msg("robots.txt loaded")
	return nil
}

// Loaded reports whether robots.txt was fetched successfully
func (cc *ComplianceChecker) Loaded() bool {
	return cc.loaded
}

// CrawlDelay is the Crawl-delay that applies to our agent, zero when none
func (cc *ComplianceChecker) CrawlDelay() time.Duration {
	if cc.robots == nil {
		return 0
	}
	group := cc.robots.FindGroup(cc.userAgent)
	if group == nil {
		return 0
	}
	return group.CrawlDelay
}

// Allowed reports whether robots.txt permits fetching targetURL.
// Everything is allowed when robots.txt was not loaded.
func (cc *ComplianceChecker) Allowed(targetURL string) bool {
	if cc.robots == nil {
		return true
	}
	parsed, err := url.Parse(targetURL)
	if err != nil {
		return false
	}
	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	return cc.robots.TestAgent(path, cc.userAgent)
}
