package scraping

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Caia-Tech/word2vec-corpus/internal/processing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplianceCheckerCrawlDelay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `User-agent: *
Disallow: /private/
Allow: /public/
Crawl-delay: 2`)
	}))
	defer server.Close()

	checker := NewComplianceChecker(server.URL, "word2vec-corpus-test/1.0", 5*time.Second)
	assert.False(t, checker.Loaded())
	assert.True(t, checker.Allowed(server.URL+"/private/page"), "everything is allowed before loading")

	require.NoError(t, checker.Load(context.Background()))
	assert.True(t, checker.Loaded())
	assert.Equal(t, 2*time.Second, checker.CrawlDelay())
	assert.False(t, checker.Allowed(server.URL+"/private/page"))
	assert.True(t, checker.Allowed(server.URL+"/public/page"))
	assert.True(t, checker.Allowed(server.URL+"/wiki/Gopher"))
}

func TestComplianceCheckerMissingRobots(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	checker := NewComplianceChecker(server.URL, "word2vec-corpus-test/1.0", 5*time.Second)
	require.NoError(t, checker.Load(context.Background()))
	assert.Zero(t, checker.CrawlDelay())
	assert.True(t, checker.Allowed(server.URL+"/anything"))
}

func TestComplianceCheckerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	checker := NewComplianceChecker(url, "word2vec-corpus-test/1.0", time.Second)
	err := checker.Load(context.Background())
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.False(t, checker.Loaded())
}

func TestServiceAdoptsCrawlDelay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "User-agent: *\nCrawl-delay: 7\n")
	}))
	defer server.Close()

	checker := NewComplianceChecker(server.URL, "word2vec-corpus-test/1.0", 5*time.Second)
	cleaner := processing.NewArticleCleaner(processing.EnglishStopwords())
	service := NewService(&scriptedFetcher{}, cleaner, newMemorySink(), checker, &ServiceConfig{Delay: time.Second})

	_, err := service.Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, service.limiter.GetStats()[rateLimitSource].MinInterval)
}
