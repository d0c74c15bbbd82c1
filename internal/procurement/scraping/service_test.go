package scraping

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Caia-Tech/word2vec-corpus/internal/processing"
	"github.com/Caia-Tech/word2vec-corpus/pkg/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedFetcher returns queued articles or errors in order
type scriptedFetcher struct {
	results []interface{}
	calls   int
}

func (f *scriptedFetcher) FetchRandomArticle(ctx context.Context) (*document.Article, error) {
	if f.calls >= len(f.results) {
		return nil, fmt.Errorf("no more scripted results")
	}
	r := f.results[f.calls]
	f.calls++
	if err, ok := r.(error); ok {
		return nil, err
	}
	return r.(*document.Article), nil
}

// memorySink stores persisted articles in memory
type memorySink struct {
	articles map[string]*document.Article
	order    []string
}

func newMemorySink() *memorySink {
	return &memorySink{articles: make(map[string]*document.Article)}
}

func (m *memorySink) Persist(ctx context.Context, article *document.Article) (string, error) {
	name := article.Title + ".txt"
	m.articles[name] = article
	m.order = append(m.order, name)
	return name, nil
}

func rawArticle(title, raw string) *document.Article {
	return &document.Article{
		Title:     title,
		URL:       "https://example.org/wiki/" + title,
		RawText:   raw,
		FetchedAt: time.Now(),
	}
}

func newTestService(fetcher Fetcher, sink ArticleSink, continueOnError bool) *Service {
	cleaner := processing.NewArticleCleaner(processing.EnglishStopwords())
	return NewService(fetcher, cleaner, sink, nil, &ServiceConfig{
		Delay:           0,
		ContinueOnError: continueOnError,
		RunID:           "test-run",
	})
}

func TestServiceRunPersistsCleanedArticles(t *testing.T) {
	fetcher := &scriptedFetcher{results: []interface{}{
		rawArticle("Gopher", "Gophers are burrowing rodents.[1]"),
		rawArticle("Go", "Go is a statically typed language.[2][3]"),
	}}
	sink := newMemorySink()

	summary, err := newTestService(fetcher, sink, false).Run(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, "test-run", summary.RunID)
	assert.Equal(t, 2, summary.Requested)
	assert.Equal(t, 2, summary.Persisted)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, []string{"Gopher.txt", "Go.txt"}, summary.Files)

	assert.Equal(t, "gophers burrowing rodents", sink.articles["Gopher.txt"].Text)
	assert.Equal(t, "go statically typed language", sink.articles["Go.txt"].Text)
}

func TestServiceRunAbortsOnFirstFailureByDefault(t *testing.T) {
	fetcher := &scriptedFetcher{results: []interface{}{
		rawArticle("First", "first article text"),
		&NetworkError{URL: "https://example.org/wiki/Special:Random", StatusCode: http.StatusServiceUnavailable},
		rawArticle("Third", "never fetched"),
	}}
	sink := newMemorySink()

	summary, err := newTestService(fetcher, sink, false).Run(context.Background(), 3)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, 1, summary.Persisted)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 2, fetcher.calls)
	assert.Equal(t, []string{"First.txt"}, sink.order)
}

func TestServiceRunContinuesOnErrorWhenEnabled(t *testing.T) {
	fetcher := &scriptedFetcher{results: []interface{}{
		&ParseError{URL: "u1", Reason: "no heading"},
		rawArticle("Second", "second article text"),
		&NetworkError{URL: "u3", Err: errors.New("connection reset")},
		rawArticle("Fourth", "fourth article text"),
	}}
	sink := newMemorySink()

	summary, err := newTestService(fetcher, sink, true).Run(context.Background(), 4)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Persisted)
	assert.Equal(t, 2, summary.Failed)
	assert.Len(t, summary.Errors, 2)
	assert.Equal(t, []string{"Second.txt", "Fourth.txt"}, sink.order)
}

func TestServiceRunZeroAndNegative(t *testing.T) {
	fetcher := &scriptedFetcher{}
	service := newTestService(fetcher, newMemorySink(), false)

	summary, err := service.Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Persisted)
	assert.Equal(t, 0, fetcher.calls)

	_, err = service.Run(context.Background(), -1)
	assert.Error(t, err)
}

func TestServiceRunHonoursCancellation(t *testing.T) {
	fetcher := &scriptedFetcher{results: []interface{}{rawArticle("A", "alpha")}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cleaner := processing.NewArticleCleaner(processing.EnglishStopwords())
	service := NewService(fetcher, cleaner, newMemorySink(), nil, &ServiceConfig{Delay: time.Hour, ContinueOnError: true})

	// the first request passes the limiter immediately, the article then fails to clean on the cancelled context
	summary, err := service.Run(ctx, 3)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, summary.Persisted)
}

func TestServiceEndToEndWithRobots(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			fmt.Fprint(w, "User-agent: *\nDisallow: /private/\n")
		case "/wiki/Special:Random":
			http.Redirect(w, r, "/wiki/Gopher", http.StatusFound)
		case "/wiki/Gopher":
			fmt.Fprint(w, articlePage)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	fetcher := testFetcher(server.URL)
	compliance := NewComplianceChecker(server.URL, "word2vec-corpus-test/1.0", 5*time.Second)
	cleaner := processing.NewArticleCleaner(processing.EnglishStopwords())
	sink := newMemorySink()

	service := NewService(fetcher, cleaner, sink, compliance, &ServiceConfig{Delay: 0})
	summary, err := service.Run(context.Background(), 2)
	require.NoError(t, err)

	assert.True(t, compliance.Loaded())
	assert.Equal(t, 2, summary.Persisted)
	assert.Equal(t, "gophers rodents dig burrow", sink.articles["Gopher.txt"].Text)
	assert.NotEmpty(t, summary.RunID)
}

func TestServiceRejectsDisallowedArticles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			fmt.Fprint(w, "User-agent: *\nDisallow: /wiki/Gopher\n")
		case "/wiki/Special:Random":
			http.Redirect(w, r, "/wiki/Gopher", http.StatusFound)
		case "/wiki/Gopher":
			fmt.Fprint(w, articlePage)
		}
	}))
	defer server.Close()

	compliance := NewComplianceChecker(server.URL, "word2vec-corpus-test/1.0", 5*time.Second)
	cleaner := processing.NewArticleCleaner(processing.EnglishStopwords())
	service := NewService(testFetcher(server.URL), cleaner, newMemorySink(), compliance, &ServiceConfig{})

	summary, err := service.Run(context.Background(), 1)
	var complianceErr *ComplianceError
	require.ErrorAs(t, err, &complianceErr)
	assert.Equal(t, 0, summary.Persisted)
}
