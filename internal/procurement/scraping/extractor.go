package scraping

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Caia-Tech/word2vec-corpus/pkg/document"
	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
)

// ArticleFetcher downloads encyclopedia pages and extracts title and body text
type ArticleFetcher struct {
	client *http.Client
	config *FetcherConfig
}

// FetcherConfig configures article fetching
type FetcherConfig struct {
	BaseURL        string        `json:"base_url"`
	RandomPath     string        `json:"random_path"`
	UserAgent      string        `json:"user_agent"`
	Timeout        time.Duration `json:"timeout"`
	MaxContentSize int64         `json:"max_content_size"`
}

// DefaultFetcherConfig returns default fetcher configuration
func DefaultFetcherConfig() *FetcherConfig {
	return &FetcherConfig{
		BaseURL:        "https://en.wikipedia.org",
		RandomPath:     "/wiki/Special:Random",
		UserAgent:      "word2vec-corpus/1.0 (+https://github.com/Caia-Tech/word2vec-corpus)",
		Timeout:        30 * time.Second,
		MaxContentSize: 10 * 1024 * 1024, // 10MB
	}
}

// NewArticleFetcher creates a fetcher. Redirects are followed, so the random
// article endpoint resolves to the article itself.
func NewArticleFetcher(config *FetcherConfig) *ArticleFetcher {
	if config == nil {
		config = DefaultFetcherConfig()
	}
	if config.MaxContentSize <= 0 {
		config.MaxContentSize = DefaultFetcherConfig().MaxContentSize
	}

	return &ArticleFetcher{
		client: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
	}
}

// RandomURL is the endpoint that redirects to a random article
func (af *ArticleFetcher) RandomURL() string {
	return strings.TrimRight(af.config.BaseURL, "/") + af.config.RandomPath
}

// FetchRandomArticle retrieves one randomly selected article
func (af *ArticleFetcher) FetchRandomArticle(ctx context.Context) (*document.Article, error) {
	return af.FetchArticle(ctx, af.RandomURL())
}

// FetchArticle retrieves the article at targetURL
func (af *ArticleFetcher) FetchArticle(ctx context.Context, targetURL string) (*document.Article, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, &NetworkError{URL: targetURL, Err: err}
	}
	req.Header.Set("User-Agent", af.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := af.client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: targetURL, Err: err}
	}
	defer resp.Body.Close()

	finalURL := resp.Request.URL.String()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{URL: finalURL, StatusCode: resp.StatusCode}
	}

	limited := &io.LimitedReader{R: resp.Body, N: af.config.MaxContentSize + 1}
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, &NetworkError{URL: finalURL, Err: err}
	}
	if int64(len(body)) > af.config.MaxContentSize {
		return nil, &NetworkError{URL: finalURL, Err: fmt.Errorf("content exceeds maximum size of %d bytes", af.config.MaxContentSize)}
	}

	article, err := ParseArticle(bytes.NewReader(body), finalURL)
	if err != nil {
		return nil, err
	}
	article.Metadata["status_code"] = fmt.Sprintf("%d", resp.StatusCode)
	article.Metadata["content_length"] = fmt.Sprintf("%d", len(body))

	log.Debug().
		Str("url", finalURL).
		Str("title", article.Title).
		Int("status_code", resp.StatusCode).
		Dur("processing_time", time.Since(start)).
		Msg("Article fetched")

	return article, nil
}

// ParseArticle extracts the title from #firstHeading and the concatenated
// text of every <p> element from an article page.
func ParseArticle(r io.Reader, pageURL string) (*document.Article, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ParseError{URL: pageURL, Reason: err.Error()}
	}

	heading := doc.Find("#firstHeading").First()
	if heading.Length() == 0 {
		return nil, &ParseError{URL: pageURL, Reason: "page has no #firstHeading element"}
	}

	title := strings.TrimSpace(nodeText(heading.Nodes))
	if title == "" {
		return nil, &ParseError{URL: pageURL, Reason: "article title is empty"}
	}

	paragraphs := doc.Find("p")

	return &document.Article{
		Title:   title,
		URL:     pageURL,
		RawText: nodeText(paragraphs.Nodes),
		Metadata: map[string]string{
			"paragraphs": fmt.Sprintf("%d", paragraphs.Length()),
		},
		FetchedAt: time.Now(),
	}, nil
}

// nodeText concatenates all descendant text of nodes in document order
func nodeText(nodes []*html.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		appendText(&b, n)
	}
	return b.String()
}

func appendText(b *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		appendText(b, c)
	}
}
