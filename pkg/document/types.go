package document

import (
	"fmt"
	"strings"
	"time"
)

// Document is one input text file of the example generator
type Document struct {
	Path string `json:"path"` // Location on disk
	Text string `json:"text"` // Full decoded contents
}

// Tokens splits the document text on whitespace
func (d *Document) Tokens() []string {
	return strings.Fields(d.Text)
}

// Validate checks if the document has required fields
func (d *Document) Validate() error {
	if d.Path == "" {
		return fmt.Errorf("document path cannot be empty")
	}
	return nil
}

// Article is a page fetched by the scraper
type Article struct {
	Title     string            `json:"title"`
	URL       string            `json:"url,omitempty"` // Final URL after redirects
	RawText   string            `json:"-"`             // Concatenated paragraph text as fetched
	Text      string            `json:"text"`          // Cleaned text that gets persisted
	Metadata  map[string]string `json:"metadata,omitempty"`
	FetchedAt time.Time         `json:"fetched_at"`
}

// WordCount returns the number of whitespace separated words in the cleaned text
func (a *Article) WordCount() int {
	return len(strings.Fields(a.Text))
}

// Validate checks if the article has required fields
func (a *Article) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("article title cannot be empty")
	}
	return nil
}
