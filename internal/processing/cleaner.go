package processing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Caia-Tech/word2vec-corpus/pkg/document"
)

// CleaningRule represents a single content cleaning rule
type CleaningRule interface {
	Name() string
	Description() string
	Apply(content string) (string, error)
}

// CleaningResult contains the results of content cleaning
type CleaningResult struct {
	OriginalLength int           `json:"original_length"`
	CleanedLength  int           `json:"cleaned_length"`
	RulesApplied   []string      `json:"rules_applied"`
	WordsKept      int           `json:"words_kept"`
	ProcessingTime time.Duration `json:"processing_time"`
}

// TextCleaner applies an ordered chain of cleaning rules. It holds no mutable
// state after construction and can be shared.
type TextCleaner struct {
	rules []CleaningRule
}

// NewTextCleaner lowercases, strips everything but ASCII letters and digits,
// and removes stopwords.
func NewTextCleaner(stopwords *StopwordSet) *TextCleaner {
	return &TextCleaner{
		rules: []CleaningRule{
			&LowercaseRule{},
			&NonAlphanumericRule{},
			&StopwordRule{Stopwords: stopwords},
		},
	}
}

// NewArticleCleaner is NewTextCleaner preceded by reference marker removal,
// for raw text scraped from encyclopedia pages.
func NewArticleCleaner(stopwords *StopwordSet) *TextCleaner {
	cleaner := NewTextCleaner(stopwords)
	cleaner.rules = append([]CleaningRule{&ReferenceMarkerRule{}}, cleaner.rules...)
	return cleaner
}

// NewCustomCleaner builds a cleaner from an explicit rule chain
func NewCustomCleaner(rules ...CleaningRule) *TextCleaner {
	return &TextCleaner{rules: rules}
}

// Clean runs every rule over text in order
func (tc *TextCleaner) Clean(text string) (string, error) {
	cleaned, _, err := tc.apply(text)
	return cleaned, err
}

// CleanArticle cleans the article's RawText into Text
func (tc *TextCleaner) CleanArticle(ctx context.Context, article *document.Article) (*CleaningResult, error) {
	if article == nil {
		return &CleaningResult{RulesApplied: []string{}}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	cleaned, applied, err := tc.apply(article.RawText)
	if err != nil {
		return nil, err
	}
	article.Text = cleaned

	if article.Metadata == nil {
		article.Metadata = make(map[string]string)
	}
	article.Metadata["cleaned"] = "true"
	article.Metadata["rules_applied"] = strings.Join(applied, ",")

	return &CleaningResult{
		OriginalLength: len(article.RawText),
		CleanedLength:  len(cleaned),
		RulesApplied:   applied,
		WordsKept:      article.WordCount(),
		ProcessingTime: time.Since(start),
	}, nil
}

// Rules returns the rule names in application order
func (tc *TextCleaner) Rules() []string {
	names := make([]string, 0, len(tc.rules))
	for _, rule := range tc.rules {
		names = append(names, rule.Name())
	}
	return names
}

func (tc *TextCleaner) apply(text string) (string, []string, error) {
	applied := []string{}
	for _, rule := range tc.rules {
		after, err := rule.Apply(text)
		if err != nil {
			return "", nil, fmt.Errorf("cleaning rule %s failed: %w", rule.Name(), err)
		}
		if after != text {
			applied = append(applied, rule.Name())
		}
		text = after
	}
	return text, applied, nil
}
