package processing

import (
	"regexp"
	"strings"
)

var (
	referenceMarkerRegex = regexp.MustCompile(`\[[^\]]*\]`)
	nonAlphanumericRegex = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// ReferenceMarkerRule removes bracketed citation markers such as [1] or [citation needed]
type ReferenceMarkerRule struct{}

func (r *ReferenceMarkerRule) Name() string {
	return "reference_marker_removal"
}

func (r *ReferenceMarkerRule) Description() string {
	return "Removes bracketed reference markers like [1] and [citation needed]"
}

func (r *ReferenceMarkerRule) Apply(content string) (string, error) {
	return referenceMarkerRegex.ReplaceAllString(content, ""), nil
}

// LowercaseRule lowercases all text
type LowercaseRule struct{}

func (r *LowercaseRule) Name() string {
	return "lowercase"
}

func (r *LowercaseRule) Description() string {
	return "Converts text to lowercase"
}

func (r *LowercaseRule) Apply(content string) (string, error) {
	return strings.ToLower(content), nil
}

// NonAlphanumericRule replaces every character outside ASCII letters and digits with a space
type NonAlphanumericRule struct{}

func (r *NonAlphanumericRule) Name() string {
	return "non_alphanumeric_removal"
}

func (r *NonAlphanumericRule) Description() string {
	return "Replaces punctuation, symbols and non-ASCII characters with spaces"
}

func (r *NonAlphanumericRule) Apply(content string) (string, error) {
	return nonAlphanumericRegex.ReplaceAllString(content, " "), nil
}

// StopwordRule drops stopwords and rejoins the remaining words with single spaces
type StopwordRule struct {
	Stopwords *StopwordSet
}

func (r *StopwordRule) Name() string {
	return "stopword_removal"
}

func (r *StopwordRule) Description() string {
	return "Removes stopwords and collapses whitespace to single spaces"
}

func (r *StopwordRule) Apply(content string) (string, error) {
	words := strings.Fields(content)
	kept := words[:0]
	for _, w := range words {
		if !r.Stopwords.Contains(w) {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " "), nil
}
