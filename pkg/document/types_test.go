package document

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDocument_Tokens(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "single spaces",
			text:     "alpha beta gamma",
			expected: []string{"alpha", "beta", "gamma"},
		},
		{
			name:     "mixed whitespace",
			text:     "  alpha\tbeta\n\ngamma  ",
			expected: []string{"alpha", "beta", "gamma"},
		},
		{
			name:     "empty",
			text:     "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{Path: "x.txt", Text: tt.text}
			assert.Equal(t, tt.expected, doc.Tokens())
		})
	}
}

func TestDocument_Validate(t *testing.T) {
	assert.Error(t, (&Document{}).Validate())
	assert.NoError(t, (&Document{Path: "corpus/a.txt"}).Validate())
}

func TestArticle_Validate(t *testing.T) {
	article := &Article{Title: "  ", FetchedAt: time.Now()}
	assert.Error(t, article.Validate())

	article.Title = "Go (programming language)"
	assert.NoError(t, article.Validate())
}

func TestArticle_WordCount(t *testing.T) {
	article := &Article{Title: "x", Text: "go statically typed compiled language"}
	assert.Equal(t, 5, article.WordCount())
}
