package word2vec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatExample(t *testing.T) {
	cbow := Example{Type: CBOW, Center: "b", Context: []string{"a", "c"}}
	assert.Equal(t, "(['a', 'c'], 'b')", FormatExample(cbow))
	assert.Equal(t, "(['a', 'c'], 'b')", cbow.String())

	skip := Example{Type: SkipGram, Center: "b", Context: []string{"a"}}
	assert.Equal(t, "('b', 'a')", FormatExample(skip))
}

func TestQuoteLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"word", `'word'`},
		{"", `''`},
		{"don't", `"don't"`},
		{`say "hi"`, `'say "hi"'`},
		{`it's "x"`, `'it\'s "x"'`},
		{`back\slash`, `'back\\slash'`},
		{"café", `'café'`},
		{"bell\x07", `'bell\x07'`},
		{"nb\u00a0sp", `'nb\xa0sp'`},
		{"zw\u200bsp", `'zw\u200bsp'`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, QuoteLiteral(tt.in))
		})
	}
}

func TestParseExampleRoundTrip(t *testing.T) {
	examples := []Example{
		{Type: CBOW, Center: "b", Context: []string{"a", "c"}},
		{Type: CBOW, Center: "center", Context: []string{"don't", `say "hi"`, `it's "x"`, `back\slash`}},
		{Type: SkipGram, Center: "café", Context: []string{"zw\u200bsp"}},
		{Type: SkipGram, Center: "bell\x07", Context: []string{"nb\u00a0sp"}},
	}

	for _, ex := range examples {
		line := FormatExample(ex)
		parsed, err := ParseExample(line + "\n")
		require.NoError(t, err, line)
		assert.Equal(t, ex, parsed, line)
	}
}

func TestParseExampleRejectsMalformedLines(t *testing.T) {
	bad := []string{
		"",
		"'a', 'b'",
		"('a' 'b')",
		"('a', 'b'",
		"(['a', 'b', 'c')",
		"('a', 'b') extra",
		"('unterminated, 'b')",
		`('\q', 'b')`,
	}

	for _, line := range bad {
		_, err := ParseExample(line)
		assert.Error(t, err, "line %q", line)
	}
}
