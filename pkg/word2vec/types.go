package word2vec

import (
	"errors"
	"fmt"
	"strings"
)

// ExampleType selects how a window is turned into training examples
type ExampleType int

const (
	// CBOW predicts the center word from its surrounding context
	CBOW ExampleType = iota + 1
	// SkipGram predicts each context word from the center word
	SkipGram
)

// ErrUnknownExampleType is returned when an example type name is not recognised
var ErrUnknownExampleType = errors.New("unknown example type")

// String returns the command-line name of the example type
func (t ExampleType) String() string {
	switch t {
	case CBOW:
		return "cbow"
	case SkipGram:
		return "skipgram"
	default:
		return fmt.Sprintf("ExampleType(%d)", int(t))
	}
}

// Valid reports whether t is one of the known example types
func (t ExampleType) Valid() bool {
	return t == CBOW || t == SkipGram
}

// ParseExampleType maps "cbow" or "skipgram" to its ExampleType
func ParseExampleType(name string) (ExampleType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cbow":
		return CBOW, nil
	case "skipgram":
		return SkipGram, nil
	default:
		return 0, fmt.Errorf("%w: %q (must be cbow or skipgram)", ErrUnknownExampleType, name)
	}
}

// ExampleTypes lists every supported example type in a stable order
func ExampleTypes() []ExampleType {
	return []ExampleType{CBOW, SkipGram}
}

// Example is a single (context, target) training pair.
//
// For CBOW, Context holds the 2*radius surrounding words in window order and
// Center is the word to predict. For skip-gram, Context holds exactly one word
// and Center is the input word.
type Example struct {
	Type    ExampleType `json:"type"`
	Center  string      `json:"center"`
	Context []string    `json:"context"`
}

// String renders the example as its shard line (without the trailing newline)
func (e Example) String() string {
	return FormatExample(e)
}
