package word2vec

import (
	"fmt"
	"strings"
)

// Tokenize splits text on runs of whitespace
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// WindowCount returns how many center positions a sequence of length n has
// for the given radius.
func WindowCount(n, radius int) int {
	if radius < 1 || n <= 2*radius {
		return 0
	}
	return n - 2*radius
}

// EachExample walks every full window of tokens in ascending center order and
// calls emit for each example it produces. Positions without radius words on
// both sides are skipped. The first error returned by emit stops the walk.
func EachExample(tokens []string, radius int, typ ExampleType, emit func(Example) error) error {
	if radius < 1 {
		return fmt.Errorf("radius must be at least 1, got %d", radius)
	}
	if !typ.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownExampleType, typ)
	}

	for i := radius; i < len(tokens)-radius; i++ {
		context := make([]string, 0, 2*radius)
		context = append(context, tokens[i-radius:i]...)
		context = append(context, tokens[i+1:i+radius+1]...)

		if typ == CBOW {
			if err := emit(Example{Type: CBOW, Center: tokens[i], Context: context}); err != nil {
				return err
			}
			continue
		}

		for _, word := range context {
			if err := emit(Example{Type: SkipGram, Center: tokens[i], Context: []string{word}}); err != nil {
				return err
			}
		}
	}
	return nil
}

// BuildExamples returns every example for tokens in emission order.
// A sequence of 2*radius tokens or fewer yields no examples.
func BuildExamples(tokens []string, radius int, typ ExampleType) ([]Example, error) {
	perWindow := 1
	if typ == SkipGram {
		perWindow = 2 * radius
	}
	examples := make([]Example, 0, WindowCount(len(tokens), radius)*perWindow)

	err := EachExample(tokens, radius, typ, func(ex Example) error {
		examples = append(examples, ex)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return examples, nil
}

// TextToExamples tokenizes text and builds its examples
func TextToExamples(text string, radius int, typ ExampleType) ([]Example, error) {
	return BuildExamples(Tokenize(text), radius, typ)
}
