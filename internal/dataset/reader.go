package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/Caia-Tech/word2vec-corpus/pkg/document"
	"github.com/rs/zerolog/log"
)

// ListDocuments returns the regular files of dir in lexical name order.
// Subdirectories are not descended into.
func ListDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents in %s: %w", dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			log.Debug().Str("dir", filepath.Join(dir, entry.Name())).Msg("Skipping subdirectory")
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}

// ReadDocument loads a document and checks that it is valid UTF-8.
// Undecodable content is reported as a *DecodeError.
func ReadDocument(path string) (*document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}

	if !utf8.Valid(data) {
		return nil, &DecodeError{Path: path, Offset: firstInvalidByte(data)}
	}

	return &document.Document{Path: path, Text: string(data)}, nil
}

func firstInvalidByte(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(data)
}
