package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Caia-Tech/word2vec-corpus/pkg/document"
)

// maxFileNameBytes keeps sanitized names, plus the .txt suffix, under common filesystem limits
const maxFileNameBytes = 200

// FileStore writes one text file per article into an existing directory
type FileStore struct {
	dir     string
	metrics MetricsCollector
}

// NewFileStore creates a store for dir, which must already exist
func NewFileStore(dir string, metrics MetricsCollector) (*FileStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("article directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("article directory %s is not a directory", dir)
	}
	return &FileStore{dir: dir, metrics: metrics}, nil
}

// Dir returns the directory articles are written to
func (fs *FileStore) Dir() string {
	return fs.dir
}

// PathFor returns the file an article with title is stored in
func (fs *FileStore) PathFor(title string) string {
	return filepath.Join(fs.dir, SanitizeTitle(title)+".txt")
}

// Persist writes the article's cleaned text, replacing any same-titled article
func (fs *FileStore) Persist(ctx context.Context, article *document.Article) (string, error) {
	start := time.Now()
	path, err := fs.persist(ctx, article)
	recordMetric(fs.metrics, "filesystem", "persist", start, err)
	return path, err
}

func (fs *FileStore) persist(ctx context.Context, article *document.Article) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := article.Validate(); err != nil {
		return "", fmt.Errorf("article validation failed: %w", err)
	}

	path := fs.PathFor(article.Title)
	if err := writeFileAtomic(path, []byte(article.Text)); err != nil {
		return "", err
	}
	return path, nil
}

// writeFileAtomic writes data to a temporary file in the same directory and renames it into place
func writeFileAtomic(dest string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync %s: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close %s: %w", dest, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to chmod %s: %w", dest, err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to move %s into place: %w", dest, err)
	}
	return nil
}

// SanitizeTitle turns an article title into a safe file name (without extension).
// Path separators, reserved characters and control characters become '_',
// leading and trailing dots and spaces are trimmed, and the result is capped
// at maxFileNameBytes without splitting a UTF-8 sequence.
func SanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('_')
		case unicode.IsControl(r) || r == utf8.RuneError:
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	name := strings.Trim(b.String(), ". ")
	if len(name) > maxFileNameBytes {
		cut := maxFileNameBytes
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = strings.TrimRight(name[:cut], ". ")
	}
	if name == "" {
		return "untitled"
	}
	return name
}
