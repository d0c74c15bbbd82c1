package dataset

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Caia-Tech/word2vec-corpus/pkg/word2vec"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ShardPath returns the file for the 1-based shard counter inside dir
func ShardPath(dir string, counter int) string {
	return filepath.Join(dir, fmt.Sprintf("%03d.txt", counter))
}

// ShardWriter appends examples to numbered shard files holding at most
// maxPerShard lines each. A shard file is created when its first example
// arrives and is closed for good once full. Only one file is open at a time.
type ShardWriter struct {
	dir         string
	maxPerShard int
	logger      zerolog.Logger

	next  int // counter of the next shard to open
	count int // examples in the open shard
	file  *os.File
	buf   *bufio.Writer

	shards []string
	total  int
	closed bool
}

// NewShardWriter prepares a writer for dir, which must already exist
func NewShardWriter(dir string, maxPerShard int) (*ShardWriter, error) {
	if maxPerShard <= 0 {
		return nil, &ValidationError{Field: "max_examples_per_file", Value: maxPerShard, Reason: "must be positive"}
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("output directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("output directory %s is not a directory", dir)
	}

	return &ShardWriter{
		dir:         dir,
		maxPerShard: maxPerShard,
		logger:      log.With().Str("component", "shard_writer").Str("dir", dir).Logger(),
		next:        1,
	}, nil
}

// Emit writes one example as a line of the current shard, opening a shard
// first if none is open and closing it once it reaches capacity.
func (w *ShardWriter) Emit(ex word2vec.Example) error {
	if w.closed {
		return fmt.Errorf("shard writer for %s is closed", w.dir)
	}

	if w.file == nil {
		if err := w.open(); err != nil {
			return err
		}
	}

	if _, err := w.buf.WriteString(word2vec.FormatExample(ex)); err != nil {
		return w.fail(err)
	}
	if err := w.buf.WriteByte('\n'); err != nil {
		return w.fail(err)
	}
	w.count++
	w.total++

	if w.count >= w.maxPerShard {
		return w.rollover()
	}
	return nil
}

// Close flushes and closes the open shard, if any. It is safe to call more than once.
func (w *ShardWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.closeCurrent()
}

// Shards lists the shard files created so far, in creation order
func (w *ShardWriter) Shards() []string {
	out := make([]string, len(w.shards))
	copy(out, w.shards)
	return out
}

// Total is the number of examples written so far
func (w *ShardWriter) Total() int {
	return w.total
}

func (w *ShardWriter) open() error {
	path := ShardPath(w.dir, w.next)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create shard %s: %w", path, err)
	}

	w.file = f
	w.buf = bufio.NewWriter(f)
	w.count = 0
	w.next++
	w.shards = append(w.shards, path)

	w.logger.Debug().Str("shard", path).Msg("Opened shard")
	return nil
}

func (w *ShardWriter) rollover() error {
	full := w.file.Name()
	if err := w.closeCurrent(); err != nil {
		return err
	}
	w.logger.Debug().Str("shard", full).Int("examples", w.maxPerShard).Msg("Shard full")
	return nil
}

func (w *ShardWriter) closeCurrent() error {
	if w.file == nil {
		return nil
	}

	flushErr := w.buf.Flush()
	closeErr := w.file.Close()
	name := w.file.Name()
	w.file = nil
	w.buf = nil
	w.count = 0

	if flushErr != nil {
		return fmt.Errorf("failed to flush shard %s: %w", name, flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close shard %s: %w", name, closeErr)
	}
	return nil
}

// fail releases the open shard after a write error and reports the original error
func (w *ShardWriter) fail(err error) error {
	name := w.file.Name()
	_ = w.closeCurrent()
	w.closed = true
	return fmt.Errorf("failed to write shard %s: %w", name, err)
}
