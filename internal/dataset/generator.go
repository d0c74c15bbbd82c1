package dataset

import (
	"context"
	"errors"
	"time"

	"github.com/Caia-Tech/word2vec-corpus/pkg/logging"
	"github.com/Caia-Tech/word2vec-corpus/pkg/word2vec"
	"github.com/google/uuid"
)

// Options configures a generation run
type Options struct {
	DataPath           string               // directory of cleaned text documents
	OutputDir          string               // existing shard directory for ExampleType
	ExampleType        word2vec.ExampleType // CBOW or SkipGram
	WindowSize         int                  // even, 0 < size < MaxWindowSize
	MaxExamplesPerFile int                  // shard capacity
	RunID              string               // generated when empty
}

// Radius is the number of context words on each side of the center
func (o *Options) Radius() int {
	return o.WindowSize / 2
}

// Validate checks the options without touching the filesystem
func (o *Options) Validate() error {
	if !o.ExampleType.Valid() {
		return &ValidationError{Field: "example_type", Value: o.ExampleType, Reason: "must be cbow or skipgram"}
	}
	if err := ValidateWindowSize(o.WindowSize); err != nil {
		return err
	}
	if o.MaxExamplesPerFile <= 0 {
		return &ValidationError{Field: "max_examples_per_file", Value: o.MaxExamplesPerFile, Reason: "must be positive"}
	}
	if o.DataPath == "" {
		return &ValidationError{Field: "data_path", Value: `""`, Reason: "is required"}
	}
	if o.OutputDir == "" {
		return &ValidationError{Field: "output_dir", Value: `""`, Reason: "is required"}
	}
	return nil
}

// Generate turns every document in opts.DataPath into examples and writes
// them to shards in opts.OutputDir. Documents are visited in name order and
// shards fill in order across documents. Documents that are not valid UTF-8
// are skipped. The last shard is always closed, including on error.
func Generate(ctx context.Context, opts Options) (stats *Stats, err error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.RunID == "" {
		opts.RunID = uuid.New().String()
	}

	start := time.Now()
	logger := logging.GetRunLogger("generate-dataset", opts.RunID)

	stats = &Stats{
		RunID:       opts.RunID,
		ExampleType: opts.ExampleType.String(),
		Skipped:     []string{},
		Shards:      []string{},
	}

	paths, err := ListDocuments(opts.DataPath)
	if err != nil {
		return nil, err
	}

	writer, err := NewShardWriter(opts.OutputDir, opts.MaxExamplesPerFile)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := writer.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		stats.Shards = writer.Shards()
		stats.Duration = time.Since(start)
	}()

	logger.Info().
		Str("data_path", opts.DataPath).
		Str("output_dir", opts.OutputDir).
		Str("example_type", opts.ExampleType.String()).
		Int("window_size", opts.WindowSize).
		Int("documents", len(paths)).
		Msg("Generating examples")

	radius := opts.Radius()
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		doc, err := ReadDocument(path)
		if err != nil {
			var decodeErr *DecodeError
			if errors.As(err, &decodeErr) {
				logger.Warn().Err(err).Str("document", path).Msg("Skipping undecodable document")
				stats.Skipped = append(stats.Skipped, path)
				continue
			}
			return stats, err
		}

		tokens := doc.Tokens()
		before := writer.Total()
		if err := word2vec.EachExample(tokens, radius, opts.ExampleType, writer.Emit); err != nil {
			return stats, err
		}
		emitted := writer.Total() - before
		stats.recordDocument(word2vec.WindowCount(len(tokens), radius), emitted)

		logger.Debug().
			Str("document", path).
			Int("tokens", len(tokens)).
			Int("examples", emitted).
			Msg("Document processed")
	}

	if err := writer.Close(); err != nil {
		return stats, err
	}
	stats.Shards = writer.Shards()
	stats.Duration = time.Since(start)

	logger.Info().Object("stats", stats).Msg("Example generation completed")
	return stats, nil
}
