// Command generate-dataset turns cleaned text documents into CBOW or
// skip-gram training examples sharded into fixed-size files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Caia-Tech/word2vec-corpus/internal/dataset"
	"github.com/Caia-Tech/word2vec-corpus/internal/metrics"
	"github.com/Caia-Tech/word2vec-corpus/pkg/logging"
	"github.com/Caia-Tech/word2vec-corpus/pkg/pipeline"
	"github.com/Caia-Tech/word2vec-corpus/pkg/word2vec"
)

const (
	exitOK         = 0
	exitRunFailure = 1
	exitUsage      = 2
)

type options struct {
	dataPath    string
	exampleType string
	windowSize  int
	root        string
	configPath  string
	logLevel    string
	metricsFile string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("generate-dataset", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.dataPath, "data_path", "", "directory of cleaned text documents")
	fs.StringVar(&opts.dataPath, "d", "", "shorthand for --data_path")
	fs.StringVar(&opts.exampleType, "example_type", "", "example type: cbow or skipgram")
	fs.StringVar(&opts.exampleType, "e", "", "shorthand for --example_type")
	fs.IntVar(&opts.windowSize, "window_size", 0, fmt.Sprintf("even window size, 0 < size < %d", dataset.MaxWindowSize))
	fs.IntVar(&opts.windowSize, "w", 0, "shorthand for --window_size")
	fs.StringVar(&opts.root, "root", "", "project root the shard directories resolve against")
	fs.StringVar(&opts.configPath, "config", "", "JSON config file overlaid on the defaults")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "write run metrics in Prometheus text format to this file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if opts.dataPath == "" {
		return nil, fmt.Errorf("--data_path is required")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "generate-dataset: %v\n", err)
		return exitUsage
	}

	config, err := pipeline.LoadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "generate-dataset: %v\n", err)
		return exitUsage
	}
	if opts.root != "" {
		config.Paths.Root = opts.root
	}
	if opts.logLevel != "" {
		config.Logging.Level = opts.logLevel
	}
	if opts.metricsFile != "" {
		config.Metrics.TextfilePath = opts.metricsFile
	}
	if err := logging.SetupLogger(config.Logging); err != nil {
		fmt.Fprintf(stderr, "generate-dataset: failed to setup logging: %v\n", err)
		return exitUsage
	}

	exampleType, err := word2vec.ParseExampleType(opts.exampleType)
	if err != nil {
		fmt.Fprintf(stderr, "generate-dataset: %v\n", &dataset.ValidationError{
			Field: "example_type", Value: opts.exampleType, Reason: "must be cbow or skipgram",
		})
		return exitUsage
	}
	if err := dataset.ValidateWindowSize(opts.windowSize); err != nil {
		fmt.Fprintf(stderr, "generate-dataset: %v\n", err)
		return exitUsage
	}

	outputDir, err := config.Paths.ExamplesDir(exampleType)
	if err != nil {
		fmt.Fprintf(stderr, "generate-dataset: %v\n", err)
		return exitUsage
	}

	logger := logging.GetLogger("generate-dataset")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		logger.Error().Err(err).Str("dir", outputDir).Msg("Failed to create output directory")
		return exitRunFailure
	}

	stats, err := dataset.Generate(ctx, dataset.Options{
		DataPath:           opts.dataPath,
		OutputDir:          outputDir,
		ExampleType:        exampleType,
		WindowSize:         opts.windowSize,
		MaxExamplesPerFile: config.Dataset.MaxExamplesPerFile,
	})
	if path := config.Metrics.TextfilePath; path != "" {
		runMetrics := metrics.New()
		runMetrics.RecordGeneration(stats, err)
		if writeErr := runMetrics.WriteTextfile(path); writeErr != nil {
			logger.Warn().Err(writeErr).Msg("Failed to export run metrics")
		}
	}
	if err != nil {
		var validationErr *dataset.ValidationError
		if errors.As(err, &validationErr) {
			fmt.Fprintf(stderr, "generate-dataset: %v\n", err)
			return exitUsage
		}
		logger.Error().Err(err).Msg("Example generation failed")
		return exitRunFailure
	}

	logger.Info().
		Int("examples", stats.Examples).
		Int("shards", len(stats.Shards)).
		Str("output_dir", outputDir).
		Msg("Done")
	return exitOK
}
