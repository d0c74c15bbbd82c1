package storage

import (
	"context"

	"github.com/Caia-Tech/word2vec-corpus/pkg/document"
)

// ArticleStorage persists cleaned articles and returns the written path
type ArticleStorage interface {
	Persist(ctx context.Context, article *document.Article) (string, error)
}

// StorageMetrics provides telemetry for storage operations
type StorageMetrics struct {
	OperationType string
	Duration      int64 // nanoseconds
	Success       bool
	Backend       string
	Error         error
}

// MetricsCollector receives storage operation metrics
type MetricsCollector interface {
	RecordMetric(metric StorageMetrics)
}

var (
	_ ArticleStorage   = (*FileStore)(nil)
	_ ArticleStorage   = (*GitStore)(nil)
	_ MetricsCollector = (*SimpleMetricsCollector)(nil)
)
