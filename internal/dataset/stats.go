package dataset

import (
	"time"

	"github.com/rs/zerolog"
)

// Stats summarises one generation run
type Stats struct {
	RunID       string        `json:"run_id"`
	ExampleType string        `json:"example_type"`
	Documents   int           `json:"documents"` // decoded and windowed
	Skipped     []string      `json:"skipped"`   // undecodable documents
	Windows     int           `json:"windows"`
	Examples    int           `json:"examples"`
	Shards      []string      `json:"shards"`
	Duration    time.Duration `json:"duration"`
}

// recordDocument adds one decoded document's windows and examples
func (s *Stats) recordDocument(windows, examples int) {
	s.Documents++
	s.Windows += windows
	s.Examples += examples
}

// MarshalZerologObject lets a Stats value be logged with Object()
func (s *Stats) MarshalZerologObject(e *zerolog.Event) {
	e.Str("run_id", s.RunID).
		Str("example_type", s.ExampleType).
		Int("documents", s.Documents).
		Int("skipped", len(s.Skipped)).
		Int("windows", s.Windows).
		Int("examples", s.Examples).
		Int("shards", len(s.Shards)).
		Dur("duration", s.Duration)
}
