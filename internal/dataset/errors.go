package dataset

import (
	"fmt"
)

// MaxWindowSize is the exclusive upper bound for the window size
const MaxWindowSize = 20

// ValidationError reports a run parameter rejected before any file I/O
type ValidationError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// DecodeError reports a document whose bytes are not valid UTF-8 text
type DecodeError struct {
	Path   string
	Offset int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode %s as text: invalid UTF-8 at byte %d", e.Path, e.Offset)
}

// ValidateWindowSize accepts positive even sizes below MaxWindowSize
func ValidateWindowSize(size int) error {
	switch {
	case size <= 0:
		return &ValidationError{Field: "window_size", Value: size, Reason: "must be positive"}
	case size%2 != 0:
		return &ValidationError{Field: "window_size", Value: size, Reason: "must be even"}
	case size >= MaxWindowSize:
		return &ValidationError{Field: "window_size", Value: size, Reason: fmt.Sprintf("must be less than %d", MaxWindowSize)}
	}
	return nil
}
