package scraping

import (
	"fmt"
)

// NetworkError reports a failed request or a non-success HTTP status
type NetworkError struct {
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ParseError reports a page that lacks the expected article structure
type ParseError struct {
	URL    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse article %s: %s", e.URL, e.Reason)
}

// ComplianceError reports an article path that robots.txt disallows for our agent
type ComplianceError struct {
	URL string
}

func (e *ComplianceError) Error() string {
	return fmt.Sprintf("robots.txt disallows %s", e.URL)
}
