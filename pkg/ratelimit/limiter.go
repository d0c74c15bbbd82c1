package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// SourceRateLimiter spaces out requests per named source and backs off
// after repeated errors.
type SourceRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*SourceLimiter
	now      func() time.Time
}

// SourceLimiter tracks rate limits for a specific source
type SourceLimiter struct {
	name            string
	minInterval     time.Duration
	lastRequestTime time.Time
	backoffUntil    time.Time
	backoffStep     time.Duration
	maxBackoff      time.Duration
	requestCount    int64
	errorCount      int64
}

// SourceStats contains statistics for a source
type SourceStats struct {
	MinInterval     time.Duration
	RequestCount    int64
	ErrorCount      int64
	LastRequestTime time.Time
	InBackoff       bool
	BackoffUntil    time.Time
}

// errorsBeforeBackoff consecutive errors are tolerated before backing off
const errorsBeforeBackoff = 3

// NewSourceRateLimiter creates an empty limiter; register sources before use
func NewSourceRateLimiter() *SourceRateLimiter {
	return &SourceRateLimiter{
		limiters: make(map[string]*SourceLimiter),
		now:      time.Now,
	}
}

// RegisterSource sets the minimum spacing between requests to source.
// Backoff after repeated errors grows by backoffStep per error up to maxBackoff;
// a zero backoffStep disables it.
func (r *SourceRateLimiter) RegisterSource(source string, minInterval, backoffStep, maxBackoff time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.limiters[source]; ok {
		existing.minInterval = minInterval
		existing.backoffStep = backoffStep
		existing.maxBackoff = maxBackoff
		return
	}
	r.limiters[source] = &SourceLimiter{
		name:        source,
		minInterval: minInterval,
		backoffStep: backoffStep,
		maxBackoff:  maxBackoff,
	}
}

// SetMinInterval raises or lowers the spacing for an already registered source
func (r *SourceRateLimiter) SetMinInterval(source string, minInterval time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	limiter, exists := r.limiters[source]
	if !exists {
		return fmt.Errorf("unknown source: %s", source)
	}
	limiter.minInterval = minInterval
	return nil
}

// WaitForSource blocks until it's safe to make a request to the source
func (r *SourceRateLimiter) WaitForSource(ctx context.Context, source string) error {
	r.mu.Lock()
	limiter, exists := r.limiters[source]
	if !exists {
		r.mu.Unlock()
		return fmt.Errorf("unknown source: %s", source)
	}

	now := r.now()
	var wait time.Duration

	if now.Before(limiter.backoffUntil) {
		wait = limiter.backoffUntil.Sub(now)
	}
	if !limiter.lastRequestTime.IsZero() {
		if since := now.Sub(limiter.lastRequestTime); since < limiter.minInterval && limiter.minInterval-since > wait {
			wait = limiter.minInterval - since
		}
	}

	if wait <= 0 {
		limiter.lastRequestTime = now
		limiter.requestCount++
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-timer.C:
		r.mu.Lock()
		limiter.lastRequestTime = r.now()
		limiter.requestCount++
		r.mu.Unlock()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RecordError records an error and potentially triggers backoff
func (r *SourceRateLimiter) RecordError(source string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	limiter, exists := r.limiters[source]
	if !exists {
		return
	}

	limiter.errorCount++

	if limiter.backoffStep > 0 && limiter.errorCount > errorsBeforeBackoff {
		backoff := time.Duration(limiter.errorCount-errorsBeforeBackoff) * limiter.backoffStep
		if limiter.maxBackoff > 0 && backoff > limiter.maxBackoff {
			backoff = limiter.maxBackoff
		}
		limiter.backoffUntil = r.now().Add(backoff)
	}
}

// RecordSuccess resets error count for a source
func (r *SourceRateLimiter) RecordSuccess(source string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limiter, exists := r.limiters[source]; exists {
		limiter.errorCount = 0
		limiter.backoffUntil = time.Time{}
	}
}

// GetStats returns statistics for all sources
func (r *SourceRateLimiter) GetStats() map[string]SourceStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	stats := make(map[string]SourceStats, len(r.limiters))
	for name, limiter := range r.limiters {
		stats[name] = SourceStats{
			MinInterval:     limiter.minInterval,
			RequestCount:    limiter.requestCount,
			ErrorCount:      limiter.errorCount,
			LastRequestTime: limiter.lastRequestTime,
			InBackoff:       now.Before(limiter.backoffUntil),
			BackoffUntil:    limiter.backoffUntil,
		}
	}
	return stats
}
