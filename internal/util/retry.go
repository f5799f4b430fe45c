// ABOUTME: Retry policy for unreliable I/O with exponential backoff
// ABOUTME: Injected into any component that wraps store or file operations
package util

import (
	"fmt"
	"time"
)

// RetryPolicy describes how an operation is retried. The delay doubles
// (or scales by Multiplier) after each failed attempt; there is no jitter,
// which is acceptable at this pipeline's concurrency level.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
}

// DefaultRetryPolicy matches the pipeline configuration defaults.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 250 * time.Millisecond, Multiplier: 2.0}
}

// maxBackoff caps the delay between attempts.
const maxBackoff = 30 * time.Second

// Backoff returns the delay before the given attempt (1-based). Attempt 1
// runs immediately; attempt 2 waits BaseDelay; each later attempt scales by
// Multiplier, capped at maxBackoff. The cap is applied while the delay is
// still a float so large attempt numbers cannot overflow time.Duration.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}
	delay := float64(p.BaseDelay)
	for i := 2; i < attempt; i++ {
		delay *= p.Multiplier
		if delay >= float64(maxBackoff) {
			return maxBackoff
		}
	}
	if delay >= float64(maxBackoff) {
		return maxBackoff
	}
	return time.Duration(delay)
}

// Do runs op up to MaxAttempts times, sleeping the backoff delay between
// attempts. The final error is returned unwrapped so callers can annotate it.
func (p RetryPolicy) Do(op func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		time.Sleep(p.Backoff(attempt))
		if err = op(); err == nil {
			return nil
		}
	}
	return err
}

// AnnotateFailure wraps a retry-exhausted error with the operation name,
// record id, and timestamp so callers can tell systemic failures from a
// single bad record without re-deriving context.
func AnnotateFailure(op, recordID string, err error) error {
	return fmt.Errorf("%s failed for %s at %s: %w", op, recordID, time.Now().Format(time.RFC3339), err)
}
