package core

import (
	"context"
	"fmt"
	"math"
	"time"
)

// RetryPolicy bounds an unreliable external call with exponential backoff.
// One policy instance is applied uniformly to every agent call site.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	MaxDelay    time.Duration
}

// DefaultRetryPolicy matches the pipeline's historical backoff schedule:
// three attempts with 1s, 2s delays between them.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
		Multiplier:  2.0,
		MaxDelay:    30 * time.Second,
	}
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	d := float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt-1))
	if d > float64(p.MaxDelay) {
		d = float64(p.MaxDelay)
	}
	return time.Duration(d)
}

// Do runs op up to MaxAttempts times, sleeping with exponential backoff
// between attempts. The backoff sleep honors context cancellation. The
// last error is returned once attempts are exhausted; it never panics
// past this boundary.
func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.delay(attempt - 1)):
			}
		}

		if lastErr = op(); lastErr == nil {
			return nil
		}
	}

	return fmt.Errorf("operation failed after %d attempts: %w", p.MaxAttempts, lastErr)
}
