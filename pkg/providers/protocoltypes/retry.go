package protocoltypes

import (
	"context"
	"time"
)

// RetryPolicy bounds a provider call: at most MaxAttempts total attempts with
// a linear backoff of BackoffBase×attempt between them.
type RetryPolicy struct {
	MaxAttempts int
	BackoffBase time.Duration
}

// DefaultRetryPolicy matches the configured defaults: 3 attempts, 200ms base.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BackoffBase: 200 * time.Millisecond}
}

// Retry runs call up to policy.MaxAttempts times. Only failures for which
// transient returns true are retried; anything else is terminal on first
// occurrence. The backoff wait observes ctx and returns ctx.Err() when it
// fires first. The last failure is returned once attempts are exhausted.
func Retry(ctx context.Context, policy RetryPolicy, call func() error, transient func(error) bool) error {
	attempts := policy.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = call()
		if lastErr == nil {
			return nil
		}
		if !transient(lastErr) || attempt == attempts {
			return lastErr
		}

		timer := time.NewTimer(time.Duration(attempt) * policy.BackoffBase)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
