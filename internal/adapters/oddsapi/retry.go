package oddsapi

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy is a bounded retry loop. Only errors accepted by Retryable
// are retried.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
	Retryable  func(error) bool
}

// NewRetryPolicy creates a policy retrying up to maxRetries times after the
// first attempt.
func NewRetryPolicy(maxRetries int, backoff time.Duration, retryable func(error) bool) RetryPolicy {
	return RetryPolicy{MaxRetries: max(0, maxRetries), Backoff: backoff, Retryable: retryable}
}

// Do runs fn until it succeeds, fails with a non-retryable error, or the
// retries are spent.
func (p RetryPolicy) Do(ctx context.Context, fn func(attempt int) error) error {
	var err error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if err = fn(attempt); err == nil {
			return nil
		}
		if p.Retryable == nil || !p.Retryable(err) {
			return err
		}
		if attempt == p.MaxRetries {
			break
		}
		if p.Backoff > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("retry interrupted: %w", ctx.Err())
			case <-time.After(p.Backoff):
			}
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", p.MaxRetries+1, err)
}
