package httputil

import (
	"context"
	"errors"
	"time"
)

// maxRetryDelay caps the doubling backoff. Inference runs already take tens
// of seconds, so longer waits between attempts help nobody.
const maxRetryDelay = 30 * time.Second

// RetryableError marks a failure as transient. The upstream client wraps
// network errors and retryable statuses from the inference backend (429,
// 5xx) in this type; any other error ends the retry loop on the spot.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry runs fn until it succeeds, fails with a non-retryable error, or
// attempts run out, returning the last error in that case. The wait between
// attempts starts at delay, doubles each time, and is capped at 30 seconds;
// cancelling ctx during a wait returns ctx.Err(). Attempts below 1 clamp
// to 1.
//
// Inference calls are slow and billed per run, so callers should keep
// attempts small: the retry exists to ride out a restarting backend, not to
// poll a dead one.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		lastErr = err

		if attempt == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		if delay *= 2; delay > maxRetryDelay {
			delay = maxRetryDelay
		}
	}
	return lastErr
}

func isRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}
