package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errPermanent = errors.New("permanent failure")

func TestRetryableError(t *testing.T) {
	inner := errors.New("connection reset")
	err := &RetryableError{Err: inner}

	if err.Error() != inner.Error() {
		t.Errorf("Error() = %q, want %q", err.Error(), inner.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("RetryableError should unwrap to inner error")
	}
	if isRetryable(errPermanent) {
		t.Error("plain error should not be retryable")
	}
	if !isRetryable(err) {
		t.Error("RetryableError should be retryable")
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return errPermanent
	})
	if !errors.Is(err, errPermanent) {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries until success
	calls = 0
	err = Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return &RetryableError{Err: errors.New("transient")}
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}

	// Exhausted attempts return the last error
	finalErr := errors.New("still down")
	calls = 0
	err = Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return &RetryableError{Err: finalErr}
	})
	if !errors.Is(err, finalErr) {
		t.Errorf("Should return last error after exhausting attempts: %v", err)
	}
	if calls != 3 {
		t.Errorf("Should attempt exactly 3 times: %d", calls)
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := Retry(ctx, 3, time.Millisecond, func() error {
		return &RetryableError{Err: errors.New("transient")}
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestRetryMinimumAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 0, time.Millisecond, func() error {
		calls++
		return errPermanent
	})
	if err == nil {
		t.Error("Should return the error")
	}
	if calls != 1 {
		t.Errorf("Zero attempts should clamp to one call: %d", calls)
	}
}
