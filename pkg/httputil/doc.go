// Package httputil provides HTTP utilities for the upstream inference client.
//
// # Overview
//
// This package provides infrastructure shared by HTTP-facing components:
//
//   - [Cache]: File-based HTTP response caching
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores HTTP responses in the filesystem (~/.cache/tracil/) with
// configurable TTL. Lineage analysis calls to the inference backend are slow
// and expensive, so repeated queries for the same variable should not leave
// the machine.
//
// Usage:
//
//	cache, err := httputil.NewCache("", time.Hour)
//	ok, err := cache.Get("upstream:ADSL:AGE", &envelope)
//	if !ok {
//	    envelope = fetchFromBackend()
//	    cache.Set("upstream:ADSL:AGE", envelope)
//	}
//
// Cache keys should be namespaced per data source to avoid collisions.
//
// # Retry
//
// [Retry] wraps calls with automatic retry for transient failures. Wrap
// errors in [RetryableError] to mark them transient:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Non-retryable errors (4xx, decode failures) return immediately. The delay
// doubles after each failed attempt, capped at 30 seconds.
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/tracil/
//   - Retry attempts: 3 (the upstream client's default)
//   - Initial backoff: 1 second
//
// The cache can be cleared via `tracil cache clear` or by deleting the
// cache directory.
package httputil
