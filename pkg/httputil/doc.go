// Package httputil provides HTTP utilities for calendar feed clients.
//
// # Overview
//
// This package provides infrastructure used when fetching remote
// calendars:
//
//   - [Cache]: File-based HTTP response caching
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores HTTP responses in the filesystem (~/.cache/timegrid/)
// with configurable TTL. Subscribed feeds rarely change between
// invocations, so caching avoids refetching the same calendar on every
// command.
//
// Usage:
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	ok, _ := cache.Get("feed:"+url, &body)  // Check cache
//	if !ok {
//	    body = fetchFromFeed()
//	    cache.Set("feed:"+url, body)        // Store for later
//	}
//
// Cache keys should be namespaced by source to avoid collisions.
//
// # Retry
//
// [Retry] wraps operations with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//
// It uses exponential backoff to avoid hammering a struggling server:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetchFeed(url)
//	})
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/timegrid/
//   - Default TTL: 24 hours
//   - Max retries: 3
//   - Base backoff: 1 second
//
// The cache can be cleared via `timegrid cache clear` or by deleting
// the cache directory.
package httputil
