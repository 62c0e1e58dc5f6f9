// Package feed fetches remote iCalendar feeds over HTTP.
//
// # Overview
//
// A feed is a published calendar reachable by URL, the kind calendar
// apps call a subscription. This package retrieves feed bodies with
// response caching and retry, and decodes them into events:
//
//	client := feed.NewClient(cache)
//	events, err := client.Fetch(ctx, "webcal://example.com/team.ics", false)
//
// The webcal and webcals schemes that calendar apps hand out resolve to
// HTTPS before fetching.
//
// # Caching and Retry
//
// Feed bodies are cached by URL through [httputil.Cache], so repeated
// commands against the same subscription hit the network once per TTL.
// Pass refresh=true to [Client.Fetch] to bypass the cache. Transient
// failures (network errors, 5xx responses) retry with exponential
// backoff via [httputil.RetryWithBackoff]; a 404 fails immediately with
// [ErrNotFound].
//
// [httputil.Cache]: github.com/matzehuels/timegrid/pkg/httputil
// [httputil.RetryWithBackoff]: github.com/matzehuels/timegrid/pkg/httputil
package feed
