package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/timegrid/pkg/event"
	"github.com/matzehuels/timegrid/pkg/httputil"
	"github.com/matzehuels/timegrid/pkg/store"
)

const httpTimeout = 10 * time.Second

// DefaultTTL is how long fetched feed bodies stay fresh in the cache.
const DefaultTTL = 24 * time.Hour

var (
	// ErrNotFound is returned when the feed URL does not exist.
	ErrNotFound = errors.New("feed not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// Client fetches iCalendar feeds. It handles caching, retry logic and
// scheme normalization.
type Client struct {
	http  *http.Client
	cache *httputil.Cache
}

// NewClient creates a Client backed by the given cache.
// Pass nil to disable caching; every Fetch then hits the network.
func NewClient(cache *httputil.Cache) *Client {
	return &Client{
		http:  NewHTTPClient(),
		cache: cache,
	}
}

// NewHTTPClient creates an HTTP client with a standard timeout for feed requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NewCache creates a file-based cache with the given TTL in the default cache directory.
// See [httputil.NewCache] for details on cache location and behavior.
func NewCache(ttl time.Duration) (*httputil.Cache, error) {
	return httputil.NewCache("", ttl)
}

// IsURL reports whether s names a remote feed rather than a local file.
func IsURL(s string) bool {
	for _, scheme := range []string{"http://", "https://", "webcal://", "webcals://"} {
		if strings.HasPrefix(s, scheme) {
			return true
		}
	}
	return false
}

// NormalizeURL converts a subscription address to fetchable form.
// The webcal and webcals schemes resolve to HTTPS; http and https pass
// through unchanged. Other schemes are rejected.
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("parse feed url %q: %w", raw, err)
	}
	switch u.Scheme {
	case "http", "https":
	case "webcal", "webcals":
		u.Scheme = "https"
	default:
		return "", fmt.Errorf("unsupported feed scheme %q", u.Scheme)
	}
	return u.String(), nil
}

// Fetch retrieves the feed at rawURL and decodes its events.
// Bodies are cached by URL; if refresh is true, the cache is bypassed
// and the feed is always refetched. The decoded events follow the
// [store.ReadICS] mapping.
func (c *Client) Fetch(ctx context.Context, rawURL string, refresh bool) ([]event.Event, error) {
	feedURL, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	body, err := c.body(ctx, feedURL, refresh)
	if err != nil {
		return nil, err
	}

	events, err := store.ReadICS(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}
	return events, nil
}

// body returns the feed text from the cache or the network.
func (c *Client) body(ctx context.Context, feedURL string, refresh bool) (string, error) {
	key := "feed:" + feedURL
	if !refresh && c.cache != nil {
		var cached string
		if ok, _ := c.cache.Get(key, &cached); ok {
			return cached, nil
		}
	}

	var body string
	err := httputil.RetryWithBackoff(ctx, func() error {
		b, err := c.Get(ctx, feedURL)
		body = b
		return err
	})
	if err != nil {
		return "", err
	}

	if c.cache != nil {
		_ = c.cache.Set(key, body)
	}
	return body, nil
}

// Get performs a single GET of feedURL and returns the response body.
// Transport failures and 5xx responses come back wrapped as
// [httputil.RetryableError]; a 404 maps to [ErrNotFound].
func (c *Client) Get(ctx context.Context, feedURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/calendar")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return "", err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	return string(data), nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
