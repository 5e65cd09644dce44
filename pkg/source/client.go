package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/exchangekit/excheck/pkg/cache"
)

var (
	// ErrNotFound is returned for a 404 from an upstream document.
	ErrNotFound = errors.New("not found")

	// ErrStatus is returned for any other non-200 upstream response.
	ErrStatus = errors.New("unexpected status")
)

// Client fetches upstream documents, caching raw response bodies keyed by
// URL. The upstream tables change at most a few times a month, so repeated
// scan and check runs within the TTL never hit the network.
type Client struct {
	http  *http.Client
	cache cache.Cache
	ttl   time.Duration
}

// NewClient creates a client over the given cache. A nil cache disables
// caching.
func NewClient(c cache.Cache, ttl time.Duration) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:  &http.Client{Timeout: 60 * time.Second},
		cache: c,
		ttl:   ttl,
	}
}

// GetText fetches url and returns the response body, serving from cache
// when possible. With refresh set, the cache is bypassed (and refilled).
func (c *Client) GetText(ctx context.Context, url string, refresh bool) (string, error) {
	if !refresh {
		if data, hit, err := c.cache.Get(ctx, url); err == nil && hit {
			return string(data), nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", ErrNotFound, url)
	default:
		return "", fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	_ = c.cache.Set(ctx, url, body, c.ttl)
	return string(body), nil
}
