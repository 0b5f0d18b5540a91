// Package fetch provides the HTTP layer used to pull venue calendar pages.
// Transient failures (network errors, 5xx responses) are retried with
// exponential backoff; anything else fails fast. Bodies are decoded with
// charset awareness since several venue sites still serve Latin-1.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/electric-relaxation/concert-playlist/internal/textutil"
)

const (
	UserAgent = "showsync/1.0 (github.com/electric-relaxation/concert-playlist)"
	Timeout   = 30 * time.Second

	maxRetries = 3
)

// Client fetches calendar pages.
type Client struct {
	httpClient *http.Client
}

// New creates a new fetch client with the default timeout.
func New() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: Timeout,
		},
	}
}

// NewWithHTTPClient creates a fetch client around an existing http.Client.
// Used by tests to point at a local server.
func NewWithHTTPClient(hc *http.Client) *Client {
	return &Client{httpClient: hc}
}

// GetHTML fetches a page and returns its decoded body. Network errors and
// 5xx responses are retried; 4xx responses are permanent failures.
func (c *Client) GetHTML(pageURL string) (string, error) {
	var body string

	op := func() error {
		req, err := http.NewRequest(http.MethodGet, pageURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("User-Agent", UserAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("fetching page: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
		}

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading body: %w", err)
		}

		body = textutil.DecodeBody(raw, resp.Header.Get("Content-Type"))
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries)
	if err := backoff.Retry(op, policy); err != nil {
		return "", err
	}
	return body, nil
}
