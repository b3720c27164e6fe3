// Package archive speaks the LAMOST data-release HTTP contract: one GET per
// spectrum, authenticated with an opaque access token, returning the FITS
// payload as bytes. Retry policy lives with the caller; the client only
// classifies failures as retriable or not.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// APIError represents a non-2xx response from the archive.
type APIError struct {
	StatusCode int
	Body       string // first 512 bytes
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Retriable reports whether the failure class is worth another attempt.
// Server errors and rate limiting are transient; auth rejections and
// missing identifiers are not.
func (e *APIError) Retriable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// ErrEmptyPayload marks a 2xx response with no body. The archive serves
// these intermittently under load, so it is treated as a server fault.
var ErrEmptyPayload = errors.New("archive returned an empty payload")

// Client fetches FITS spectra from a LAMOST data release.
type Client struct {
	baseURL     string
	token       string
	dataRelease int
	httpClient  *http.Client
}

// New creates a Client for the given data release. The token is injected
// here once; retrieval code never sees it.
func New(baseURL, token string, dataRelease int, timeout time.Duration) *Client {
	return &Client{
		baseURL:     baseURL,
		token:       token,
		dataRelease: dataRelease,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchSpectrum issues a single GET for one obsid and returns the raw FITS
// payload. Non-2xx statuses come back as *APIError; transport failures and
// empty payloads are returned as-is.
func (c *Client) FetchSpectrum(ctx context.Context, obsid string) ([]byte, error) {
	fetchURL := fmt.Sprintf("%s/dr%d/spectrum/fits/%s?token=%s",
		c.baseURL, c.dataRelease, url.PathEscape(obsid), url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyStr := string(body)
		if len(bodyStr) > 512 {
			bodyStr = bodyStr[:512]
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Body: bodyStr}
	}

	if len(body) == 0 {
		return nil, ErrEmptyPayload
	}

	return body, nil
}

// Retriable classifies an error from FetchSpectrum. Transport failures
// (timeouts, resets) default to retriable; cancellation does not.
func Retriable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retriable()
	}
	return true
}
