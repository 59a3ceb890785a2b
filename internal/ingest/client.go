// Package ingest is the pre-processing collaborator §1 defers to: it fetches
// raw hourly time series from an HTTP source and hands the caller-supplied
// Decode function the response body, retrying transient failures with
// exponential backoff. The engine itself never parses public datasets.
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/brianmickel/adequacy/internal/tsarray"
)

// Decode turns a raw response body into an hourly Series. Callers supply
// this per source format (Grid Status JSON, EIA CSV, etc); the client is
// otherwise format-agnostic.
type Decode func([]byte) (tsarray.Series, error)

// Error is a typed ingestion failure carrying the upstream status code.
type Error struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *Error) Error() string { return e.Message }

// Client fetches and decodes one time series from a source URL, retrying
// on 429/5xx responses and network errors.
type Client struct {
	HTTPClient *http.Client
	MaxRetries uint64
}

// NewClient builds a Client with sane defaults: a 30s per-attempt timeout
// and up to 5 retries.
func NewClient() *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		MaxRetries: 5,
	}
}

// Fetch retrieves url and decodes the body with decode, retrying transient
// failures with exponential backoff.
func (c *Client) Fetch(ctx context.Context, url string, decode Decode) (tsarray.Series, error) {
	var series tsarray.Series

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("ingest: build request: %w", err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return fmt.Errorf("ingest: request %s: %w", url, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("ingest: read body from %s: %w", url, err)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			decoded, err := decode(body)
			if err != nil {
				return backoff.Permanent(fmt.Errorf("ingest: decode %s: %w", url, err))
			}
			series = decoded
			return nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return &Error{Code: "TRANSIENT", Message: fmt.Sprintf("ingest: %s returned %d, retrying", url, resp.StatusCode), StatusCode: resp.StatusCode}
		default:
			return backoff.Permanent(&Error{Code: "FETCH_FAILED", Message: fmt.Sprintf("ingest: %s returned %d", url, resp.StatusCode), StatusCode: resp.StatusCode})
		}
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.MaxRetries)
	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return tsarray.Series{}, err
	}
	return series, nil
}
