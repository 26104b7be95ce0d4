// Package services provides HTTP clients for the external collaborator
// services: inventory, payment, notification, and invoicing. Each client
// carries its own request timeout and a short retry loop, independent of the
// job queue's attempt budget.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	requestAttempts = 3
	retryDelay      = 500 * time.Millisecond
)

// httpClient is the shared transport for all collaborator clients.
// Server errors and transport failures are retried; client errors are not,
// since a request the server rejected once will be rejected again.
type httpClient struct {
	baseURL string
	client  *http.Client
}

func newHTTPClient(baseURL string, timeout time.Duration) httpClient {
	return httpClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// postJSON sends body to path as JSON and, when out is non-nil, decodes the
// response into it.
func (c httpClient) postJSON(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= requestAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay):
			}
		}

		retryable, err := c.doOnce(ctx, path, payload, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
	}

	return fmt.Errorf("request to %s failed after %d attempts: %w", path, requestAttempts, lastErr)
}

func (c httpClient) doOnce(ctx context.Context, path string, payload []byte, out any) (retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return true, fmt.Errorf("%s returned %s", path, resp.Status)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return false, fmt.Errorf("%s returned %s", path, resp.Status)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, fmt.Errorf("decode response from %s: %w", path, err)
		}
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
	}

	return false, nil
}
