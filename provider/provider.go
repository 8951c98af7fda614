// Package provider contains the HTTP clients for the upstream dictionary,
// slang, word-pattern and daily word-game services.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultAttempts = 3
	retryBaseDelay  = 200 * time.Millisecond
)

// getJSON performs a GET request and decodes the JSON body into out,
// retrying transient failures. Client errors and malformed bodies are not
// retried.
func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("create request: %w", err))
			}

			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("fetch: %w", err)
			}
			defer resp.Body.Close()

			switch {
			case resp.StatusCode == http.StatusOK:
			case resp.StatusCode >= http.StatusInternalServerError:
				return fmt.Errorf("unexpected status: %d", resp.StatusCode)
			default:
				return retry.Unrecoverable(fmt.Errorf("unexpected status: %d", resp.StatusCode))
			}

			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decode response: %w", err))
			}
			return nil
		},
		retry.Attempts(defaultAttempts),
		retry.Delay(retryBaseDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
}
