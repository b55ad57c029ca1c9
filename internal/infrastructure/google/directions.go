package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mubs-locator/internal/config"
	"github.com/mubs-locator/internal/domain"
	"github.com/sethvargo/go-retry"
)

const maxAttempts = 3

// DirectionsClient calls the Google Directions JSON API with the server-side key.
type DirectionsClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
	backoff func() retry.Backoff
}

func NewDirectionsClient(cfg *config.Config) *DirectionsClient {
	return &DirectionsClient{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: cfg.DirectionsBaseURL,
		apiKey:  cfg.GoogleMapsKey,
		backoff: defaultBackoff,
	}
}

func defaultBackoff() retry.Backoff {
	b := retry.NewExponential(200 * time.Millisecond)
	b = retry.WithCappedDuration(2*time.Second, b)
	return retry.WithMaxRetries(maxAttempts-1, b)
}

// Route returns the upstream response body unchanged. Network errors, 5xx and
// 429 responses are retried; anything else non-2xx fails immediately.
func (c *DirectionsClient) Route(ctx context.Context, origin, destination, mode string) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("directions: maps API key not configured: %w", domain.ErrUpstream)
	}
	q := url.Values{}
	q.Set("origin", origin)
	q.Set("destination", destination)
	q.Set("mode", mode)
	q.Set("key", c.apiKey)
	target := c.baseURL + "?" + q.Encode()

	var body []byte
	err := retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(err)
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return retry.RetryableError(fmt.Errorf("status %d", resp.StatusCode))
		}
		if resp.StatusCode >= 300 {
			return fmt.Errorf("status %d", resp.StatusCode)
		}
		if !json.Valid(b) {
			return errors.New("response is not JSON")
		}
		body = b
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("directions: %w: %w", domain.ErrUpstream, err)
	}
	return json.RawMessage(body), nil
}
