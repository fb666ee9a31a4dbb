package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/manav03panchal/plantcare/internal/logging"
)

// UserAgent is sent with every webhook request.
const UserAgent = "plantcare/1.0"

// DefaultRetryDelays is the wait before each attempt: immediately, then 5s, then 30s.
var DefaultRetryDelays = []time.Duration{0, 5 * time.Second, 30 * time.Second}

// HTTPClient posts payloads with a fixed retry schedule.
type HTTPClient struct {
	client     *http.Client
	retryDelay []time.Duration
}

// NewHTTPClient creates a client. One attempt is made per entry in delays.
func NewHTTPClient(timeout time.Duration, delays []time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if len(delays) == 0 {
		delays = DefaultRetryDelays
	}
	return &HTTPClient{
		client:     &http.Client{Timeout: timeout},
		retryDelay: delays,
	}
}

// Attempts returns the maximum number of attempts per Send.
func (c *HTTPClient) Attempts() int {
	return len(c.retryDelay)
}

// SendResult contains the result of a send operation.
type SendResult struct {
	StatusCode int
	Duration   time.Duration
	Attempts   int
	Error      error
}

// Send posts body to url. Network errors, 429 and 5xx are retried; other
// 4xx responses are returned immediately.
func (c *HTTPClient) Send(ctx context.Context, url, contentType string, body []byte) *SendResult {
	result := &SendResult{}
	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	for attempt, delay := range c.retryDelay {
		result.Attempts = attempt + 1

		if delay > 0 {
			select {
			case <-ctx.Done():
				result.Error = ctx.Err()
				return result
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			result.Error = fmt.Errorf("failed to create request: %w", err)
			return result
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("User-Agent", UserAgent)

		resp, err := c.client.Do(req)
		if err != nil {
			result.Error = fmt.Errorf("request failed: %w", err)
			if ctx.Err() != nil {
				return result
			}
			logging.DebugLog("webhook attempt failed", "attempt", result.Attempts, logging.KeyError, err)
			continue
		}

		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		result.StatusCode = resp.StatusCode

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			result.Error = nil
			return result
		case resp.StatusCode == http.StatusTooManyRequests:
			result.Error = fmt.Errorf("rate limited (HTTP 429)")
		case resp.StatusCode >= 500:
			result.Error = fmt.Errorf("server error (HTTP %d): %s", resp.StatusCode, respBody)
		default:
			result.Error = fmt.Errorf("client error (HTTP %d): %s", resp.StatusCode, respBody)
			return result
		}
		logging.DebugLog("webhook attempt rejected", "attempt", result.Attempts, logging.KeyStatus, resp.StatusCode)
	}

	return result
}
