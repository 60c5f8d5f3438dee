package transfer

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/leafmatch/backend/internal/domain"
)

// Client fetches raw manifest documents from remote transfer systems
// (distributor portals, state traceability exports). It only retrieves
// bytes; parsing and matching happen in the usecase layer.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a manifest fetch client. The API key is optional;
// when set it is sent as a bearer token.
func NewClient(apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	// Transfer portals throttle aggressively; stay under 2 req/sec with a
	// small burst allowance.
	limiter := rate.NewLimiter(rate.Limit(2), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		apiKey:      apiKey,
		rateLimiter: limiter,
	}
}

// SetDebug enables verbose request logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// FetchManifest downloads a manifest document. Retries up to 3 times on
// transport errors and retryable status codes with exponential backoff.
func (c *Client) FetchManifest(ctx context.Context, manifestURL string) ([]byte, error) {
	parsed, err := url.Parse(manifestURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("%w: invalid manifest URL %q", domain.ErrInvalidRequest, manifestURL)
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		// Wait for rate limiter
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, status, err := c.doRequest(ctx, manifestURL)
		if err != nil {
			if c.debug {
				log.Printf("[TRANSFER] Request error (attempt %d): %v", attempt, err)
			}
			lastErr = err
			sleepWithContext(ctx, exponentialBackoff(attempt))
			continue
		}

		switch {
		case status == http.StatusOK:
			if c.debug {
				log.Printf("[TRANSFER] Fetched %d bytes from %s", len(body), manifestURL)
			}
			return body, nil
		case status == http.StatusNotFound:
			return nil, fmt.Errorf("%w: manifest not found (404)", domain.ErrTransferAPIFailure)
		default:
			log.Printf("[TRANSFER] API error (attempt %d) - Status: %d", attempt, status)
			lastErr = fmt.Errorf("%w: status %d", domain.ErrTransferAPIFailure, status)
			sleepWithContext(ctx, exponentialBackoff(attempt))
		}
	}

	return nil, lastErr
}

// doRequest executes one GET with proper headers.
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "LeafMatch/1.0")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrTransferAPIFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	return body, resp.StatusCode, nil
}

// exponentialBackoff returns the wait before the next retry attempt.
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
}

// sleepWithContext waits for the backoff duration unless the context ends first.
func sleepWithContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
