package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/vilaca/activity-feed/internal/api"
	"github.com/vilaca/activity-feed/internal/domain"
)

const defaultBaseURL = "https://api.github.com"

// maxErrorBody caps how much of a failed response is kept in the error message.
const maxErrorBody = 512

// maxResponseBody bounds a successful events page. GitHub pages hold at most a
// hundred events, far below this.
const maxResponseBody = 10 << 20

// Client implements api.FeedClient for the GitHub public events API.
// Only handles GitHub API communication; payload parsing lives in Decoder.
type Client struct {
	base    *api.BaseClient
	decoder Decoder
}

// NewClient creates a new GitHub events client.
// Uses dependency injection for HTTPClient and Decoder.
func NewClient(config api.ClientConfig, httpClient api.HTTPClient, decoder Decoder) *Client {
	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		base:    api.NewBaseClient(baseURL, httpClient, api.MaxConcurrentRequests),
		decoder: decoder,
	}
}

// GetUserEvents retrieves and decodes the public events of a user.
// Transport and status failures are *api.NetworkError; payload failures are *DecodeError.
func (c *Client) GetUserEvents(ctx context.Context, username string) ([]domain.Event, error) {
	endpoint := fmt.Sprintf("%s/users/%s/events/public", c.base.BaseURL, url.PathEscape(username))

	var body []byte
	err := c.base.DoRateLimited(ctx, func() error {
		var err error
		body, err = c.doRequest(ctx, endpoint)
		return err
	})
	if err != nil {
		// A context that ends while queued on the semaphore never reaches doRequest.
		var netErr *api.NetworkError
		if !errors.As(err, &netErr) {
			err = &api.NetworkError{URL: endpoint, Err: err}
		}
		return nil, err
	}

	events, err := c.decoder.DecodeEvents(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode events for %s: %w", username, err)
	}
	return events, nil
}

// doRequest performs a GET against the GitHub API and returns the response body.
func (c *Client) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &api.NetworkError{URL: endpoint, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.base.HTTPClient.Do(req)
	if err != nil {
		return nil, &api.NetworkError{URL: endpoint, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &api.NetworkError{
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Err:        errors.New(strings.TrimSpace(string(snippet))),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody+1))
	if err != nil {
		return nil, &api.NetworkError{URL: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if len(body) > maxResponseBody {
		return nil, &api.NetworkError{URL: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("response exceeds %d bytes", maxResponseBody)}
	}
	return body, nil
}
