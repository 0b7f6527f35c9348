package api

import (
	"context"
	"net/http"
)

const (
	// MaxConcurrentRequests limits concurrent API requests to avoid overwhelming the API
	MaxConcurrentRequests = 5
)

// HTTPClient interface for HTTP operations (allows mocking in tests).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// BaseClient contains common fields and functionality for all API clients.
type BaseClient struct {
	BaseURL    string
	HTTPClient HTTPClient
	Semaphore  chan struct{} // Limits concurrent requests
}

// NewBaseClient creates a new base client with rate limiting.
// maxConcurrent <= 0 falls back to MaxConcurrentRequests.
func NewBaseClient(baseURL string, httpClient HTTPClient, maxConcurrent int) *BaseClient {
	if maxConcurrent <= 0 {
		maxConcurrent = MaxConcurrentRequests
	}
	return &BaseClient{
		BaseURL:    baseURL,
		HTTPClient: httpClient,
		Semaphore:  make(chan struct{}, maxConcurrent),
	}
}

// DoRateLimited performs an operation with rate limiting via semaphore.
// This method is used by platform-specific clients to wrap API calls.
func (c *BaseClient) DoRateLimited(ctx context.Context, fn func() error) error {
	select {
	case c.Semaphore <- struct{}{}:
		defer func() { <-c.Semaphore }()
	case <-ctx.Done():
		return ctx.Err()
	}

	return fn()
}
