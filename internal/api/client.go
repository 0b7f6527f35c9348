package api

import (
	"context"

	"github.com/vilaca/activity-feed/internal/domain"
)

// FeedClient defines the interface for activity feed clients.
// Small, focused interface so the caching decorator and tests can stand in for it.
type FeedClient interface {
	// GetUserEvents returns the decoded public events of a single user, in upstream order.
	GetUserEvents(ctx context.Context, username string) ([]domain.Event, error)
}

// ClientConfig holds common configuration for API clients.
type ClientConfig struct {
	BaseURL string
}
