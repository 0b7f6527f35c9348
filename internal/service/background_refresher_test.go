package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/vilaca/activity-feed/internal/domain"
)

// mockInvalidator is a test double for CacheInvalidator.
type mockInvalidator struct {
	mu          sync.Mutex
	invalidated []string
}

func (m *mockInvalidator) Invalidate(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated = append(m.invalidated, username)
}

// TestBackgroundRefresher_RefreshData tests that a refresh invalidates and refetches every user.
func TestBackgroundRefresher_RefreshData(t *testing.T) {
	// Arrange
	client := &mockClient{
		getUserEventsFunc: func(ctx context.Context, username string) ([]domain.Event, error) {
			return testFeeds[username], nil
		},
	}
	invalidator := &mockInvalidator{}
	logger := &mockLogger{}
	feedService := NewFeedService(client, logger, 0)
	refresher := NewBackgroundRefresher(feedService, []string{"alice", "bob"}, invalidator, time.Minute, logger)

	// Act
	refresher.refreshData()

	// Assert
	if len(invalidator.invalidated) != 2 {
		t.Errorf("expected 2 invalidations, got %v", invalidator.invalidated)
	}
	if client.calls["alice"] != 1 || client.calls["bob"] != 1 {
		t.Errorf("expected one fetch per user, got %v", client.calls)
	}
}

// TestBackgroundRefresher_StartStop tests the lifecycle.
func TestBackgroundRefresher_StartStop(t *testing.T) {
	// Arrange
	fetched := make(chan struct{}, 10)
	client := &mockClient{
		getUserEventsFunc: func(ctx context.Context, username string) ([]domain.Event, error) {
			fetched <- struct{}{}
			return nil, nil
		},
	}
	logger := &mockLogger{}
	refresher := NewBackgroundRefresher(NewFeedService(client, logger, 0), []string{"alice"}, nil, time.Hour, logger)
	refresher.initialDelay = 0

	// Act
	refresher.Start()
	refresher.Start() // second start is a no-op

	// Assert
	select {
	case <-fetched:
	case <-time.After(2 * time.Second):
		t.Fatal("expected initial refresh to fetch")
	}

	refresher.Stop()
	refresher.Stop()
	if refresher.running {
		t.Error("expected refresher to be stopped")
	}
}

// TestBackgroundRefresher_DisabledInterval tests that a zero interval never starts.
func TestBackgroundRefresher_DisabledInterval(t *testing.T) {
	logger := &mockLogger{}
	refresher := NewBackgroundRefresher(NewFeedService(&mockClient{}, logger, 0), nil, nil, 0, logger)

	refresher.Start()

	if refresher.running {
		t.Error("expected refresher not to run with zero interval")
	}
	refresher.Stop()
}
