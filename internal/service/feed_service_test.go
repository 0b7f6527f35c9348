package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/vilaca/activity-feed/internal/domain"
)

// mockClient is a test double for api.FeedClient.
// Follows FIRST principles - Independent tests.
type mockClient struct {
	mu                sync.Mutex
	calls             map[string]int
	getUserEventsFunc func(ctx context.Context, username string) ([]domain.Event, error)
}

func (m *mockClient) GetUserEvents(ctx context.Context, username string) ([]domain.Event, error) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[username]++
	m.mu.Unlock()

	if m.getUserEventsFunc != nil {
		return m.getUserEventsFunc(ctx, username)
	}
	return nil, nil
}

// mockLogger is a test double for Logger.
type mockLogger struct {
	mu       sync.Mutex
	messages []string
}

func (m *mockLogger) Printf(format string, v ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, fmt.Sprintf(format, v...))
}

var testFeeds = map[string][]domain.Event{
	"alice": {ev("a1", "2024-01-03T00:00:00Z"), ev("a2", "2024-01-01T00:00:00Z")},
	"bob":   {ev("b1", "2024-01-02T00:00:00Z")},
}

// TestGetFeed_MergesUsers tests that users are fetched and merged newest first.
// Follows AAA pattern.
func TestGetFeed_MergesUsers(t *testing.T) {
	// Arrange
	client := &mockClient{
		getUserEventsFunc: func(ctx context.Context, username string) ([]domain.Event, error) {
			return testFeeds[username], nil
		},
	}
	service := NewFeedService(client, &mockLogger{}, 2)

	// Act
	feed, err := service.GetFeed(context.Background(), []string{"alice", "bob"}, 0)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got := ids(feed.Events)
	expected := []string{"a1", "b1", "a2"}
	if fmt.Sprint(got) != fmt.Sprint(expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
	if len(feed.Failures) != 0 {
		t.Errorf("expected no failures, got %v", feed.Failures)
	}
}

// TestGetFeed_FailedUserIsAbsent tests that one failing user does not break the feed.
func TestGetFeed_FailedUserIsAbsent(t *testing.T) {
	// Arrange
	boom := errors.New("API returned status 404")
	client := &mockClient{
		getUserEventsFunc: func(ctx context.Context, username string) ([]domain.Event, error) {
			if username == "ghost" {
				return nil, boom
			}
			return testFeeds[username], nil
		},
	}
	logger := &mockLogger{}
	service := NewFeedService(client, logger, 0)

	// Act
	feed, err := service.GetFeed(context.Background(), []string{"ghost", "bob"}, 0)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := ids(feed.Events); len(got) != 1 || got[0] != "b1" {
		t.Errorf("expected only bob's event, got %v", got)
	}
	if len(feed.Failures) != 1 || feed.Failures[0].Username != "ghost" {
		t.Fatalf("expected ghost to fail, got %v", feed.Failures)
	}
	if !errors.Is(feed.Failures[0].Err, boom) {
		t.Errorf("expected failure to wrap original error, got %v", feed.Failures[0].Err)
	}
	if len(logger.messages) == 0 {
		t.Error("expected failure to be logged")
	}
}

// TestGetFeed_DeduplicatesUsernames tests that repeated or blank names are fetched once.
func TestGetFeed_DeduplicatesUsernames(t *testing.T) {
	client := &mockClient{
		getUserEventsFunc: func(ctx context.Context, username string) ([]domain.Event, error) {
			return testFeeds[username], nil
		},
	}
	service := NewFeedService(client, &mockLogger{}, 0)

	feed, err := service.GetFeed(context.Background(), []string{"bob", " bob ", "", "bob"}, 0)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if client.calls["bob"] != 1 || len(client.calls) != 1 {
		t.Errorf("expected a single fetch for bob, got %v", client.calls)
	}
	if len(feed.Events) != 1 {
		t.Errorf("expected 1 event, got %d", len(feed.Events))
	}
}

// TestGetFeed_Limit tests truncation to the newest events.
func TestGetFeed_Limit(t *testing.T) {
	client := &mockClient{
		getUserEventsFunc: func(ctx context.Context, username string) ([]domain.Event, error) {
			return testFeeds[username], nil
		},
	}
	service := NewFeedService(client, &mockLogger{}, 0)

	feed, _ := service.GetFeed(context.Background(), []string{"alice", "bob"}, 2)

	if got := ids(feed.Events); fmt.Sprint(got) != "[a1 b1]" {
		t.Errorf("expected [a1 b1], got %v", got)
	}
}

// TestGetFeed_CanceledContext tests that cancellation is reported as an error.
func TestGetFeed_CanceledContext(t *testing.T) {
	client := &mockClient{
		getUserEventsFunc: func(ctx context.Context, username string) ([]domain.Event, error) {
			return nil, ctx.Err()
		},
	}
	service := NewFeedService(client, &mockLogger{}, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.GetFeed(ctx, []string{"alice"}, 0)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// TestGetFeed_NoUsers tests an empty request.
func TestGetFeed_NoUsers(t *testing.T) {
	service := NewFeedService(&mockClient{}, &mockLogger{}, 0)

	feed, err := service.GetFeed(context.Background(), nil, 0)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(feed.Events) != 0 || len(feed.Failures) != 0 {
		t.Errorf("expected empty feed, got %+v", feed)
	}
}

// TestSortFailures tests that failures follow request order.
func TestSortFailures(t *testing.T) {
	failures := []domain.UserFailure{{Username: "c"}, {Username: "a"}, {Username: "b"}}

	sorted := sortFailures([]string{"a", "b", "c"}, failures)

	for i, name := range []string{"a", "b", "c"} {
		if sorted[i].Username != name {
			t.Errorf("expected %s at %d, got %s", name, i, sorted[i].Username)
		}
	}
}
