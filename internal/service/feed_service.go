package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vilaca/activity-feed/internal/api"
	"github.com/vilaca/activity-feed/internal/domain"
)

// DefaultMaxConcurrentFetches bounds how many users are fetched at once.
const DefaultMaxConcurrentFetches = 5

// Logger interface for logging operations.
type Logger interface {
	Printf(format string, v ...interface{})
}

// FeedService fetches activity for several users and merges it into one feed.
// Follows Single Responsibility Principle - orchestrates fetching; decoding and transport live in the client.
type FeedService struct {
	client        api.FeedClient
	logger        Logger
	maxConcurrent int
}

// NewFeedService creates a new feed service.
func NewFeedService(client api.FeedClient, logger Logger, maxConcurrent int) *FeedService {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentFetches
	}
	return &FeedService{
		client:        client,
		logger:        logger,
		maxConcurrent: maxConcurrent,
	}
}

// GetFeed fetches every user concurrently and returns their merged events, newest first.
// A user whose fetch fails is left out of the feed and listed in Feed.Failures.
// limit <= 0 means no limit. An error is returned only if ctx ends before the fetches finish.
func (s *FeedService) GetFeed(ctx context.Context, usernames []string, limit int) (domain.Feed, error) {
	usernames = uniqueUsernames(usernames)
	startTime := time.Now()

	perUser := make([][]domain.Event, len(usernames))
	var failures []domain.UserFailure
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for i, username := range usernames {
		g.Go(func() error {
			events, err := s.client.GetUserEvents(gctx, username)
			if err != nil {
				s.logger.Printf("[FeedService] %s: %v", username, err)
				mu.Lock()
				failures = append(failures, domain.UserFailure{Username: username, Err: err})
				mu.Unlock()
				return nil
			}
			perUser[i] = events
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return domain.Feed{}, fmt.Errorf("feed fetch interrupted: %w", err)
	}

	events := MergeFeeds(perUser...)
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}

	s.logger.Printf("[FeedService] fetched %d users in %v (events: %d, failures: %d)",
		len(usernames), time.Since(startTime).Round(time.Millisecond), len(events), len(failures))

	return domain.Feed{Events: events, Failures: sortFailures(usernames, failures)}, nil
}

// sortFailures orders failures like the requested usernames so output is deterministic.
func sortFailures(usernames []string, failures []domain.UserFailure) []domain.UserFailure {
	if len(failures) < 2 {
		return failures
	}
	byName := make(map[string]domain.UserFailure, len(failures))
	for _, f := range failures {
		byName[f.Username] = f
	}
	ordered := make([]domain.UserFailure, 0, len(failures))
	for _, u := range usernames {
		if f, ok := byName[u]; ok {
			ordered = append(ordered, f)
		}
	}
	return ordered
}

// uniqueUsernames trims names and drops blanks and repeats, keeping first-seen order.
func uniqueUsernames(usernames []string) []string {
	seen := make(map[string]bool, len(usernames))
	result := make([]string, 0, len(usernames))
	for _, u := range usernames {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		result = append(result, u)
	}
	return result
}
