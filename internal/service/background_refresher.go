package service

import (
	"context"
	"sync"
	"time"
)

// CacheInvalidator drops cached data for one user. Implemented by api.CachingClient.
type CacheInvalidator interface {
	Invalidate(username string)
}

// BackgroundRefresher periodically re-fetches the configured users to keep caches warm.
// Follows Single Responsibility Principle - only handles background data fetching.
type BackgroundRefresher struct {
	feedService     *FeedService
	usernames       []string
	invalidator     CacheInvalidator // may be nil
	refreshInterval time.Duration
	initialDelay    time.Duration
	logger          Logger
	stopChan        chan struct{}
	wg              sync.WaitGroup
	mu              sync.Mutex
	running         bool
}

// NewBackgroundRefresher creates a new background refresher.
// Follows Dependency Injection - accepts dependencies via constructor.
func NewBackgroundRefresher(feedService *FeedService, usernames []string, invalidator CacheInvalidator, refreshInterval time.Duration, logger Logger) *BackgroundRefresher {
	return &BackgroundRefresher{
		feedService:     feedService,
		usernames:       usernames,
		invalidator:     invalidator,
		refreshInterval: refreshInterval,
		initialDelay:    2 * time.Second,
		logger:          logger,
		stopChan:        make(chan struct{}),
	}
}

// Start begins periodic background refreshing.
// Non-blocking - launches goroutine and returns immediately.
func (r *BackgroundRefresher) Start() {
	if r.refreshInterval <= 0 {
		r.logger.Printf("Background refresher: Disabled (interval %v)", r.refreshInterval)
		return
	}

	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	r.logger.Printf("Background refresher: Starting with %v interval for %d users", r.refreshInterval, len(r.usernames))

	r.wg.Add(1)
	go r.refreshLoop()
}

// Stop gracefully stops the background refresher.
func (r *BackgroundRefresher) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	r.logger.Printf("Background refresher: Stopping...")
	close(r.stopChan)
	r.wg.Wait()
	r.logger.Printf("Background refresher: Stopped")
}

// refreshLoop performs an initial fetch after a short delay, then periodic refreshes.
func (r *BackgroundRefresher) refreshLoop() {
	defer r.wg.Done()

	select {
	case <-time.After(r.initialDelay):
	case <-r.stopChan:
		return
	}
	r.refreshData()

	ticker := time.NewTicker(r.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.refreshData()
		case <-r.stopChan:
			return
		}
	}
}

// refreshData drops cached feeds and fetches them again.
func (r *BackgroundRefresher) refreshData() {
	ctx, cancel := context.WithTimeout(context.Background(), r.refreshInterval)
	defer cancel()

	if r.invalidator != nil {
		for _, u := range r.usernames {
			r.invalidator.Invalidate(u)
		}
	}

	feed, err := r.feedService.GetFeed(ctx, r.usernames, 0)
	if err != nil {
		r.logger.Printf("Background refresher: Failed to refresh feed: %v", err)
		return
	}
	r.logger.Printf("Background refresher: Refreshed %d events (%d users failed)", len(feed.Events), len(feed.Failures))
}
