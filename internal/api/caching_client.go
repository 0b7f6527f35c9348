package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/vilaca/activity-feed/internal/domain"
)

// CachingClient wraps a FeedClient with caching capabilities.
// Follows Decorator pattern to add caching without modifying the underlying client.
type CachingClient struct {
	client FeedClient
	cache  *cache
}

// NewCachingClient creates a new caching client wrapper.
func NewCachingClient(client FeedClient, cacheDuration time.Duration) *CachingClient {
	return &CachingClient{
		client: client,
		cache:  newCache(cacheDuration),
	}
}

// GetUserEvents retrieves a user's events with caching. Errors are never cached.
func (c *CachingClient) GetUserEvents(ctx context.Context, username string) ([]domain.Event, error) {
	key := "GetUserEvents:" + username

	if cached, found := c.cache.get(key); found {
		if events, ok := cached.([]domain.Event); ok {
			log.Printf("Cache hit: %s (%d events)", key, len(events))
			return events, nil
		}
	}

	log.Printf("Cache miss: %s - fetching from API", key)
	events, err := c.client.GetUserEvents(ctx, username)
	if err != nil {
		return nil, err
	}

	c.cache.set(key, events)
	return events, nil
}

// Invalidate drops the cached events of a user.
func (c *CachingClient) Invalidate(username string) {
	c.cache.delete("GetUserEvents:" + username)
}

// Close stops the background cleanup goroutine.
func (c *CachingClient) Close() {
	c.cache.stop()
}

// cache implements a thread-safe TTL cache.
type cache struct {
	mu       sync.RWMutex
	entries  map[string]*cacheEntry
	duration time.Duration
	done     chan struct{}
	once     sync.Once
}

// cacheEntry holds a cached value with expiry time.
type cacheEntry struct {
	value     interface{}
	expiresAt time.Time
}

// newCache creates a new cache with the specified duration.
func newCache(duration time.Duration) *cache {
	c := &cache{
		entries:  make(map[string]*cacheEntry),
		duration: duration,
		done:     make(chan struct{}),
	}

	go c.cleanup(1 * time.Minute)

	return c
}

// get retrieves a value from cache.
func (c *cache) get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		return nil, false
	}

	return entry.value, true
}

// set stores a value in cache with TTL.
func (c *cache) set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &cacheEntry{
		value:     value,
		expiresAt: time.Now().Add(c.duration),
	}
}

func (c *cache) delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *cache) stop() {
	c.once.Do(func() { close(c.done) })
}

// cleanup periodically removes expired entries until stop is called.
func (c *cache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.entries {
				if now.After(entry.expiresAt) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		case <-c.done:
			return
		}
	}
}
