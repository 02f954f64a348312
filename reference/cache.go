package reference

import (
	"fmt"
	"sync"
	"time"

	"github.com/devskill-org/sunrise/sun"
)

// eventCache caches provider events per day and position with expiration
type eventCache struct {
	mu            sync.RWMutex
	entries       map[string]cachedEvent
	cacheDuration time.Duration
	now           func() time.Time
}

type cachedEvent struct {
	event     Event
	expiresAt time.Time
}

func newEventCache(cacheDuration time.Duration) *eventCache {
	return &eventCache{
		entries:       make(map[string]cachedEvent),
		cacheDuration: cacheDuration,
		now:           time.Now,
	}
}

func cacheKey(day time.Time, obs sun.Observer) string {
	return fmt.Sprintf("%04d-%02d-%02d/%.6f/%.6f", day.Year(), day.Month(), day.Day(), obs.Latitude, obs.Longitude)
}

// Get returns the cached event if it's still valid
func (c *eventCache) Get(key string) (Event, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || c.now().After(entry.expiresAt) {
		return Event{}, false
	}
	return entry.event, true
}

// SetUntil stores an event until expires, capped at the cache duration.
// A zero expires means the cache duration; an expiry already past skips the entry.
func (c *eventCache) SetUntil(key string, event Event, expires time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, k)
		}
	}

	deadline := now.Add(c.cacheDuration)
	if !expires.IsZero() {
		if !expires.After(now) {
			return
		}
		if expires.Before(deadline) {
			deadline = expires
		}
	}
	c.entries[key] = cachedEvent{event: event, expiresAt: deadline}
}
