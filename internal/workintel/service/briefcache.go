package service

import (
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
)

const DefaultBriefCacheTTL = 15 * time.Minute

type briefEntry struct {
	brief   domain.Brief
	expires time.Time
}

// BriefCache is a per-process TTL map of generated briefs.
type BriefCache struct {
	TTL time.Duration

	mu      sync.Mutex
	entries map[string]briefEntry
}

func NewBriefCache(ttl time.Duration) *BriefCache {
	if ttl <= 0 {
		ttl = DefaultBriefCacheTTL
	}
	return &BriefCache{TTL: ttl, entries: make(map[string]briefEntry)}
}

// Get returns a live entry for key.
func (c *BriefCache) Get(key string, now time.Time) (domain.Brief, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || !now.Before(e.expires) {
		return domain.Brief{}, false
	}
	return e.brief, true
}

func (c *BriefCache) Put(key string, b domain.Brief, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = briefEntry{brief: b, expires: now.Add(c.TTL)}
}

func (c *BriefCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// DeleteUser drops every brief of userID, whatever time zone it was built
// for, and returns how many went.
func (c *BriefCache) DeleteUser(userID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	prefix := briefKeyPrefix(userID)
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

func briefKeyPrefix(userID string) string { return userID + "|" }

// Sweep drops expired entries and returns how many went.
func (c *BriefCache) Sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

func (c *BriefCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
