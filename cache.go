package pubfront

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/pubfront/posts"
)

// SettingsSource loads the CMS general settings; *posts.Service implements it.
type SettingsSource interface {
	GetSiteSettings(ctx context.Context) (posts.SiteSettings, error)
}

// SiteCache is an in-memory cache of the CMS general settings with TTL.
// When a refresh fails, the last good value keeps being served.
type SiteCache struct {
	mu       sync.RWMutex
	settings posts.SiteSettings
	loaded   bool
	fetched  time.Time
	ttl      time.Duration
	source   SettingsSource
}

// NewSiteCache creates a SiteCache backed by the given source.
func NewSiteCache(s SettingsSource, ttl time.Duration) *SiteCache {
	return &SiteCache{source: s, ttl: ttl}
}

func (c *SiteCache) valid() bool {
	return c.loaded && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *SiteCache) Invalidate() {
	c.mu.Lock()
	c.fetched = time.Time{}
	c.mu.Unlock()
}

// Settings returns the cached settings, reloading them once the TTL passed.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *SiteCache) Settings(ctx context.Context) (posts.SiteSettings, error) {
	c.mu.RLock()
	if c.valid() {
		s := c.settings
		c.mu.RUnlock()
		return s, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.settings, nil
	}
	s, err := c.source.GetSiteSettings(ctx)
	if err != nil {
		if c.loaded {
			return c.settings, nil
		}
		return posts.SiteSettings{}, err
	}
	c.settings = s
	c.loaded = true
	c.fetched = time.Now()
	return s, nil
}
