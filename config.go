package pubfront

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/eringen/pubfront/responsecache"
)

// SiteConfig holds all configuration for a pubfront site.
type SiteConfig struct {
	Name        string // Site name (default "Blog"), overridden by the CMS title
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Author name for JSON-LD

	Addr string // Listen address (default ":3000")

	GraphQLEndpoint   string  // Required: WPGraphQL endpoint URL
	PostsPerPage      int     // Listing page size (default 10)
	RequestsPerSecond float64 // Outbound CMS throttle, 0 disables

	CacheBackend      string        // "memory" (default), "sqlite", "redis" or "none"
	CacheTTL          time.Duration // Response cache TTL (default 5min)
	CacheSize         int           // Memory backend capacity (default 512)
	CacheDatabasePath string        // SQLite path (default "data/cache.db")
	RedisURL          string        // Required for the redis backend

	SettingsTTL time.Duration // Site settings and sitemap listing TTL (default 5min)

	RevalidateSecret string // Enables POST /api/revalidate when set
	SessionSecret    string // Cookie signing secret; random per process when empty
	CookieSecure     bool   // Set true for HTTPS
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.PostsPerPage <= 0 {
		c.PostsPerPage = 10
	}
	if c.CacheBackend == "" {
		c.CacheBackend = responsecache.KindMemory
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.CacheDatabasePath == "" {
		c.CacheDatabasePath = "data/cache.db"
	}
	if c.SettingsTTL == 0 {
		c.SettingsTTL = 5 * time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are in place.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger sets the logger used by the App and everything it creates.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithCacheBackend uses b instead of opening the backend named in the config.
// The App takes ownership and closes it.
func WithCacheBackend(b responsecache.Backend) Option {
	return func(a *App) {
		a.cache = b
	}
}

// WithHTTPClient sets the HTTP client used to reach the CMS.
func WithHTTPClient(c *http.Client) Option {
	return func(a *App) {
		a.httpClient = c
	}
}

// WithRegistry registers the HTTP metrics on reg instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(a *App) {
		a.registry = reg
	}
}
