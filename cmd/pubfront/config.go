package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eringen/pubfront"
)

// Keys double as environment variable names: viper upper-cases them when it
// looks up the environment.
const (
	keySiteName         = "site_name"
	keySiteURL          = "site_url"
	keySiteDescription  = "site_description"
	keySiteAuthor       = "site_author"
	keyEndpoint         = "wordpress_graphql_endpoint"
	keyPostsPerPage     = "posts_per_page"
	keyRequestsPerSec   = "requests_per_second"
	keyCacheBackend     = "cache_backend"
	keyCacheTTL         = "cache_ttl"
	keyCacheSize        = "cache_size"
	keyCacheDatabase    = "cache_database_path"
	keyRedisURL         = "redis_url"
	keySettingsTTL      = "settings_ttl"
	keyRevalidateSecret = "revalidate_secret"
	keySessionSecret    = "session_secret"
	keyCookieSecure     = "cookie_secure"
	keyAddr             = "addr"
	keyStaticDir        = "static_dir"
)

// bindFlags registers the flags that can override the environment.
func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("endpoint", "", "WPGraphQL endpoint URL (WORDPRESS_GRAPHQL_ENDPOINT)")
	f.String("addr", "", "listen address (ADDR)")
	f.String("cache-backend", "", "response cache: memory, sqlite, redis or none (CACHE_BACKEND)")
	f.String("cache-database-path", "", "SQLite cache file (CACHE_DATABASE_PATH)")
	f.String("redis-url", "", "Redis URL for the redis cache (REDIS_URL)")
	f.Int("posts-per-page", 0, "listing page size (POSTS_PER_PAGE)")
	f.String("static-dir", "public", "directory served under /public (STATIC_DIR)")

	_ = v.BindPFlag(keyEndpoint, f.Lookup("endpoint"))
	_ = v.BindPFlag(keyAddr, f.Lookup("addr"))
	_ = v.BindPFlag(keyCacheBackend, f.Lookup("cache-backend"))
	_ = v.BindPFlag(keyCacheDatabase, f.Lookup("cache-database-path"))
	_ = v.BindPFlag(keyRedisURL, f.Lookup("redis-url"))
	_ = v.BindPFlag(keyPostsPerPage, f.Lookup("posts-per-page"))
	_ = v.BindPFlag(keyStaticDir, f.Lookup("static-dir"))
}

// siteConfig reads the resolved settings. Zero values are left for
// pubfront's defaults.
func siteConfig(v *viper.Viper) (pubfront.SiteConfig, error) {
	for _, k := range []string{
		keySiteName, keySiteURL, keySiteDescription, keySiteAuthor,
		keyRequestsPerSec, keyCacheTTL, keyCacheSize, keySettingsTTL,
		keyRevalidateSecret, keySessionSecret, keyCookieSecure,
	} {
		if err := v.BindEnv(k); err != nil {
			return pubfront.SiteConfig{}, err
		}
	}

	cfg := pubfront.SiteConfig{
		Name:              v.GetString(keySiteName),
		URL:               v.GetString(keySiteURL),
		Description:       v.GetString(keySiteDescription),
		Author:            v.GetString(keySiteAuthor),
		Addr:              v.GetString(keyAddr),
		GraphQLEndpoint:   v.GetString(keyEndpoint),
		PostsPerPage:      v.GetInt(keyPostsPerPage),
		RequestsPerSecond: v.GetFloat64(keyRequestsPerSec),
		CacheBackend:      v.GetString(keyCacheBackend),
		CacheSize:         v.GetInt(keyCacheSize),
		CacheDatabasePath: v.GetString(keyCacheDatabase),
		RedisURL:          v.GetString(keyRedisURL),
		RevalidateSecret:  v.GetString(keyRevalidateSecret),
		SessionSecret:     v.GetString(keySessionSecret),
		CookieSecure:      v.GetBool(keyCookieSecure),
	}

	var err error
	if cfg.CacheTTL, err = duration(v, keyCacheTTL); err != nil {
		return cfg, err
	}
	if cfg.SettingsTTL, err = duration(v, keySettingsTTL); err != nil {
		return cfg, err
	}
	if cfg.GraphQLEndpoint == "" {
		return cfg, fmt.Errorf("WORDPRESS_GRAPHQL_ENDPOINT is required")
	}
	return cfg, nil
}

// duration accepts Go durations ("90s") and plain seconds ("90").
func duration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	if raw == "" {
		return 0, nil
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d, nil
	}
	secs := v.GetInt(key)
	if secs <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, raw)
	}
	return time.Duration(secs) * time.Second, nil
}
