// Package responsecache stores raw GraphQL response bodies keyed by a hash of
// the request. Backends are interchangeable: an in-process LRU, a SQLite file
// that survives restarts (and is filled at build time by `pubfront preload`),
// or a Redis instance shared between several front-end replicas.
package responsecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("responsecache: miss")

// Backend is implemented by every cache store.
// A ttl <= 0 passed to Set means the entry never expires.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Purge(ctx context.Context) error
	Close() error
}

// Key derives a cache key from the encoded request body.
func Key(body []byte) string {
	sum := sha256.Sum256(body)
	return "gql:" + hex.EncodeToString(sum[:])
}

// Backend kinds accepted by Open.
const (
	KindMemory = "memory"
	KindSQLite = "sqlite"
	KindRedis  = "redis"
	KindNone   = "none"
)

// Config selects and configures a backend for Open.
type Config struct {
	Kind         string // "memory" (default), "sqlite", "redis" or "none"
	Size         int    // memory: max entries (default 512)
	DatabasePath string // sqlite: file path (default "data/cache.db")
	RedisURL     string // redis: redis:// URL
	RedisPrefix  string // redis: key prefix (default "pubfront:")
}

// Open builds the backend described by cfg. Kind "none" returns a nil Backend.
func Open(cfg Config) (Backend, error) {
	switch cfg.Kind {
	case "", KindMemory:
		return NewMemory(cfg.Size)
	case KindSQLite:
		path := cfg.DatabasePath
		if path == "" {
			path = "data/cache.db"
		}
		return NewSQLite(path)
	case KindRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("responsecache: redis backend requires a URL")
		}
		return NewRedis(cfg.RedisURL, cfg.RedisPrefix)
	case KindNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("responsecache: unknown backend %q", cfg.Kind)
	}
}

func expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}
