// Package cache provides the unwrap-result cache: a byte-value cache
// interface with in-memory and Redis backends, a canonical hasher for wrapped
// phase images, and a typed wrapper for unwrap results.
package cache

import (
	"context"
	"errors"
	"time"
)

// Backend names.
const (
	// BackendMemory selects the in-process cache.
	BackendMemory = "memory"
	// BackendRedis selects the Redis cache.
	BackendRedis = "redis"
)

// Standard errors returned by cache operations.
var (
	// ErrKeyNotFound is returned when a requested key does not exist.
	ErrKeyNotFound = errors.New("key not found")
	// ErrCacheClosed is returned when an operation runs on a closed cache.
	ErrCacheClosed = errors.New("cache is closed")
)

// Cache is the byte-value cache contract shared by the backends.
type Cache interface {
	// Get retrieves the value for key. Returns ErrKeyNotFound if absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key with the given TTL. A non-positive TTL uses
	// the backend's default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Stats returns backend statistics.
	Stats(ctx context.Context) (*Stats, error)

	// Clear removes all keys.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Stats describes a cache's state.
type Stats struct {
	TotalKeys int64
	Hits      int64
	Misses    int64
	HitRate   float64
	Backend   string
}

// Options configures cache construction.
type Options struct {
	Backend    string
	DefaultTTL time.Duration

	// Memory backend
	MaxEntries      int
	CleanupInterval time.Duration

	// Redis backend
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int
}

// DefaultOptions returns sensible defaults: the memory backend, 5-minute TTL.
func DefaultOptions() *Options {
	return &Options{
		Backend:         BackendMemory,
		DefaultTTL:      5 * time.Minute,
		MaxEntries:      10000,
		CleanupInterval: time.Minute,
		RedisAddr:       "localhost:6379",
		RedisPoolSize:   10,
	}
}

// New constructs a cache for the configured backend.
func New(opts *Options) (Cache, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	switch opts.Backend {
	case BackendRedis:
		return NewRedisCache(opts)
	default:
		return NewMemoryCache(opts), nil
	}
}
