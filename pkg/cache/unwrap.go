package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// UnwrapResult is the cached outcome of an unwrap operation.
type UnwrapResult struct {
	Unwrapped     [][]float64 `json:"unwrapped"`
	NumResidues   int         `json:"num_residues"`
	TotalCost     int64       `json:"total_cost"`
	Augmentations int         `json:"augmentations"`
	Iterations    int         `json:"iterations"`
}

// UnwrapCache is a typed wrapper storing unwrap results as JSON in a byte
// cache.
type UnwrapCache struct {
	cache Cache
	ttl   time.Duration
}

// NewUnwrapCache wraps a byte cache with unwrap-result typing.
func NewUnwrapCache(c Cache, ttl time.Duration) *UnwrapCache {
	return &UnwrapCache{cache: c, ttl: ttl}
}

// Get looks up a cached result. The second return is false on a miss; errors
// other than a miss are returned as-is.
func (u *UnwrapCache) Get(ctx context.Context, key string) (*UnwrapResult, bool, error) {
	raw, err := u.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var res UnwrapResult
	if err := json.Unmarshal(raw, &res); err != nil {
		// A corrupt entry is treated as a miss and dropped.
		_ = u.cache.Delete(ctx, key)
		return nil, false, nil
	}
	return &res, true, nil
}

// Set stores a result under key.
func (u *UnwrapCache) Set(ctx context.Context, key string, res *UnwrapResult) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return u.cache.Set(ctx, key, raw, u.ttl)
}

// Close closes the underlying cache.
func (u *UnwrapCache) Close() error {
	return u.cache.Close()
}
