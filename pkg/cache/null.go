package cache

import (
	"context"
	"time"
)

// NullCache discards writes and misses every read. It backs --no-cache
// runs and tests, where the pipeline should recompute everything.
type NullCache struct{}

// NewNullCache creates a cache that never stores anything.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get implements Cache; every lookup is a miss.
func (c *NullCache) Get(_ context.Context, _ string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set implements Cache; the data is dropped.
func (c *NullCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return nil
}

// Delete implements Cache.
func (c *NullCache) Delete(_ context.Context, _ string) error {
	return nil
}

// Close implements Cache.
func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)
