package cache

import (
	"context"
	"time"
)

// Backend is a byte-oriented key-value store with per-key expiry.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// VersionSource holds the availability version. Bump is atomic.
type VersionSource interface {
	Current(ctx context.Context) (int64, error)
	Bump(ctx context.Context) (int64, error)
}
