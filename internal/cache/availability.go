package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Domenick1991/roombooking/internal/domain"
	"github.com/Domenick1991/roombooking/internal/logger"
)

const DefaultAvailabilityTTL = 90 * time.Second

// RoomFinder is the store behind the cache.
type RoomFinder interface {
	FindAvailable(ctx context.Context, params domain.FindAvailableParams) (domain.RoomPage, error)
	GetByID(ctx context.Context, id string) (*domain.Room, error)
}

type Stats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hitRate"`
}

// AvailabilityCache memoises availability searches under the current
// availability version. A version bump makes every older key unreachable;
// those entries are left to expire.
type AvailabilityCache struct {
	inner   RoomFinder
	backend Backend
	version VersionSource
	ttl     time.Duration
	log     *logger.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

func NewAvailabilityCache(inner RoomFinder, backend Backend, version VersionSource, ttl time.Duration, log *logger.Logger) *AvailabilityCache {
	if ttl <= 0 {
		ttl = DefaultAvailabilityTTL
	}
	return &AvailabilityCache{inner: inner, backend: backend, version: version, ttl: ttl, log: log}
}

func AvailabilityKey(version int64, p domain.FindAvailableParams) string {
	roomType := "any"
	if p.Type != nil {
		roomType = string(*p.Type)
	}
	cursor := p.Cursor
	if cursor == "" {
		cursor = "0"
	}
	raw := fmt.Sprintf("%s|%s|%d|%s|%d|%s",
		domain.Day(p.CheckIn).Format(domain.DateLayout),
		domain.Day(p.CheckOut).Format(domain.DateLayout),
		p.Guests, roomType, p.EffectiveLimit(), cursor)
	sum := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("avail:v%d:%s", version, hex.EncodeToString(sum[:16]))
}

func (c *AvailabilityCache) FindAvailable(ctx context.Context, params domain.FindAvailableParams) (domain.RoomPage, error) {
	version, err := c.version.Current(ctx)
	if err != nil {
		c.log.Warnf("availability version unavailable, bypassing cache: %v", err)
		return c.inner.FindAvailable(ctx, params)
	}
	key := AvailabilityKey(version, params)

	data, ok, err := c.backend.Get(ctx, key)
	if err != nil {
		c.log.Warnf("cache get %s: %v", key, err)
	}
	if ok {
		var page domain.RoomPage
		if err := json.Unmarshal(data, &page); err == nil {
			c.hits.Add(1)
			return page, nil
		}
		c.log.Warnf("cache entry %s is corrupt, recomputing", key)
	}

	c.misses.Add(1)
	page, err := c.inner.FindAvailable(ctx, params)
	if err != nil {
		return domain.RoomPage{}, err
	}

	payload, err := json.Marshal(page)
	if err != nil {
		return page, nil
	}
	if err := c.backend.Set(ctx, key, payload, c.ttl); err != nil {
		c.log.Warnf("cache set %s: %v", key, err)
	}
	return page, nil
}

func (c *AvailabilityCache) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	return c.inner.GetByID(ctx, id)
}

// Invalidate bumps the availability version.
func (c *AvailabilityCache) Invalidate(ctx context.Context) (int64, error) {
	return c.version.Bump(ctx)
}

func (c *AvailabilityCache) Stats() Stats {
	s := Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	return s
}

var _ RoomFinder = (*AvailabilityCache)(nil)
