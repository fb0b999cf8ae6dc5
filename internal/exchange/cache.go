package exchange

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/d60-Lab/agexport-console/pkg/logger"
)

const redisSnapshotKey = "exchange:usd_rate"

// Snapshot is the externally visible view of the cached rate.
type Snapshot struct {
	Rate      float64   `json:"rate"`
	FetchedAt time.Time `json:"fetched_at"`
	Source    string    `json:"source"` // provider / redis / fallback
}

// RateCache keeps one process-wide USD-per-base-currency rate. A snapshot is
// reused inside the TTL window; after expiry the next caller refetches, with
// concurrent callers coalesced through singleflight. Fetch failures never
// propagate: the last known rate (or the fallback constant) is returned.
//
// When a redis client is supplied the snapshot is mirrored there with the same
// TTL so that fresh processes can warm up without hitting the provider.
type RateCache struct {
	fetcher  RateFetcher
	ttl      time.Duration
	fallback float64
	now      func() time.Time
	rdb      *redis.Client // optional

	mu        sync.RWMutex
	rate      float64
	fetchedAt time.Time
	source    string

	sf singleflight.Group
}

// Option configures a RateCache; used by tests to inject a fake clock.
type Option func(*RateCache)

func WithClock(now func() time.Time) Option {
	return func(c *RateCache) { c.now = now }
}

func WithRedis(rdb *redis.Client) Option {
	return func(c *RateCache) { c.rdb = rdb }
}

func NewRateCache(fetcher RateFetcher, ttl time.Duration, fallback float64, opts ...Option) *RateCache {
	c := &RateCache{
		fetcher:  fetcher,
		ttl:      ttl,
		fallback: fallback,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetRate returns a positive rate and never fails. Callers inside the TTL
// window see the cached value without blocking.
func (c *RateCache) GetRate(ctx context.Context) float64 {
	return c.snapshot(ctx).Rate
}

// CurrentSnapshot refreshes if needed and returns the full snapshot.
func (c *RateCache) CurrentSnapshot(ctx context.Context) Snapshot {
	return c.snapshot(ctx)
}

func (c *RateCache) snapshot(ctx context.Context) Snapshot {
	c.mu.RLock()
	fresh := c.fetchedAt.Add(c.ttl).After(c.now())
	snap := Snapshot{Rate: c.rate, FetchedAt: c.fetchedAt, Source: c.source}
	c.mu.RUnlock()
	if fresh && snap.Rate > 0 {
		return snap
	}

	v, _, _ := c.sf.Do(redisSnapshotKey, func() (interface{}, error) {
		return c.refresh(ctx), nil
	})
	return v.(Snapshot)
}

// refresh performs one provider round-trip (redis first when configured) and
// installs the result. Errors degrade to the previous rate or the fallback.
func (c *RateCache) refresh(ctx context.Context) Snapshot {
	if c.rdb != nil {
		if val, err := c.rdb.Get(ctx, redisSnapshotKey).Result(); err == nil {
			if rate, perr := strconv.ParseFloat(val, 64); perr == nil && rate > 0 {
				return c.install(rate, "redis", false)
			}
		}
	}

	rate, err := c.fetcher.Fetch(ctx)
	if err != nil || rate <= 0 {
		c.mu.RLock()
		last := Snapshot{Rate: c.rate, FetchedAt: c.fetchedAt, Source: c.source}
		c.mu.RUnlock()
		if err != nil {
			logger.Warn("exchange rate fetch failed, using fallback", zap.Error(err))
		}
		if last.Rate > 0 {
			// keep the stale rate but do not extend its window
			return last
		}
		return c.install(c.fallback, "fallback", false)
	}
	return c.install(rate, "provider", true)
}

func (c *RateCache) install(rate float64, source string, mirror bool) Snapshot {
	now := c.now()
	c.mu.Lock()
	c.rate = rate
	c.fetchedAt = now
	c.source = source
	c.mu.Unlock()

	if mirror && c.rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := c.rdb.Set(ctx, redisSnapshotKey, strconv.FormatFloat(rate, 'f', -1, 64), c.ttl).Err(); err != nil {
			logger.Warn("mirror exchange rate to redis failed", zap.Error(err))
		}
	}
	return Snapshot{Rate: rate, FetchedAt: now, Source: source}
}
