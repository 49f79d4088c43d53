package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/kvolkow/go-image-cache/config"
	"github.com/kvolkow/go-image-cache/internal/cache/disk"
	"github.com/kvolkow/go-image-cache/internal/cache/memory"
	"github.com/kvolkow/go-image-cache/internal/shared/rate"
	"github.com/kvolkow/go-image-cache/model"
)

// Cacher is the orchestrator surface: it composes the tiers the policy
// enables, promotes disk hits into memory and delegates full misses to the
// loader.
type Cacher interface {
	Get(key string) (*model.Value, error)
	Store(v *model.Value) StoreResult
	Load(ctx context.Context, src model.Source) (*model.Value, error)
	Invalidate(key string) error
	Clear() error
	Preload(ctx context.Context, sources []model.Source) []PreloadResult
	Stats() Stats
	Contains(key string) bool
	Metrics() (memoryHits, diskHits, misses, promotions int64)
}

// StoreResult carries the per-tier outcome of a fan-out store. One tier
// failing never blocks the other, so callers can see exactly which tier(s)
// took the payload.
type StoreResult struct {
	Memory error
	Disk   error
}

func (r StoreResult) Err() error { return errors.Join(r.Memory, r.Disk) }

// PreloadResult is the per-source outcome of a bulk warmup.
type PreloadResult struct {
	Source model.Source
	Err    error
}

type Cache struct {
	cfg      *config.Cache
	logger   *slog.Logger
	mem      *memory.Store // nil when the policy excludes the tier
	disk     *disk.Store   // nil when the policy excludes the tier
	loader   model.Loader
	flight   singleflight.Group
	counters *counters
}

func New(cfg *config.Cache, logger *slog.Logger, ld model.Loader) (*Cache, error) {
	c := &Cache{cfg: cfg, logger: logger, loader: ld, counters: newCounters()}
	if cfg.Policy.UsesMemory() {
		c.mem = memory.New(cfg.Memory, cfg.TTL(), logger)
	}
	if cfg.Policy.UsesDisk() {
		d, err := disk.New(cfg.Disk, cfg.TTL())
		if err != nil {
			return nil, err
		}
		c.disk = d
	}
	return c, nil
}

// Get consults the memory tier first, then the disk tier. A disk hit is
// promoted into memory, subject to its own admission rules. A full miss is
// (nil, nil), not an error.
func (c *Cache) Get(key string) (*model.Value, error) {
	if c.mem != nil {
		if v, ok := c.mem.Get(key); ok {
			c.counters.memoryHits.Add(1)
			return v, nil
		}
	}

	if c.disk != nil {
		v, err := c.disk.Get(key)
		if err != nil {
			return nil, err
		}
		if v != nil {
			c.counters.diskHits.Add(1)
			if c.mem != nil {
				c.mem.Put(key, v, model.NewEntry(v))
				c.counters.promotions.Add(1)
			}
			return v, nil
		}
	}

	c.counters.misses.Add(1)
	return nil, nil
}

// Store fans the payload out to every enabled tier. Each tier keeps its own
// metadata record.
func (c *Cache) Store(v *model.Value) StoreResult {
	var res StoreResult
	key := v.CacheKey()
	if c.mem != nil {
		c.mem.Put(key, v, model.NewEntry(v))
	}
	if c.disk != nil {
		res.Disk = c.disk.Put(v, model.NewEntry(v))
	}
	return res
}

// Load returns the cached payload for src, materializing and storing it via
// the loader on a full miss. Concurrent misses for the same key share a
// single loader invocation.
func (c *Cache) Load(ctx context.Context, src model.Source) (*model.Value, error) {
	key := src.CacheKey()
	if v, err := c.Get(key); err != nil || v != nil {
		return v, err
	}

	out, err, _ := c.flight.Do(key, func() (any, error) {
		// A concurrent load may have populated the tiers while we queued.
		if v, err := c.Get(key); err == nil && v != nil {
			return v, nil
		}
		v, err := c.loader.Load(ctx, src)
		if err != nil {
			return nil, err
		}
		if serr := c.Store(v).Err(); serr != nil {
			return nil, serr
		}
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(*model.Value), nil
}

// Invalidate removes key from every enabled tier. Absent keys are fine.
func (c *Cache) Invalidate(key string) error {
	if c.mem != nil {
		c.mem.Pop(key)
	}
	if c.disk != nil {
		return c.disk.Remove(key)
	}
	return nil
}

// Clear empties every enabled tier and its accounting.
func (c *Cache) Clear() error {
	if c.mem != nil {
		c.mem.Clear()
	}
	if c.disk != nil {
		return c.disk.Clear()
	}
	return nil
}

// Preload warms the cache for a batch of sources concurrently, optionally
// throttled by the configured rate. Results carry one outcome per source;
// there is no ordering guarantee between items and no rollback.
func (c *Cache) Preload(ctx context.Context, sources []model.Source) []PreloadResult {
	results := make([]PreloadResult, len(sources))

	var throttle *rate.Jitter
	if c.cfg.Preload.Enabled() {
		throttle = rate.NewJitter(ctx, c.cfg.Preload.Rate)
	}

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src model.Source) {
			defer wg.Done()
			if throttle != nil {
				throttle.Take()
			}
			_, err := c.Load(ctx, src)
			results[i] = PreloadResult{Source: src, Err: err}
		}(i, src)
	}
	wg.Wait()

	return results
}

// Contains reports presence in any enabled, unexpired tier without touching
// recency or access accounting.
func (c *Cache) Contains(key string) bool {
	if c.mem != nil && c.mem.Contains(key) {
		return true
	}
	return c.disk != nil && c.disk.Contains(key)
}

func (c *Cache) Metrics() (memoryHits, diskHits, misses, promotions int64) {
	return c.counters.snapshot()
}
