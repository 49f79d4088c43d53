// Package imagecache is a two-tier content cache for binary media objects:
// a bounded LRU memory tier over a persistent disk tier with a JSON metadata
// catalog. Lookups read through memory to disk, disk hits are promoted into
// memory, and full misses are delegated to a Loader collaborator.
package imagecache

import (
	"context"
	"io"
	"log/slog"

	"github.com/kvolkow/go-image-cache/config"
	"github.com/kvolkow/go-image-cache/internal/cache"
	"github.com/kvolkow/go-image-cache/internal/telemetry"
	"github.com/kvolkow/go-image-cache/model"
)

// Aliases so callers only import this package and model.
type (
	StoreResult   = cache.StoreResult
	PreloadResult = cache.PreloadResult
	Stats         = cache.Stats
)

type ImageCache interface {
	cache.Cacher
	io.Closer
}

type Cache struct {
	cache.Cacher
	telemetry telemetry.Logger
	cls       context.CancelFunc
}

// New builds a cache from cfg. A nil cfg means the stock configuration. The
// loader is only invoked on full misses; pass loader.New(loader.Config{}) or
// any model.Loader of your own.
func New(ctx context.Context, cfg *config.Cache, logger *slog.Logger, ld model.Loader) (*Cache, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	cfg.Adjust()

	ctx, cancel := context.WithCancel(ctx)
	inner, err := cache.New(cfg, logger, ld)
	if err != nil {
		cancel()
		return nil, err
	}
	telemeter := telemetry.New(ctx, cfg, logger, inner)

	return &Cache{Cacher: inner, telemetry: telemeter, cls: cancel}, nil
}

func (c *Cache) Close() error {
	c.cls()
	return c.telemetry.Close()
}
