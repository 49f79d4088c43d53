package telemetry

import (
	"context"
	"log/slog"
	"time"

	"github.com/kvolkow/go-image-cache/config"
	"github.com/kvolkow/go-image-cache/internal/cache"
	"github.com/kvolkow/go-image-cache/internal/shared/bytes"
)

type Logger interface {
	Interval() time.Duration
	Close() error
}

// Logs periodically reports tier occupancy vs budget plus per-interval
// hit/miss deltas. Purely observational: it only reads gauges and counters.
type Logs struct {
	ctx      context.Context
	cancel   context.CancelFunc
	cfg      *config.Cache
	logger   *slog.Logger
	cache    cache.Cacher
	interval time.Duration
}

func New(ctx context.Context, cfg *config.Cache, logger *slog.Logger, c cache.Cacher) *Logs {
	ctx, cancel := context.WithCancel(ctx)
	l := &Logs{
		ctx:    ctx,
		cancel: cancel,
		cfg:    cfg,
		logger: logger,
		cache:  c,
	}
	if cfg.Telemetry.Enabled() && cfg.Telemetry.Interval > 0 {
		l.interval = cfg.Telemetry.Interval.Std()
		go l.loop()
	}
	return l
}

func (l *Logs) Interval() time.Duration {
	return l.interval
}

func (l *Logs) Close() error {
	l.cancel()
	return nil
}

// snapshot holds cumulative counters (monotonic).
type snapshot struct {
	memoryHits int64
	diskHits   int64
	misses     int64
	promotions int64
}

func (l *Logs) loop() {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	memLimit := bytes.FmtMem(uint64(max(l.cfg.Memory.SizeBytes, 0)))
	diskLimit := bytes.FmtMem(uint64(max(l.cfg.Disk.SizeBytes, 0)))

	var prev snapshot

	for {
		select {
		case <-l.ctx.Done():
			return

		case <-ticker.C:
			memHits, diskHits, misses, promotions := l.cache.Metrics()
			cur := snapshot{memoryHits: memHits, diskHits: diskHits, misses: misses, promotions: promotions}
			d := snapshot{
				memoryHits: cur.memoryHits - prev.memoryHits,
				diskHits:   cur.diskHits - prev.diskHits,
				misses:     cur.misses - prev.misses,
				promotions: cur.promotions - prev.promotions,
			}
			prev = cur

			st := l.cache.Stats()
			common := []any{"interval", l.interval.String()}

			if l.cfg.Policy.UsesMemory() {
				l.logger.Info("memory_tier",
					append(common,
						"size", bytes.FmtMem(uint64(max(st.MemoryBytes, 0))),
						"entries", st.MemoryEntries,
						"limit", memLimit,
						"hits", d.memoryHits,
						"promotions", d.promotions,
					)...,
				)
			}

			if l.cfg.Policy.UsesDisk() {
				l.logger.Info("disk_tier",
					append(common,
						"size", bytes.FmtMem(uint64(max(st.DiskBytes, 0))),
						"entries", st.DiskEntries,
						"limit", diskLimit,
						"hits", d.diskHits,
					)...,
				)
			}

			l.logger.Info("lookups",
				append(common,
					"hits", d.memoryHits+d.diskHits,
					"misses", d.misses,
				)...,
			)
		}
	}
}
