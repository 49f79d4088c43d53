package cache

import "sync/atomic"

type counters struct {
	memoryHits atomic.Int64
	diskHits   atomic.Int64
	misses     atomic.Int64
	promotions atomic.Int64
}

func newCounters() *counters {
	return &counters{}
}

func (c *counters) snapshot() (memoryHits, diskHits, misses, promotions int64) {
	return c.memoryHits.Load(), c.diskHits.Load(), c.misses.Load(), c.promotions.Load()
}
