package cache

// Stats is a point-in-time snapshot of occupancy vs budget for both tiers.
// Disabled tiers report zeroes.
type Stats struct {
	MemoryEntries int
	MemoryBytes   int64
	MemoryLimit   int64
	DiskEntries   int
	DiskBytes     int64
	DiskLimit     int64
}

// MemoryUsagePercent reports memory occupancy in percent. A zero limit reads
// as 0, never a division error.
func (s Stats) MemoryUsagePercent() float64 {
	if s.MemoryLimit == 0 {
		return 0
	}
	return float64(s.MemoryBytes) / float64(s.MemoryLimit) * 100
}

// DiskUsagePercent reports disk occupancy in percent with the same zero-limit
// guard.
func (s Stats) DiskUsagePercent() float64 {
	if s.DiskLimit == 0 {
		return 0
	}
	return float64(s.DiskBytes) / float64(s.DiskLimit) * 100
}

// Stats reads each tier's gauges under no more than that tier's snapshot
// read lock.
func (c *Cache) Stats() Stats {
	var st Stats
	if c.mem != nil {
		st.MemoryEntries = c.mem.Len()
		st.MemoryBytes = c.mem.Mem()
		st.MemoryLimit = c.cfg.Memory.SizeBytes
	}
	if c.disk != nil {
		st.DiskEntries = c.disk.Len()
		st.DiskBytes = c.disk.Mem()
		st.DiskLimit = c.cfg.Disk.SizeBytes
	}
	return st
}
