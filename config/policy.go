package config

// Policy selects which tiers are active. Exactly the tiers a policy names are
// ever read or written.
type Policy string

const (
	// PolicyNone disables caching entirely.
	PolicyNone Policy = "none"

	// PolicyMemory caches in memory only (fast, not persistent).
	PolicyMemory Policy = "memory"

	// PolicyDisk caches on disk only (persistent, slower).
	PolicyDisk Policy = "disk"

	// PolicyMemoryAndDisk caches in both tiers (default).
	PolicyMemoryAndDisk Policy = "memory_and_disk"
)

func (p Policy) UsesMemory() bool {
	return p == PolicyMemory || p == PolicyMemoryAndDisk
}

func (p Policy) UsesDisk() bool {
	return p == PolicyDisk || p == PolicyMemoryAndDisk
}
