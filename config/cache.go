package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration accepts yaml scalars like "5s" or "1h30m" as well as plain
// nanosecond integers.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", s, err)
		}
		*d = Duration(v)
		return nil
	}

	var n int64
	if err := value.Decode(&n); err != nil {
		return err
	}
	*d = Duration(n)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Cache groups configuration of both tiers and the optional subsystems.
// Optional subsystems are disabled by leaving their pointer nil.
type Cache struct {
	// Policy selects the active tiers. Empty means memory_and_disk.
	Policy Policy `yaml:"policy"`

	Memory MemoryCfg `yaml:"memory"`
	Disk   DiskCfg   `yaml:"disk"`

	// Lifetime configures time-based expiry of cached entries.
	// If nil, entries never expire by time.
	Lifetime *LifetimeCfg `yaml:"lifetime"`

	// Telemetry configures periodic occupancy logging.
	// If nil, no telemetry loop is started.
	Telemetry *TelemetryCfg `yaml:"telemetry"`

	// Preload throttles bulk warming. If nil, preload runs unthrottled.
	Preload *PreloadCfg `yaml:"preload"`
}

type MemoryCfg struct {
	// SizeBytes is the byte budget of the memory tier. A single payload
	// larger than the whole budget is never admitted. Zero admits nothing.
	SizeBytes int64 `yaml:"size"`

	// MaxItems is the hard item-count ceiling of the memory tier.
	MaxItems int `yaml:"max_items"`
}

type DiskCfg struct {
	// SizeBytes is the byte budget of the disk tier. Zero admits nothing.
	SizeBytes int64 `yaml:"size"`

	// Dir is where payload files and the metadata catalog live.
	// Empty defaults to a per-user platform cache directory.
	Dir string `yaml:"dir"`
}

type LifetimeCfg struct {
	// TTL is the maximum age of a cached entry. Expiry is detected lazily
	// at read time; there is no background reaper.
	TTL Duration `yaml:"ttl"`
}

func (cfg *LifetimeCfg) Enabled() bool { return cfg != nil }

type TelemetryCfg struct {
	// Interval between occupancy log lines. Example: "5s".
	Interval Duration `yaml:"interval"`
}

func (cfg *TelemetryCfg) Enabled() bool { return cfg != nil }

type PreloadCfg struct {
	// Rate caps how many loader invocations per second a Preload call may
	// issue. Zero or negative disables throttling.
	Rate int `yaml:"rate"`
}

func (cfg *PreloadCfg) Enabled() bool { return cfg != nil && cfg.Rate > 0 }

// TTL returns the configured entry lifetime, or zero when entries never
// expire.
func (cfg *Cache) TTL() time.Duration {
	if cfg.Lifetime.Enabled() {
		return cfg.Lifetime.TTL.Std()
	}
	return 0
}
