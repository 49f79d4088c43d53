package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMemorySizeBytes = 100 << 20 // 100 MiB
	DefaultDiskSizeBytes   = 500 << 20 // 500 MiB
	DefaultMemoryMaxItems  = 100

	defaultDirName = "go-image-cache"
)

// Default returns the stock configuration: both tiers enabled with the
// default budgets and no expiry.
func Default() *Cache {
	return &Cache{
		Policy: PolicyMemoryAndDisk,
		Memory: MemoryCfg{SizeBytes: DefaultMemorySizeBytes, MaxItems: DefaultMemoryMaxItems},
		Disk:   DiskCfg{SizeBytes: DefaultDiskSizeBytes},
	}
}

// Adjust normalizes the configuration in place. Explicit zero limits are kept
// as-is; a zero-limit tier degrades to admitting nothing rather than failing.
func (cfg *Cache) Adjust() {
	if cfg.Policy == "" {
		cfg.Policy = PolicyMemoryAndDisk
	}
	if cfg.Policy.UsesDisk() && cfg.Disk.Dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = "."
		}
		cfg.Disk.Dir = filepath.Join(base, defaultDirName)
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (*Cache, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config yaml file %s: %w", path, err)
	}

	cfg := Default()
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml from %s: %w", path, err)
	}
	cfg.Adjust()

	return cfg, nil
}
