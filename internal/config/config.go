// Package config loads tool configuration from config.yaml in the uvve
// root. A missing file means stock defaults; a present file overrides only
// the keys it sets.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/uvve-dev/uvve/internal/analyzer"
)

const fileName = "config.yaml"

// Config is the on-disk configuration document.
type Config struct {
	Cleanup CleanupConfig `yaml:"cleanup"`
}

// CleanupConfig holds the health and cleanup thresholds.
type CleanupConfig struct {
	StaleDays         int  `yaml:"stale_days"`
	CriticalDays      int  `yaml:"critical_days"`
	LowUsageThreshold int  `yaml:"low_usage_threshold"`
	IncludeLowUsage   bool `yaml:"include_low_usage"`
}

// Default returns a config populated with the stock policy.
func Default() *Config {
	p := analyzer.DefaultPolicy()
	return &Config{
		Cleanup: CleanupConfig{
			StaleDays:         p.StaleDays,
			CriticalDays:      p.CriticalDays,
			LowUsageThreshold: p.LowUsageThreshold,
			IncludeLowUsage:   p.IncludeLowUsage,
		},
	}
}

// Load reads config.yaml under root. A missing file yields defaults; an
// unreadable or unparseable file is an error, never silently ignored.
func Load(root string) (*Config, error) {
	path := filepath.Join(root, fileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// Unmarshal over defaults so absent keys keep their stock values.
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// Path returns where Load looks under root.
func Path(root string) string {
	return filepath.Join(root, fileName)
}

// normalize replaces nonsensical threshold values with defaults.
func (c *Config) normalize() {
	d := analyzer.DefaultPolicy()
	if c.Cleanup.StaleDays <= 0 {
		c.Cleanup.StaleDays = d.StaleDays
	}
	if c.Cleanup.CriticalDays <= 0 {
		c.Cleanup.CriticalDays = d.CriticalDays
	}
	if c.Cleanup.LowUsageThreshold <= 0 {
		c.Cleanup.LowUsageThreshold = d.LowUsageThreshold
	}
}

// Policy converts the cleanup section into an analyzer policy.
func (c *Config) Policy() analyzer.Policy {
	return analyzer.Policy{
		StaleDays:         c.Cleanup.StaleDays,
		CriticalDays:      c.Cleanup.CriticalDays,
		LowUsageThreshold: c.Cleanup.LowUsageThreshold,
		IncludeLowUsage:   c.Cleanup.IncludeLowUsage,
	}
}
