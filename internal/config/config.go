// Package config loads service configuration from an optional YAML file
// with environment variable overrides, and supports live reload of the
// classifier window via fsnotify.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/matthewbaird/compliance/internal/engine"
)

const (
	defaultPort        = 8080
	defaultDBPath      = "compliance.db"
	defaultRefreshSpec = "0 6 * * *" // daily, 06:00
)

// Config holds service configuration. Reloadable fields live behind
// accessors guarded by a mutex; everything else is fixed at startup.
type Config struct {
	Port           int
	DBPath         string
	ActivityDBPath string
	RefreshSpec    string
	SeedDemo       bool
	ConfigPath     string

	mu                sync.RWMutex
	dueSoonWindowDays int
}

type fileConfig struct {
	Port              *int   `yaml:"port"`
	DBPath            string `yaml:"db_path"`
	ActivityDBPath    string `yaml:"activity_db_path"`
	RefreshSpec       string `yaml:"refresh_spec"`
	DueSoonWindowDays *int   `yaml:"due_soon_window_days"`
}

// Load builds a Config from defaults, then the YAML file at path (if any),
// then environment variables. Path comes from COMPLIANCE_CONFIG when empty.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Port:              defaultPort,
		DBPath:            defaultDBPath,
		RefreshSpec:       defaultRefreshSpec,
		dueSoonWindowDays: engine.DefaultDueSoonWindowDays,
	}

	if path == "" {
		path = os.Getenv("COMPLIANCE_CONFIG")
	}
	cfg.ConfigPath = path
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Port = getenvInt("PORT", cfg.Port)
	cfg.DBPath = getenv("DB_PATH", cfg.DBPath)
	cfg.ActivityDBPath = getenv("ACTIVITY_DB_PATH", cfg.ActivityDBPath)
	cfg.RefreshSpec = getenv("REFRESH_SPEC", cfg.RefreshSpec)
	cfg.SeedDemo = getenvBool("SEED_DEMO", cfg.SeedDemo)
	cfg.dueSoonWindowDays = getenvInt("DUE_SOON_WINDOW_DAYS", cfg.dueSoonWindowDays)

	if cfg.ActivityDBPath == "" {
		cfg.ActivityDBPath = cfg.DBPath
	}
	if cfg.dueSoonWindowDays <= 0 {
		cfg.dueSoonWindowDays = engine.DefaultDueSoonWindowDays
	}

	log.Printf("config: port=%d db=%s due_soon_window=%dd refresh=%q",
		cfg.Port, cfg.DBPath, cfg.dueSoonWindowDays, cfg.RefreshSpec)
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if fc.Port != nil {
		c.Port = *fc.Port
	}
	if fc.DBPath != "" {
		c.DBPath = fc.DBPath
	}
	if fc.ActivityDBPath != "" {
		c.ActivityDBPath = fc.ActivityDBPath
	}
	if fc.RefreshSpec != "" {
		c.RefreshSpec = fc.RefreshSpec
	}
	if fc.DueSoonWindowDays != nil && *fc.DueSoonWindowDays > 0 {
		c.dueSoonWindowDays = *fc.DueSoonWindowDays
	}
	return nil
}

// DueSoonWindowDays returns the current classifier window.
func (c *Config) DueSoonWindowDays() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dueSoonWindowDays
}

// ClassifierConfig snapshots the current classifier settings.
func (c *Config) ClassifierConfig() engine.ClassifierConfig {
	return engine.ClassifierConfig{DueSoonWindowDays: c.DueSoonWindowDays()}
}

// Reload re-reads the reloadable fields from the config file. Fixed fields
// (port, db paths, cron spec) keep their startup values.
func (c *Config) Reload() error {
	if c.ConfigPath == "" {
		return nil
	}
	data, err := os.ReadFile(c.ConfigPath)
	if err != nil {
		return fmt.Errorf("reload config %s: %w", c.ConfigPath, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("reload config %s: %w", c.ConfigPath, err)
	}
	if fc.DueSoonWindowDays != nil && *fc.DueSoonWindowDays > 0 {
		c.mu.Lock()
		if c.dueSoonWindowDays != *fc.DueSoonWindowDays {
			log.Printf("config: due_soon_window_days %d -> %d", c.dueSoonWindowDays, *fc.DueSoonWindowDays)
		}
		c.dueSoonWindowDays = *fc.DueSoonWindowDays
		c.mu.Unlock()
	}
	return nil
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
