// Package config resolves runtime settings from the environment with
// sensible defaults rooted in the user's home directory.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DataDir              string
	DBPath               string
	CacheDir             string
	CacheTTL             time.Duration
	SchedulerBuffer      int
	DesktopNotifications bool
}

func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dataDir := filepath.Join(home, ".todod")
	return Config{
		DataDir:              dataDir,
		DBPath:               filepath.Join(dataDir, "todod.db"),
		CacheDir:             filepath.Join(dataDir, "cache"),
		CacheTTL:             7 * 24 * time.Hour,
		SchedulerBuffer:      64,
		DesktopNotifications: false,
	}
}

// FromEnv layers TODOD_* environment overrides on top of base.
// Overriding TODOD_DATA_DIR also moves the derived database and cache
// paths unless those are overridden themselves.
func FromEnv(base Config) Config {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("TODOD_DATA_DIR")); v != "" {
		cfg.DataDir = v
		cfg.DBPath = filepath.Join(v, "todod.db")
		cfg.CacheDir = filepath.Join(v, "cache")
	}
	if v := strings.TrimSpace(os.Getenv("TODOD_DB_PATH")); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv("TODOD_CACHE_DIR")); v != "" {
		cfg.CacheDir = v
	}
	if v, ok := getEnvInt("TODOD_CACHE_TTL_DAYS"); ok && v > 0 {
		cfg.CacheTTL = time.Duration(v) * 24 * time.Hour
	}
	if v, ok := getEnvInt("TODOD_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if v, ok := getEnvBool("TODOD_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	return cfg
}

// EnsureDirs creates the data and cache directories if missing.
func (c Config) EnsureDirs() error {
	for _, dir := range []string{c.DataDir, c.CacheDir, filepath.Dir(c.DBPath)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
