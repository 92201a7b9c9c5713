package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.DataDir == "" || cfg.DBPath == "" || cfg.CacheDir == "" {
		t.Fatalf("empty path defaults: %+v", cfg)
	}
	if cfg.CacheTTL != 7*24*time.Hour {
		t.Fatalf("unexpected cache TTL default: %v", cfg.CacheTTL)
	}
	if cfg.SchedulerBuffer != 64 || cfg.DesktopNotifications {
		t.Fatalf("unexpected runtime defaults: %+v", cfg)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("TODOD_DATA_DIR", "/tmp/todod-test")
	t.Setenv("TODOD_CACHE_TTL_DAYS", "3")
	t.Setenv("TODOD_SCHEDULER_BUFFER", "128")
	t.Setenv("TODOD_DESKTOP_NOTIFICATIONS", "yes")

	cfg := FromEnv(Default())
	if cfg.DataDir != "/tmp/todod-test" {
		t.Fatalf("unexpected data dir: %q", cfg.DataDir)
	}
	if cfg.DBPath != filepath.Join("/tmp/todod-test", "todod.db") {
		t.Fatalf("db path did not follow data dir: %q", cfg.DBPath)
	}
	if cfg.CacheDir != filepath.Join("/tmp/todod-test", "cache") {
		t.Fatalf("cache dir did not follow data dir: %q", cfg.CacheDir)
	}
	if cfg.CacheTTL != 3*24*time.Hour {
		t.Fatalf("unexpected cache TTL: %v", cfg.CacheTTL)
	}
	if cfg.SchedulerBuffer != 128 || !cfg.DesktopNotifications {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
}

func TestFromEnvExplicitPathsWin(t *testing.T) {
	t.Setenv("TODOD_DATA_DIR", "/tmp/todod-test")
	t.Setenv("TODOD_DB_PATH", "/elsewhere/tasks.db")
	t.Setenv("TODOD_CACHE_DIR", "/elsewhere/cache")

	cfg := FromEnv(Default())
	if cfg.DBPath != "/elsewhere/tasks.db" || cfg.CacheDir != "/elsewhere/cache" {
		t.Fatalf("explicit paths not honored: %+v", cfg)
	}
}

func TestFromEnvIgnoresBadValues(t *testing.T) {
	t.Setenv("TODOD_CACHE_TTL_DAYS", "soon")
	t.Setenv("TODOD_SCHEDULER_BUFFER", "-1")
	t.Setenv("TODOD_DESKTOP_NOTIFICATIONS", "maybe")

	base := Default()
	cfg := FromEnv(base)
	if cfg.CacheTTL != base.CacheTTL || cfg.SchedulerBuffer != base.SchedulerBuffer {
		t.Fatalf("bad values should keep defaults: %+v", cfg)
	}
	if cfg.DesktopNotifications != base.DesktopNotifications {
		t.Fatalf("bad bool should keep default: %+v", cfg)
	}
}
