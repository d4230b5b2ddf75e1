package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.API.URL != "http://localhost:8000" {
		t.Fatalf("default api url: %q", cfg.API.URL)
	}
	if cfg.Refresh.Schedule != "@every 1m" {
		t.Fatalf("default schedule: %q", cfg.Refresh.Schedule)
	}
	if cfg.Smoothing.Window != 5 {
		t.Fatalf("default window: %d", cfg.Smoothing.Window)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Development {
		t.Fatalf("default logging: %+v", cfg.Logging)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  url: http://monitor.local:8000
refresh:
  schedule: "@every 30s"
smoothing:
  window: 9
logging:
  level: debug
  development: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.API.URL != "http://monitor.local:8000" || cfg.Smoothing.Window != 9 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Refresh.Schedule != "@every 30s" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("HOMEMON_API_URL", "http://override:8000")
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.API.URL != "http://override:8000" {
		t.Fatalf("env override ignored: %q", cfg.API.URL)
	}
}

func TestBuildLoggerRejectsBadLevel(t *testing.T) {
	if _, err := buildLogger(LoggingConfig{Level: "noisy"}); err == nil {
		t.Fatalf("expected error for bad level")
	}
	log, err := buildLogger(LoggingConfig{Level: "warn", Development: true})
	if err != nil || log == nil {
		t.Fatalf("build logger: %v", err)
	}
}
