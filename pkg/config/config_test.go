package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Sources.ReleasesURL == "" || cfg.Sources.SupportedURL == "" {
		t.Error("default source URLs must be set")
	}
	if cfg.Heuristic.MaxAge() != 180*24*time.Hour {
		t.Errorf("MaxAge = %s", cfg.Heuristic.MaxAge())
	}
	if cfg.Heuristic.CompareWindow() != 31*24*time.Hour {
		t.Errorf("CompareWindow = %s", cfg.Heuristic.CompareWindow())
	}
	if cfg.Check.VersionHeader != "X-OWA-Version" {
		t.Errorf("VersionHeader = %q", cfg.Check.VersionHeader)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Error("missing file should yield defaults")
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[heuristic]
max_age_days = 90

[cache]
redis_addr = "localhost:6379"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Heuristic.MaxAgeDays != 90 {
		t.Errorf("MaxAgeDays = %d, want the file's 90", cfg.Heuristic.MaxAgeDays)
	}
	if cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q", cfg.Cache.RedisAddr)
	}
	// Unset fields keep their defaults.
	if cfg.Heuristic.CompareWindowDays != 31 {
		t.Errorf("CompareWindowDays = %d, want default 31", cfg.Heuristic.CompareWindowDays)
	}
	if cfg.Sources.ReleasesURL != DefaultReleasesURL {
		t.Errorf("ReleasesURL = %q, want default", cfg.Sources.ReleasesURL)
	}
}

func TestLoadBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected decode error")
	}
}
