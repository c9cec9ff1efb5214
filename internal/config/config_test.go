package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.MongoURI == "" || cfg.MongoDB == "" || cfg.Port == "" {
		t.Errorf("defaults missing: %+v", cfg)
	}
	if cfg.CacheTTL <= 0 {
		t.Errorf("CacheTTL = %v, want positive default", cfg.CacheTTL)
	}
}

func TestCacheTTLOverride(t *testing.T) {
	t.Setenv("CACHE_TTL_SECONDS", "30")
	cfg := LoadConfig()
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("CacheTTL = %v, want 30s", cfg.CacheTTL)
	}

	t.Setenv("CACHE_TTL_SECONDS", "not-a-number")
	cfg = LoadConfig()
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v, want 5m fallback", cfg.CacheTTL)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" http://localhost:1420 ,, tauri://localhost ")
	if len(got) != 2 || got[0] != "http://localhost:1420" || got[1] != "tauri://localhost" {
		t.Errorf("splitList = %v", got)
	}
}
