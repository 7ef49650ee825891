package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("LUNCH_BOT_DISTRICT_ID", "42")
	t.Setenv("LUNCH_BOT_MENU_ID", "1234")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "")
	t.Setenv("LUNCH_BOT_CACHE_DIR", "")
	t.Setenv("LUNCH_BOT_CACHE_TTL_IN_MS", "")
	t.Setenv("LUNCH_BOT_TIMEZONE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DistrictID != 42 || cfg.MenuID != 1234 {
		t.Fatalf("unexpected ids: %d, %d", cfg.DistrictID, cfg.MenuID)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("expected default port, got %d", cfg.Port)
	}
	if cfg.CacheDir != DefaultCacheDir {
		t.Errorf("expected default cache dir, got %q", cfg.CacheDir)
	}
	if cfg.CacheTTL != time.Hour {
		t.Errorf("expected 1h TTL, got %s", cfg.CacheTTL)
	}
	if cfg.Timezone != DefaultTimezone {
		t.Errorf("expected default timezone, got %q", cfg.Timezone)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8080")
	t.Setenv("LUNCH_BOT_CACHE_TTL_IN_MS", "60000")
	t.Setenv("LUNCH_BOT_CACHE_DIR", "/tmp/menu-cache")
	t.Setenv("LUNCH_BOT_TIMEZONE", "America/Toronto")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.CacheTTL != time.Minute {
		t.Errorf("expected 1m TTL, got %s", cfg.CacheTTL)
	}
	if cfg.CacheDir != "/tmp/menu-cache" {
		t.Errorf("unexpected cache dir %q", cfg.CacheDir)
	}
	if cfg.Timezone != "America/Toronto" {
		t.Errorf("unexpected timezone %q", cfg.Timezone)
	}
}

func TestLoadRequiresDistrictAndMenu(t *testing.T) {
	t.Setenv("LUNCH_BOT_DISTRICT_ID", "")
	t.Setenv("LUNCH_BOT_MENU_ID", "1234")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing district id")
	}

	t.Setenv("LUNCH_BOT_DISTRICT_ID", "42")
	t.Setenv("LUNCH_BOT_MENU_ID", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing menu id")
	}
}

func TestLoadRejectsNonIntegers(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "eighty")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-integer port")
	}
}
