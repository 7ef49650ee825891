// Package config reads the process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DefaultPort         = 3000
	DefaultCacheDir     = ".cache"
	DefaultCacheTTLInMS = 60 * 60 * 1000
	DefaultTimezone     = "America/Los_Angeles"
)

// Options is everything the process needs from the environment.
type Options struct {
	Port       int
	DistrictID int
	MenuID     int

	CacheDir string
	CacheTTL time.Duration

	Timezone string

	SlackVerificationToken string
	JWTSecret              string
}

// Load parses the environment. LUNCH_BOT_DISTRICT_ID and LUNCH_BOT_MENU_ID
// are required; everything else has a default or is optional.
func Load() (*Options, error) {
	districtID, err := requiredInt("LUNCH_BOT_DISTRICT_ID")
	if err != nil {
		return nil, err
	}

	menuID, err := requiredInt("LUNCH_BOT_MENU_ID")
	if err != nil {
		return nil, err
	}

	port, err := optionalInt("PORT", DefaultPort)
	if err != nil {
		return nil, err
	}

	ttlMS, err := optionalInt("LUNCH_BOT_CACHE_TTL_IN_MS", DefaultCacheTTLInMS)
	if err != nil {
		return nil, err
	}

	cacheDir := os.Getenv("LUNCH_BOT_CACHE_DIR")
	if cacheDir == "" {
		cacheDir = DefaultCacheDir
	}

	timezone := os.Getenv("LUNCH_BOT_TIMEZONE")
	if timezone == "" {
		timezone = DefaultTimezone
	}

	return &Options{
		Port:                   port,
		DistrictID:             districtID,
		MenuID:                 menuID,
		CacheDir:               cacheDir,
		CacheTTL:               time.Duration(ttlMS) * time.Millisecond,
		Timezone:               timezone,
		SlackVerificationToken: os.Getenv("SLACK_VERIFICATION_TOKEN"),
		JWTSecret:              os.Getenv("JWT_SECRET"),
	}, nil
}

func requiredInt(key string) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, fmt.Errorf("missing env var: %s", key)
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("env var %s must be an integer, got %q", key, raw)
	}
	return value, nil
}

func optionalInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("env var %s must be an integer, got %q", key, raw)
	}
	return value, nil
}
