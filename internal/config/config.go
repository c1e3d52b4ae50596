package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type AppConfig struct {
	FotBaseURL string
	HTTPAddr   string

	RedisURL string

	SessionTTLSec      int
	FixtureCacheTTLSec int
	RosterCacheTTLSec  int

	DefaultTimezone   string
	FixtureWindowDays int

	AllowedOrigins []string

	FotTimeoutSec int
	FotRetries    int

	MsgTemplateDir  string
	EventCatalogDir string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		HTTPAddr:           ":8080",
		SessionTTLSec:      21600,
		FixtureCacheTTLSec: 300,
		RosterCacheTTLSec:  21600,
		DefaultTimezone:    "UTC",
		FixtureWindowDays:  1,
		FotTimeoutSec:      8,
		FotRetries:         2,
	}

	cfg.FotBaseURL = strings.TrimSpace(os.Getenv("FOT_BASE_URL"))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))

	if v := strings.TrimSpace(os.Getenv("HTTP_ADDR")); v != "" {
		cfg.HTTPAddr = v
	}

	if v := strings.TrimSpace(os.Getenv("SESSION_TTL")); v != "" { // seconds
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionTTLSec = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("FIXTURE_CACHE_TTL")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.FixtureCacheTTLSec = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("ROSTER_CACHE_TTL")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RosterCacheTTLSec = n
		}
	}

	if v := strings.TrimSpace(os.Getenv("DEFAULT_TZ")); v != "" {
		cfg.DefaultTimezone = v
	}
	if v := strings.TrimSpace(os.Getenv("FIXTURE_WINDOW_DAYS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.FixtureWindowDays = n
		}
	}
	if cfg.FixtureWindowDays > 2 {
		cfg.FixtureWindowDays = 2
	}

	if v := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); v != "" {
		parts := strings.Split(v, ",")
		for _, p := range parts {
			s := strings.TrimSpace(p)
			if s != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, s)
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv("FOT_TIMEOUT")); v != "" { // seconds
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.FotTimeoutSec = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("FOT_RETRIES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.FotRetries = n
		}
	}

	cfg.MsgTemplateDir = strings.TrimSpace(os.Getenv("MSG_TEMPLATE_DIR"))
	cfg.EventCatalogDir = strings.TrimSpace(os.Getenv("EVENT_CATALOG_DIR"))

	if cfg.FotBaseURL == "" {
		return nil, errors.New("FOT_BASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}

	return cfg, nil
}
