// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

// Package config loads and validates RastroO configuration from defaults,
// an optional YAML file, and environment variables, in that order of
// precedence (env highest).
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration for the RastroO server.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Store     StoreConfig     `koanf:"store"`
	Ingest    IngestConfig    `koanf:"ingest"`
	Report    ReportConfig    `koanf:"report"`
	Security  SecurityConfig  `koanf:"security"`
	Instagram InstagramConfig `koanf:"instagram"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// StaticDir is served at the web root (dashboard and snippet).
	// Empty disables static file serving.
	StaticDir string `koanf:"static_dir"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StoreConfig selects and configures the event store backend.
type StoreConfig struct {
	// Backend is "memory" or "badger".
	Backend string `koanf:"backend"`
	// Path is the BadgerDB directory. Ignored by the memory backend.
	Path string `koanf:"path"`
}

// IngestConfig holds event ingestion settings.
type IngestConfig struct {
	// SessionWindow and SessionMaxEvents bound the per-session throttle:
	// at most SessionMaxEvents accepted per session per SessionWindow.
	SessionWindow    time.Duration `koanf:"session_window"`
	SessionMaxEvents int           `koanf:"session_max_events"`
	// DedupeOrderIDs rejects a sale whose order ID was already recorded.
	DedupeOrderIDs bool `koanf:"dedupe_order_ids"`
	// DefaultCurrency is applied to sales that carry no currency.
	DefaultCurrency string `koanf:"default_currency"`
	// FingerprintSalt is mixed into the visitor fingerprint hash.
	FingerprintSalt string `koanf:"fingerprint_salt"`
}

// ReportConfig holds report aggregation settings.
type ReportConfig struct {
	// Timezone is the IANA zone used to interpret report date bounds.
	Timezone string `koanf:"timezone"`
}

// SecurityConfig holds HTTP-level protection settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// InstagramConfig holds the optional Instagram Graph integration.
type InstagramConfig struct {
	Enabled     bool          `koanf:"enabled"`
	BaseURL     string        `koanf:"base_url"`
	AccessToken string        `koanf:"access_token"`
	UserID      string        `koanf:"user_id"`
	Timeout     time.Duration `koanf:"timeout"`
	// RequestsPerMinute caps outbound Graph API calls.
	RequestsPerMinute int `koanf:"requests_per_minute"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	switch c.Store.Backend {
	case "memory":
	case "badger":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the badger backend")
		}
	default:
		return fmt.Errorf("store.backend must be \"memory\" or \"badger\", got %q", c.Store.Backend)
	}

	if c.Ingest.SessionWindow <= 0 {
		return fmt.Errorf("ingest.session_window must be positive, got %s", c.Ingest.SessionWindow)
	}
	if c.Ingest.SessionMaxEvents < 1 {
		return fmt.Errorf("ingest.session_max_events must be at least 1, got %d", c.Ingest.SessionMaxEvents)
	}
	if len(c.Ingest.DefaultCurrency) != 3 {
		return fmt.Errorf("ingest.default_currency must be a 3-letter code, got %q", c.Ingest.DefaultCurrency)
	}

	if _, err := time.LoadLocation(c.Report.Timezone); err != nil {
		return fmt.Errorf("report.timezone %q is not a valid IANA zone: %w", c.Report.Timezone, err)
	}

	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("security.rate_limit_reqs must be at least 1, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive, got %s", c.Security.RateLimitWindow)
		}
	}

	if c.Instagram.Enabled {
		if c.Instagram.AccessToken == "" {
			return fmt.Errorf("instagram.access_token is required when instagram.enabled is true")
		}
		if !strings.HasPrefix(c.Instagram.BaseURL, "http") {
			return fmt.Errorf("instagram.base_url must be an http(s) URL, got %q", c.Instagram.BaseURL)
		}
		if c.Instagram.RequestsPerMinute < 1 {
			return fmt.Errorf("instagram.requests_per_minute must be at least 1, got %d", c.Instagram.RequestsPerMinute)
		}
	}

	return nil
}

// ReportLocation returns the loaded report timezone.
// Validate must have succeeded before calling this.
func (c *Config) ReportLocation() *time.Location {
	loc, err := time.LoadLocation(c.Report.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
