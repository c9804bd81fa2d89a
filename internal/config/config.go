// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

// Package config provides layered application configuration via Koanf v2.
//
// Precedence, highest first: environment variables, YAML config file,
// built-in defaults. All settings are plain struct fields with `koanf`
// tags; nothing in the application reads configuration from globals.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root application configuration, injected explicitly into
// every component that needs it.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Store    StoreConfig    `koanf:"store"`
	Security SecurityConfig `koanf:"security"`
	API      APIConfig      `koanf:"api"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// StoreConfig holds row-store client settings. The row store is a hosted
// relational service exposed through a PostgREST-style table-query API.
type StoreConfig struct {
	URL     string        `koanf:"url"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`

	// Circuit breaker settings for the store HTTP client.
	BreakerFailureThreshold uint32        `koanf:"breaker_failure_threshold"`
	BreakerOpenTimeout      time.Duration `koanf:"breaker_open_timeout"`

	// RatePerSecond caps outbound store requests per second.
	// Zero disables client-side rate limiting.
	RatePerSecond float64 `koanf:"rate_per_second"`
}

// SecurityConfig holds authentication and abuse-protection settings.
type SecurityConfig struct {
	// AuthMode selects the authenticator: "jwt" or "none" (development only).
	AuthMode       string        `koanf:"auth_mode"`
	JWTSecret      string        `koanf:"jwt_secret"`
	SessionTimeout time.Duration `koanf:"session_timeout"`

	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// APIConfig holds request-shaping defaults for catalog listings.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks invariants that would otherwise surface as confusing
// runtime failures. Called once at load time.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Store.URL == "" {
		return fmt.Errorf("store.url is required")
	}
	if !strings.HasPrefix(c.Store.URL, "http://") && !strings.HasPrefix(c.Store.URL, "https://") {
		return fmt.Errorf("store.url must be an http(s) URL, got %q", c.Store.URL)
	}

	switch c.Security.AuthMode {
	case "jwt":
		if len(c.Security.JWTSecret) < 32 {
			return fmt.Errorf("security.jwt_secret must be at least 32 characters in jwt mode")
		}
	case "none":
		// Development mode, no credentials required.
	default:
		return fmt.Errorf("security.auth_mode must be \"jwt\" or \"none\", got %q", c.Security.AuthMode)
	}

	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("api.default_page_size must be positive, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api.max_page_size (%d) must be >= api.default_page_size (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}

	return nil
}
