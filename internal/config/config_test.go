// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := Default()
	cfg.Store.URL = "https://store.example.com"
	cfg.Security.JWTSecret = strings.Repeat("s", 32)
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config passes",
			mutate: func(*Config) {},
		},
		{
			name:    "missing store url",
			mutate:  func(c *Config) { c.Store.URL = "" },
			wantErr: "store.url is required",
		},
		{
			name:    "non-http store url",
			mutate:  func(c *Config) { c.Store.URL = "postgres://db" },
			wantErr: "store.url must be an http(s) URL",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "jwt mode requires long secret",
			mutate:  func(c *Config) { c.Security.JWTSecret = "short" },
			wantErr: "jwt_secret",
		},
		{
			name: "none mode requires no secret",
			mutate: func(c *Config) {
				c.Security.AuthMode = "none"
				c.Security.JWTSecret = ""
			},
		},
		{
			name:    "unknown auth mode rejected",
			mutate:  func(c *Config) { c.Security.AuthMode = "basic" },
			wantErr: "auth_mode",
		},
		{
			name: "max page size below default rejected",
			mutate: func(c *Config) {
				c.API.DefaultPageSize = 50
				c.API.MaxPageSize = 20
			},
			wantErr: "max_page_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransform(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"SERVER_PORT", "server.port"},
		{"STORE_API_KEY", "store.api_key"},
		{"SECURITY_RATE_LIMIT_REQUESTS", "security.rate_limit_requests"},
		{"API_MAX_PAGE_SIZE", "api.max_page_size"},
		{"LOGGING_LEVEL", "logging.level"},
		{"HOME", ""},
		{"PATH", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := envTransform(tt.input); got != tt.want {
				t.Errorf("envTransform(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("STORE_URL", "https://store.example.com")
	t.Setenv("SECURITY_AUTH_MODE", "none")
	t.Setenv("SERVER_PORT", "9191")
	t.Setenv("API_DEFAULT_PAGE_SIZE", "25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 9191 {
		t.Errorf("Server.Port = %d, want 9191", cfg.Server.Port)
	}
	if cfg.API.DefaultPageSize != 25 {
		t.Errorf("API.DefaultPageSize = %d, want 25", cfg.API.DefaultPageSize)
	}
	if cfg.Store.URL != "https://store.example.com" {
		t.Errorf("Store.URL = %q", cfg.Store.URL)
	}
}
