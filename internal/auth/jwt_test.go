// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package auth

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	m := NewJWTManager(testSecret, time.Hour)
	token, err := m.GenerateToken("user_1", "u@example.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "user_1" || claims.Email != "u@example.com" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateTokenRejections(t *testing.T) {
	t.Parallel()

	m := NewJWTManager(testSecret, time.Hour)

	t.Run("garbage", func(t *testing.T) {
		t.Parallel()
		if _, err := m.ValidateToken("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()
		other := NewJWTManager(strings.Repeat("x", 32), time.Hour)
		token, err := other.GenerateToken("user_1", "")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := m.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		short := NewJWTManager(testSecret, -time.Minute)
		token, err := short.GenerateToken("user_1", "")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := m.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})
}

func TestJWTAuthenticator(t *testing.T) {
	t.Parallel()

	m := NewJWTManager(testSecret, time.Hour)
	a := NewJWTAuthenticator(m)

	token, err := m.GenerateToken("user_7", "seven@example.com")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantUser   string
		wantErr    bool
	}{
		{"valid bearer token", "Bearer " + token, "user_7", false},
		{"missing header", "", "", true},
		{"wrong scheme", "Basic abc", "", true},
		{"empty bearer", "Bearer ", "", true},
		{"invalid token", "Bearer garbage", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest("GET", "/v1.0/channels", nil)
			if tt.authHeader != "" {
				r.Header.Set("Authorization", tt.authHeader)
			}

			identity, err := a.Authenticate(r)
			if tt.wantErr {
				if !errors.Is(err, ErrUnauthenticated) {
					t.Errorf("err = %v, want ErrUnauthenticated", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Authenticate: %v", err)
			}
			if identity.UserID != tt.wantUser {
				t.Errorf("UserID = %q, want %q", identity.UserID, tt.wantUser)
			}
		})
	}
}
