// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package auth

import (
	"errors"
	"net/http"
	"strings"
)

// ErrUnauthenticated is returned when a request carries no usable identity.
var ErrUnauthenticated = errors.New("unauthenticated")

// Identity is the resolved caller of a request.
type Identity struct {
	UserID string
	Email  string
}

// Authenticator resolves the caller identity from an incoming request.
type Authenticator interface {
	Authenticate(r *http.Request) (*Identity, error)
}

// JWTAuthenticator authenticates Bearer tokens against a JWTManager.
type JWTAuthenticator struct {
	manager *JWTManager
}

// NewJWTAuthenticator builds an authenticator on the given manager.
func NewJWTAuthenticator(manager *JWTManager) *JWTAuthenticator {
	return &JWTAuthenticator{manager: manager}
}

// Authenticate implements Authenticator.
func (a *JWTAuthenticator) Authenticate(r *http.Request) (*Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, ErrUnauthenticated
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := a.manager.ValidateToken(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	return &Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

// NoneAuthenticator accepts every request as a fixed development identity.
// Selected by auth_mode=none; never for production.
type NoneAuthenticator struct{}

// Authenticate implements Authenticator.
func (NoneAuthenticator) Authenticate(*http.Request) (*Identity, error) {
	return &Identity{UserID: "dev", Email: "dev@localhost"}, nil
}
