// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/chartel/chartel/internal/models"
	"github.com/chartel/chartel/internal/store"
)

// ErrAccessDenied is returned when a user holds no accepted membership in
// an account.
var ErrAccessDenied = errors.New("access denied")

// AccessChecker resolves a user's role within an account, or denies.
type AccessChecker interface {
	Check(ctx context.Context, accountID, userID string) (string, error)
}

// StoreAccessChecker checks accepted team memberships in the row store.
type StoreAccessChecker struct {
	store store.Client
}

// NewStoreAccessChecker builds a checker on the given store client.
func NewStoreAccessChecker(s store.Client) *StoreAccessChecker {
	return &StoreAccessChecker{store: s}
}

// Check implements AccessChecker. Only accepted memberships grant access;
// pending or revoked rows deny.
func (c *StoreAccessChecker) Check(ctx context.Context, accountID, userID string) (string, error) {
	var rows []models.TeamMember
	_, err := c.store.From("team_members").
		Select("account_id", "user_id", "role", "status").
		Eq("account_id", accountID).
		Eq("user_id", userID).
		Eq("status", "accepted").
		Limit(1).
		Execute(ctx, &rows)
	if err != nil {
		return "", fmt.Errorf("checking account access: %w", err)
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("user %s on account %s: %w", userID, accountID, ErrAccessDenied)
	}
	return rows[0].Role, nil
}
