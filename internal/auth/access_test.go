// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/chartel/chartel/internal/models"
	"github.com/chartel/chartel/internal/store/storetest"
)

func TestStoreAccessChecker(t *testing.T) {
	t.Parallel()

	t.Run("accepted member gets role", func(t *testing.T) {
		t.Parallel()

		fake := storetest.NewFake()
		fake.On("team_members", func(c storetest.Call) (interface{}, int, error) {
			if c.Filters["account_id"] != "eq.acct_1" ||
				c.Filters["user_id"] != "eq.user_1" ||
				c.Filters["status"] != "eq.accepted" {
				t.Errorf("unexpected filters: %v", c.Filters)
			}
			return []models.TeamMember{{
				AccountID: "acct_1", UserID: "user_1", Role: "admin", Status: "accepted",
			}}, 1, nil
		})

		role, err := NewStoreAccessChecker(fake).Check(context.Background(), "acct_1", "user_1")
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		if role != "admin" {
			t.Errorf("role = %q, want admin", role)
		}
	})

	t.Run("non-member denied", func(t *testing.T) {
		t.Parallel()

		fake := storetest.NewFake()
		_, err := NewStoreAccessChecker(fake).Check(context.Background(), "acct_1", "stranger")
		if !errors.Is(err, ErrAccessDenied) {
			t.Errorf("err = %v, want ErrAccessDenied", err)
		}
	})

	t.Run("store error propagates", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("store down")
		fake := storetest.NewFake()
		fake.On("team_members", func(storetest.Call) (interface{}, int, error) {
			return nil, 0, wantErr
		})

		_, err := NewStoreAccessChecker(fake).Check(context.Background(), "acct_1", "user_1")
		if !errors.Is(err, wantErr) {
			t.Errorf("err = %v, want %v", err, wantErr)
		}
	})
}
