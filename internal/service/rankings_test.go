// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package service

import (
	"context"
	"testing"

	"github.com/chartel/chartel/internal/catalog"
	"github.com/chartel/chartel/internal/models"
	"github.com/chartel/chartel/internal/store/storetest"
)

func rankingFake() *storetest.Fake {
	fake := storetest.NewFake()
	fake.On("channel_rankings_daily", func(c storetest.Call) (interface{}, int, error) {
		if c.Filters["scope_value"] != "eq.US" {
			return []models.RankingRow{}, 0, nil
		}
		if c.Limit == 1 {
			return []map[string]string{{"snapshot_date": "2026-08-28"}}, 1, nil
		}
		return []models.RankingRow{
			{ChannelID: "ch_a", Scope: "country", ScopeValue: "US", SnapshotDate: "2026-08-28",
				Rank: 1, Subscribers: catalog.Float(2100000)},
			{ChannelID: "ch_b", Scope: "country", ScopeValue: "US", SnapshotDate: "2026-08-28",
				Rank: 2, Subscribers: catalog.Float(1800000)},
			{ChannelID: "ch_gone", Scope: "country", ScopeValue: "US", SnapshotDate: "2026-08-28",
				Rank: 3, Subscribers: catalog.Float(900000)},
		}, 3, nil
	})
	fake.Rows("vw_catalog_channels", []models.ChannelRow{
		{ID: "ch_a", Name: "Crypto Daily", Username: "cryptodaily"},
		{ID: "ch_b", Name: "Morning Brew", Username: "brewnews"},
	}, 2)
	return fake
}

func TestCountryRankingEnrichment(t *testing.T) {
	t.Parallel()

	fake := rankingFake()
	svc := NewRankingService(fake)

	// Lowercase input must still hit the uppercased scope value.
	env, err := svc.Countries(context.Background(), "us", "", 10)
	if err != nil {
		t.Fatalf("Countries: %v", err)
	}

	if len(env.Data) != 3 {
		t.Fatalf("items = %v", env.Data)
	}
	if env.Data[0].Rank != 1 || env.Data[0].ChannelName != "Crypto Daily" {
		t.Errorf("item 1 = %+v", env.Data[0])
	}
	if env.Data[2].ChannelName != ChannelNamePlaceholder {
		t.Errorf("missing channel name = %q, want placeholder", env.Data[2].ChannelName)
	}
	if env.Meta.Scope != "country" || env.Meta.ScopeValue != "US" {
		t.Errorf("meta = %+v", env.Meta)
	}
	if env.Meta.SnapshotDate == nil || *env.Meta.SnapshotDate != "2026-08-28" {
		t.Errorf("snapshot_date = %v", env.Meta.SnapshotDate)
	}
	if fake.CallCount("vw_catalog_channels") != 1 {
		t.Errorf("enrichment used %d lookups, want 1 batched", fake.CallCount("vw_catalog_channels"))
	}
}

func TestRankingPagination(t *testing.T) {
	t.Parallel()

	svc := NewRankingService(rankingFake())
	page1, err := svc.Countries(context.Background(), "US", "", 2)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if len(page1.Data) != 2 || !page1.Page.HasMore || page1.Page.NextCursor == nil {
		t.Fatalf("page 1 = %+v", page1)
	}

	page2, err := svc.Countries(context.Background(), "US", *page1.Page.NextCursor, 2)
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(page2.Data) != 1 || page2.Data[0].Rank != 3 {
		t.Fatalf("page 2 = %+v", page2.Data)
	}
	if page2.Page.HasMore || page2.Page.NextCursor != nil {
		t.Error("page 2 must be final")
	}
}

func TestEmptyScopeIsWellFormed(t *testing.T) {
	t.Parallel()

	svc := NewRankingService(rankingFake())
	env, err := svc.Categories(context.Background(), "nonexistent", "", 10)
	if err != nil {
		t.Fatalf("empty scope must not error: %v", err)
	}
	if len(env.Data) != 0 || env.Page.HasMore || env.Page.NextCursor != nil {
		t.Errorf("empty scope = %+v", env)
	}
	if env.Meta.SnapshotDate != nil {
		t.Errorf("snapshot_date = %v, want nil", *env.Meta.SnapshotDate)
	}
}

func TestCollections(t *testing.T) {
	t.Parallel()

	fake := storetest.NewFake()
	fake.Rows("collections", []models.CollectionRow{
		{Slug: "rising-stars", Name: "Rising Stars"},
		{Slug: "editors-picks", Name: "Editors Picks"},
	}, 2)
	fake.On("collection_channels", func(c storetest.Call) (interface{}, int, error) {
		if c.Filters["collection_slug"] != "in(2)" {
			t.Errorf("member counts must come from one batched link query, got %v", c.Filters)
		}
		return []models.CollectionLink{
			{CollectionSlug: "rising-stars", ChannelID: "ch_a"},
			{CollectionSlug: "rising-stars", ChannelID: "ch_b"},
			{CollectionSlug: "editors-picks", ChannelID: "ch_a"},
		}, 3, nil
	})

	svc := NewRankingService(fake)
	env, err := svc.Collections(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("Collections: %v", err)
	}

	if len(env.Data) != 2 {
		t.Fatalf("collections = %v", env.Data)
	}
	// Name-ordered.
	if env.Data[0].Slug != "editors-picks" || env.Data[1].Slug != "rising-stars" {
		t.Errorf("order = [%s %s]", env.Data[0].Slug, env.Data[1].Slug)
	}
	if env.Data[0].ChannelCount != 1 || env.Data[1].ChannelCount != 2 {
		t.Errorf("counts = [%d %d], want [1 2]", env.Data[0].ChannelCount, env.Data[1].ChannelCount)
	}
	if fake.CallCount("collection_channels") != 1 {
		t.Errorf("link query ran %d times, want 1", fake.CallCount("collection_channels"))
	}
}
