// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/chartel/chartel/internal/catalog"
	"github.com/chartel/chartel/internal/models"
	"github.com/chartel/chartel/internal/store/storetest"
)

func channelFixtures() []models.ChannelRow {
	return []models.ChannelRow{
		{ID: "ch_a", Name: "Crypto Daily", Username: "cryptodaily", CountryCode: "US",
			CategorySlug: "crypto", Status: "normal", Verified: true,
			Subscribers: catalog.Float(2100000), EngagementRate: catalog.Float(4.2)},
		{ID: "ch_b", Name: "Morning Brew", Username: "brewnews", CountryCode: "US",
			CategorySlug: "news", Status: "normal",
			Subscribers: catalog.Float(1800000), EngagementRate: catalog.Float(2.1)},
		{ID: "ch_c", Name: "Tech Digest", Username: "techdigest", CountryCode: "DE",
			CategorySlug: "tech", Status: "verified", Verified: true,
			Subscribers: catalog.Float(1200000), EngagementRate: nil},
		{ID: "ch_d", Name: "Quiet Corner", Username: "quietcorner", CountryCode: "DE",
			CategorySlug: "tech", Status: "normal",
			Subscribers: catalog.Float(450000), EngagementRate: catalog.Float(7.9)},
	}
}

func channelFake() *storetest.Fake {
	fake := storetest.NewFake()
	fake.Rows("vw_catalog_channels", channelFixtures(), len(channelFixtures()))
	return fake
}

func TestChannelListDefaultSort(t *testing.T) {
	t.Parallel()

	svc := NewChannelService(channelFake())
	env, err := svc.List(context.Background(), ChannelFilters{}, catalog.ListParams{Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if len(env.Data) != 2 || env.Data[0].ID != "ch_a" || env.Data[1].ID != "ch_b" {
		t.Fatalf("page 1 = %v", env.Data)
	}
	if env.Data[0].Rank != 1 || env.Data[1].Rank != 2 {
		t.Errorf("ranks = [%d %d], want [1 2]", env.Data[0].Rank, env.Data[1].Rank)
	}
	if !env.Page.HasMore || env.Page.NextCursor == nil {
		t.Fatal("expected a second page")
	}
	if env.Meta.TotalEstimate != 4 {
		t.Errorf("total_estimate = %d, want 4", env.Meta.TotalEstimate)
	}

	env2, err := svc.List(context.Background(), ChannelFilters{},
		catalog.ListParams{Limit: 2, Cursor: *env.Page.NextCursor})
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if len(env2.Data) != 2 || env2.Data[0].Rank != 3 || env2.Data[1].Rank != 4 {
		t.Fatalf("page 2 = %v", env2.Data)
	}
	if env2.Page.HasMore || env2.Page.NextCursor != nil {
		t.Error("page 2 must be final")
	}
}

func TestChannelListFilters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		filters ChannelFilters
		wantIDs []string
	}{
		{"country lowercased input", ChannelFilters{CountryCode: "us"}, []string{"ch_a", "ch_b"}},
		{"search over name and username", ChannelFilters{Query: "tech"}, []string{"ch_c"}},
		{"verified only", ChannelFilters{Verified: boolPtr(true)}, []string{"ch_a", "ch_c"}},
		{"er range excludes null metric", ChannelFilters{ERMin: catalog.Float(2)}, []string{"ch_a", "ch_b", "ch_d"}},
		{"er max", ChannelFilters{ERMax: catalog.Float(3)}, []string{"ch_b"}},
		{"category", ChannelFilters{CategorySlug: "tech"}, []string{"ch_c", "ch_d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := NewChannelService(channelFake())
			env, err := svc.List(context.Background(), tt.filters, catalog.ListParams{Limit: 10})
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			got := make([]string, len(env.Data))
			for i, item := range env.Data {
				got[i] = item.ID
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %v, want %v", got, tt.wantIDs)
			}
			for i := range got {
				if got[i] != tt.wantIDs[i] {
					t.Fatalf("got %v, want %v", got, tt.wantIDs)
				}
			}
		})
	}
}

func TestChannelListContradictoryRange(t *testing.T) {
	t.Parallel()

	fake := channelFake()
	svc := NewChannelService(fake)
	_, err := svc.List(context.Background(),
		ChannelFilters{ERMin: catalog.Float(5), ERMax: catalog.Float(1)},
		catalog.ListParams{})
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}
	if fake.CallCount("") != 0 {
		t.Errorf("contradictory range still hit the store %d times", fake.CallCount(""))
	}
}

func TestChannelListBadRequestsNeverReachStore(t *testing.T) {
	t.Parallel()

	fake := channelFake()
	svc := NewChannelService(fake)

	_, err := svc.List(context.Background(), ChannelFilters{}, catalog.ListParams{SortBy: "bogus"})
	if !errors.Is(err, catalog.ErrUnknownSortField) {
		t.Fatalf("err = %v, want ErrUnknownSortField", err)
	}

	_, err = svc.List(context.Background(), ChannelFilters{}, catalog.ListParams{Cursor: "!!garbage!!"})
	if !errors.Is(err, catalog.ErrInvalidCursor) {
		t.Fatalf("err = %v, want ErrInvalidCursor", err)
	}

	if fake.CallCount("") != 0 {
		t.Errorf("invalid requests reached the store %d times, want 0", fake.CallCount(""))
	}
}

func TestChannelOverviewNotFound(t *testing.T) {
	t.Parallel()

	svc := NewChannelService(storetest.NewFake())
	_, err := svc.Overview(context.Background(), "ch_missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestChannelOverviewBatchesSimilarLookup(t *testing.T) {
	t.Parallel()

	fake := storetest.NewFake()
	fake.Rows("vw_channel_overview", []models.ChannelRow{{
		ID: "ch_a", Name: "Crypto Daily",
		Subscribers: catalog.Float(2100000), EngagementRate: catalog.Float(4.2),
	}}, 1)
	fake.Rows("channel_metrics_daily", []models.ChannelMetricDaily{
		{ChannelID: "ch_a", Date: "2026-08-27", Subscribers: catalog.Float(2100000)},
		{ChannelID: "ch_a", Date: "2026-07-29", Subscribers: catalog.Float(2000000)},
	}, 2)
	fake.Rows("channel_similar", []models.SimilarChannelRef{
		{ChannelID: "ch_a", SimilarChannelID: "ch_b"},
		{ChannelID: "ch_a", SimilarChannelID: "ch_c"},
		{ChannelID: "ch_a", SimilarChannelID: "ch_gone"},
	}, 3)
	fake.On("vw_catalog_channels", func(c storetest.Call) (interface{}, int, error) {
		if c.Filters["id"] != "in(3)" {
			return nil, 0, errors.New("similar channels must resolve with one batched in() lookup")
		}
		return []models.ChannelRow{
			{ID: "ch_b", Name: "Morning Brew", Username: "brewnews"},
			{ID: "ch_c", Name: "Tech Digest", Username: "techdigest"},
		}, 2, nil
	})

	svc := NewChannelService(fake)
	overview, err := svc.Overview(context.Background(), "ch_a")
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}

	if fake.CallCount("vw_catalog_channels") != 1 {
		t.Errorf("channel enrichment used %d lookups, want 1", fake.CallCount("vw_catalog_channels"))
	}
	if len(overview.Similar) != 2 {
		t.Errorf("similar = %v, want dangling edge dropped", overview.Similar)
	}

	// KPI delta against the oldest of the trailing rows.
	subs := overview.KPIs.Subscribers
	if subs.Delta == nil || *subs.Delta != 100000 {
		t.Errorf("subscribers delta = %v, want 100000", subs.Delta)
	}
	if subs.DeltaPercent == nil || *subs.DeltaPercent != 5 {
		t.Errorf("subscribers delta_percent = %v, want 5", subs.DeltaPercent)
	}

	// Chart arrives ascending even though history reads newest-first.
	if len(overview.Chart) != 2 || overview.Chart[0].Date != "2026-07-29" {
		t.Errorf("chart = %v, want ascending dates", overview.Chart)
	}
}

func boolPtr(b bool) *bool { return &b }
