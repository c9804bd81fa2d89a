// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package models

// RankingRow is one row of channel_rankings_daily: a channel's pre-computed
// rank within one scope (country or category) as of one snapshot date.
type RankingRow struct {
	ChannelID    string   `json:"channel_id"`
	Scope        string   `json:"scope"`
	ScopeValue   string   `json:"scope_value"`
	SnapshotDate string   `json:"snapshot_date"`
	Rank         int      `json:"rank"`
	Subscribers  *float64 `json:"subscribers"`
	Growth24h    *float64 `json:"growth_24h"`
}

// RankingItem is one ranked channel in a rankings response, enriched with
// channel identity from a batched lookup. A channel missing from the lookup
// keeps its rank with a placeholder name.
type RankingItem struct {
	Rank        int      `json:"rank"`
	ChannelID   string   `json:"channel_id"`
	ChannelName string   `json:"channel_name"`
	Username    string   `json:"username,omitempty"`
	Subscribers *float64 `json:"subscribers"`
	Growth24h   *float64 `json:"growth_24h"`
}

// RankingMeta describes the scope and snapshot a rankings page was built
// from.
type RankingMeta struct {
	Scope        string  `json:"scope"`
	ScopeValue   string  `json:"scope_value,omitempty"`
	SnapshotDate *string `json:"snapshot_date"`
}

// RankingEnvelope is the rankings listing response.
type RankingEnvelope struct {
	Data []RankingItem `json:"data"`
	Page Page          `json:"page"`
	Meta RankingMeta   `json:"meta"`
}

// Collection is one curated channel collection with its member count.
type Collection struct {
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	ChannelCount int    `json:"channel_count"`
}

// CollectionLink is one membership row (collection_channels).
type CollectionLink struct {
	CollectionSlug string `json:"collection_slug"`
	ChannelID      string `json:"channel_id"`
}

// CollectionRow is one row of the collections table, before counting.
type CollectionRow struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
