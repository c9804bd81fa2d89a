// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package models

import (
	"time"

	"github.com/chartel/chartel/internal/catalog"
)

// ChannelRow is one row of the denormalized channel catalog view
// (vw_catalog_channels). Metric columns are nullable: a freshly discovered
// channel may not have been measured yet.
type ChannelRow struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Username       string     `json:"username"`
	CountryCode    string     `json:"country_code"`
	CategorySlug   string     `json:"category_slug"`
	CategoryName   string     `json:"category_name"`
	SizeBucket     string     `json:"size_bucket"`
	Status         string     `json:"status"`
	Verified       bool       `json:"verified"`
	Scam           bool       `json:"scam"`
	Subscribers    *float64   `json:"subscribers"`
	Growth24h      *float64   `json:"growth_24h"`
	Growth7d       *float64   `json:"growth_7d"`
	Growth30d      *float64   `json:"growth_30d"`
	EngagementRate *float64   `json:"engagement_rate"`
	AvgViews       *float64   `json:"avg_views"`
	PostsPerDay    *float64   `json:"posts_per_day"`
	UpdatedAt      *time.Time `json:"updated_at"`
}

// ChannelListItem is one ranked entry of the channel catalog response.
type ChannelListItem struct {
	Rank           int        `json:"rank"`
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Username       string     `json:"username"`
	CountryCode    string     `json:"country_code,omitempty"`
	CategorySlug   string     `json:"category_slug,omitempty"`
	CategoryName   string     `json:"category_name,omitempty"`
	SizeBucket     string     `json:"size_bucket,omitempty"`
	Status         string     `json:"status,omitempty"`
	Verified       bool       `json:"verified"`
	Scam           bool       `json:"scam"`
	Subscribers    *float64   `json:"subscribers"`
	Growth24h      *float64   `json:"growth_24h"`
	Growth7d       *float64   `json:"growth_7d"`
	Growth30d      *float64   `json:"growth_30d"`
	EngagementRate *float64   `json:"engagement_rate"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// ChannelMetricDaily is one per-channel metric snapshot row
// (channel_metrics_daily).
type ChannelMetricDaily struct {
	ChannelID      string   `json:"channel_id"`
	Date           string   `json:"date"`
	Subscribers    *float64 `json:"subscribers"`
	AvgViews       *float64 `json:"avg_views"`
	EngagementRate *float64 `json:"engagement_rate"`
	PostsPerDay    *float64 `json:"posts_per_day"`
}

// ChannelPost is one recent post shown on the overview page.
type ChannelPost struct {
	ID        string     `json:"id"`
	ChannelID string     `json:"channel_id"`
	Text      string     `json:"text"`
	Views     *float64   `json:"views"`
	PostedAt  *time.Time `json:"posted_at"`
}

// SimilarChannel is a lightweight reference to a related channel.
type SimilarChannel struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Username    string   `json:"username"`
	Subscribers *float64 `json:"subscribers"`
}

// ChannelLink is one directed mention/forward edge between channels
// (channel_links_daily).
type ChannelLink struct {
	SourceChannelID string `json:"source_channel_id"`
	TargetChannelID string `json:"target_channel_id"`
	Date            string `json:"date"`
}

// SimilarChannelRef is one similarity edge (channel_similar).
type SimilarChannelRef struct {
	ChannelID        string `json:"channel_id"`
	SimilarChannelID string `json:"similar_channel_id"`
}

// ChannelTag is one tag assignment (channel_tags).
type ChannelTag struct {
	ChannelID string `json:"channel_id"`
	Tag       string `json:"tag"`
}

// ChannelKPIs are the overview headline numbers with 30-day deltas.
type ChannelKPIs struct {
	Subscribers    catalog.DeltaResult `json:"subscribers"`
	AvgViews       catalog.DeltaResult `json:"avg_views"`
	EngagementRate catalog.DeltaResult `json:"engagement_rate"`
	PostsPerDay    catalog.DeltaResult `json:"posts_per_day"`
}

// ChannelChartPoint is one day of the overview chart.
type ChannelChartPoint struct {
	Date           string   `json:"date"`
	Subscribers    *float64 `json:"subscribers"`
	AvgViews       *float64 `json:"avg_views"`
	EngagementRate *float64 `json:"engagement_rate"`
}

// ChannelLinkCounts are the 30-day mention totals on the overview page.
type ChannelLinkCounts struct {
	Incoming30d int `json:"incoming_30d"`
	Outgoing30d int `json:"outgoing_30d"`
}

// ChannelOverview is the full single-channel response.
type ChannelOverview struct {
	Channel     ChannelRow          `json:"channel"`
	KPIs        ChannelKPIs         `json:"kpis"`
	Chart       []ChannelChartPoint `json:"chart"`
	Similar     []SimilarChannel    `json:"similar_channels"`
	Tags        []string            `json:"tags"`
	RecentPosts []ChannelPost       `json:"recent_posts"`
	Links       ChannelLinkCounts   `json:"links"`
}
