// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package models

import (
	"time"

	"github.com/chartel/chartel/internal/catalog"
)

// AdvertiserRow is one row of the advertisers base table. The *_current
// columns are cached copies of the latest snapshot metrics, kept by the
// ingestion pipeline; they serve as fallbacks when the snapshot row is
// missing a value.
type AdvertiserRow struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Slug              string   `json:"slug"`
	Description       string   `json:"description"`
	IndustryID        *string  `json:"industry_id"`
	EstimatedSpend    *float64 `json:"estimated_spend_current"`
	TotalAds          *float64 `json:"total_ads_current"`
	ChannelsUsed      *float64 `json:"channels_used_current"`
	AvgEngagementRate *float64 `json:"avg_engagement_rate_current"`
	Trend             *float64 `json:"trend_current"`
	ActiveCreatives   *float64 `json:"active_creatives_current"`
}

// AdvertiserMetricDaily is one snapshot row (advertiser_metrics_daily).
type AdvertiserMetricDaily struct {
	AdvertiserID      string   `json:"advertiser_id"`
	SnapshotDate      string   `json:"snapshot_date"`
	EstimatedSpend    *float64 `json:"estimated_spend"`
	TotalAds          *float64 `json:"total_ads"`
	ChannelsUsed      *float64 `json:"channels_used"`
	AvgEngagementRate *float64 `json:"avg_engagement_rate"`
	ActiveCreatives   *float64 `json:"active_creatives"`
	Trend             *float64 `json:"trend_percent"`
}

// Industry is one row of the industries lookup table.
type Industry struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// AdCreativeActivity is the last-seen timestamp per advertiser, aggregated
// from ad_creatives.
type AdCreativeActivity struct {
	AdvertiserID string     `json:"advertiser_id"`
	LastSeenAt   *time.Time `json:"last_seen_at"`
}

// AdvertiserRecord is one fully assembled advertiser: base row, snapshot
// metrics with *_current fallbacks already applied, industry enrichment,
// computed trend, and last creative activity.
type AdvertiserRecord struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Slug              string     `json:"slug"`
	Description       string     `json:"description,omitempty"`
	IndustrySlug      string     `json:"industry_slug,omitempty"`
	IndustryName      string     `json:"industry_name,omitempty"`
	EstimatedSpend    *float64   `json:"estimated_spend"`
	TotalAds          *float64   `json:"total_ads"`
	ChannelsUsed      *float64   `json:"channels_used"`
	AvgEngagementRate *float64   `json:"avg_engagement_rate"`
	ActiveCreatives   *float64   `json:"active_creatives"`
	Trend             *float64   `json:"trend"`
	LastActivityAt    *time.Time `json:"last_activity_at"`
}

// AdvertiserListItem is one ranked entry of the advertiser catalog response.
type AdvertiserListItem struct {
	Rank int `json:"rank"`
	AdvertiserRecord
}

// AdvertiserSummary aggregates the full candidate set with deltas against
// the baseline snapshot population.
type AdvertiserSummary struct {
	ActiveAdvertisers catalog.DeltaResult `json:"active_advertisers"`
	TotalAdSpend      catalog.DeltaResult `json:"total_ad_spend"`
	AdCampaigns       catalog.DeltaResult `json:"ad_campaigns"`
	AvgEngagementRate catalog.DeltaResult `json:"avg_engagement_rate"`
	SnapshotDate      *string             `json:"snapshot_date"`
	BaselineDate      *string             `json:"baseline_date"`
	TimePeriodDays    int                 `json:"time_period_days"`
}

// AdvertiserTopChannelRow is one row of advertiser_top_channels_daily.
type AdvertiserTopChannelRow struct {
	AdvertiserID   string   `json:"advertiser_id"`
	ChannelID      string   `json:"channel_id"`
	SnapshotDate   string   `json:"snapshot_date"`
	AdsCount       *float64 `json:"ads_count"`
	EstimatedSpend *float64 `json:"estimated_spend"`
}

// AdvertiserTopChannel is one placement channel on the detail page, with the
// channel name resolved by a batched lookup.
type AdvertiserTopChannel struct {
	ChannelID      string   `json:"channel_id"`
	ChannelName    string   `json:"channel_name"`
	AdsCount       *float64 `json:"ads_count"`
	EstimatedSpend *float64 `json:"estimated_spend"`
}

// AdvertiserDetail is the full single-advertiser response.
type AdvertiserDetail struct {
	AdvertiserRecord
	TopChannels []AdvertiserTopChannel `json:"top_channels"`
}
