// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package models

import (
	"time"

	"github.com/chartel/chartel/internal/catalog"
)

// MiniAppRow is one row of the mini-app catalog view (vw_mini_apps_latest).
type MiniAppRow struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Slug              string     `json:"slug"`
	Description       string     `json:"description"`
	CategorySlug      string     `json:"category_slug"`
	CategoryName      string     `json:"category_name"`
	DailyUsers        *float64   `json:"daily_users"`
	GrowthWeekly      *float64   `json:"growth_weekly"`
	Rating            *float64   `json:"rating"`
	Sessions          *float64   `json:"sessions"`
	AvgSessionSeconds *float64   `json:"avg_session_seconds"`
	LaunchedAt        *time.Time `json:"launched_at"`
}

// MiniAppListItem is one ranked entry of the mini-app catalog response.
type MiniAppListItem struct {
	Rank int `json:"rank"`
	MiniAppRow
}

// MiniAppAggregateDaily is one ecosystem-wide snapshot row
// (mini_app_metrics_daily): totals across all apps as of one date.
type MiniAppAggregateDaily struct {
	SnapshotDate      string   `json:"snapshot_date"`
	TotalApps         *float64 `json:"total_apps"`
	DailyUsers        *float64 `json:"daily_users"`
	Sessions          *float64 `json:"sessions"`
	AvgSessionSeconds *float64 `json:"avg_session_seconds"`
}

// MiniAppSummary is the ecosystem totals response with period deltas.
// TotalMiniAppsDelta counts launches after the baseline date; it is 0, not
// null, when no snapshot exists to baseline against.
type MiniAppSummary struct {
	TotalMiniApps      int                 `json:"total_mini_apps"`
	TotalMiniAppsDelta int                 `json:"total_mini_apps_delta"`
	DailyUsers         catalog.DeltaResult `json:"daily_users"`
	Sessions           catalog.DeltaResult `json:"sessions"`
	AvgSessionSeconds  catalog.DeltaResult `json:"avg_session_seconds"`
	SnapshotDate       *string             `json:"snapshot_date"`
	BaselineDate       *string             `json:"baseline_date"`
	Period             string              `json:"period"`
}
