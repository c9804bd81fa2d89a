// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/chartel/chartel/internal/catalog"
	"github.com/chartel/chartel/internal/models"
	"github.com/chartel/chartel/internal/store"
)

// MiniAppService serves the mini-app catalog and the ecosystem summary.
type MiniAppService struct {
	store store.Client
	now   func() time.Time
}

// NewMiniAppService builds a mini-app service on the given store client.
func NewMiniAppService(s store.Client) *MiniAppService {
	return &MiniAppService{store: s, now: time.Now}
}

// MiniAppFilters are the optional criteria of a mini-app listing.
type MiniAppFilters struct {
	Query            string
	CategorySlug     string
	MinDailyUsers    *float64
	MinRating        *float64
	MinGrowth        *float64
	LaunchWithinDays *int
}

var miniAppDefinition = catalog.Definition[models.MiniAppRow]{
	SortFields: map[string]catalog.SortKey[models.MiniAppRow]{
		"daily_users": func(r models.MiniAppRow) *float64 { return r.DailyUsers },
		"growth":      func(r models.MiniAppRow) *float64 { return r.GrowthWeekly },
		"rating":      func(r models.MiniAppRow) *float64 { return r.Rating },
		"launched_at": func(r models.MiniAppRow) *float64 { return timeKey(r.LaunchedAt) },
	},
	DefaultSort:      "daily_users",
	DefaultDirection: catalog.Desc,
	ID:               func(r models.MiniAppRow) string { return r.ID },
}

// List returns one page of the mini-app catalog.
func (s *MiniAppService) List(ctx context.Context, filters MiniAppFilters, params catalog.ListParams) (*models.ListEnvelope[models.MiniAppListItem], error) {
	pred := s.miniAppPredicate(filters)
	page, err := catalog.Assemble(ctx, miniAppDefinition, params, pred, s.fetchCatalog)
	if err != nil {
		return nil, err
	}

	items := make([]models.MiniAppListItem, 0, len(page.Items))
	for _, it := range page.Items {
		items = append(items, models.MiniAppListItem{Rank: it.Rank, MiniAppRow: it.Row})
	}

	return &models.ListEnvelope[models.MiniAppListItem]{
		Data: items,
		Page: models.Page{NextCursor: page.NextCursor, HasMore: page.HasMore},
		Meta: models.ListMeta{TotalEstimate: page.TotalEstimate},
	}, nil
}

func (s *MiniAppService) miniAppPredicate(f MiniAppFilters) catalog.Predicate[models.MiniAppRow] {
	preds := []catalog.Predicate[models.MiniAppRow]{}
	if f.Query != "" {
		preds = append(preds, catalog.Search(f.Query,
			func(r models.MiniAppRow) string { return r.Name },
			func(r models.MiniAppRow) string { return r.Slug },
			func(r models.MiniAppRow) string { return r.Description },
		))
	}
	if f.CategorySlug != "" {
		preds = append(preds, catalog.FieldEquals(f.CategorySlug,
			func(r models.MiniAppRow) string { return r.CategorySlug }))
	}
	if f.MinDailyUsers != nil {
		preds = append(preds, catalog.MetricAtLeast(*f.MinDailyUsers,
			func(r models.MiniAppRow) *float64 { return r.DailyUsers }))
	}
	if f.MinRating != nil {
		preds = append(preds, catalog.MetricAtLeast(*f.MinRating,
			func(r models.MiniAppRow) *float64 { return r.Rating }))
	}
	if f.MinGrowth != nil {
		preds = append(preds, catalog.MetricAtLeast(*f.MinGrowth,
			func(r models.MiniAppRow) *float64 { return r.GrowthWeekly }))
	}
	if f.LaunchWithinDays != nil {
		cutoff := s.now().AddDate(0, 0, -*f.LaunchWithinDays)
		preds = append(preds, catalog.TimeAtLeast(cutoff,
			func(r models.MiniAppRow) *time.Time { return r.LaunchedAt }))
	}
	return catalog.All(preds...)
}

func (s *MiniAppService) fetchCatalog(ctx context.Context) ([]models.MiniAppRow, error) {
	var rows []models.MiniAppRow
	if _, err := s.store.From("vw_mini_apps_latest").Execute(ctx, &rows); err != nil {
		return nil, fmt.Errorf("fetching mini-app catalog: %w", err)
	}
	return rows, nil
}

// Summary returns ecosystem totals with deltas over the requested period
// (7d or 30d). When no aggregate snapshot exists yet, totals are computed
// from the live catalog view and every delta stays null, with the launch
// delta at 0.
func (s *MiniAppService) Summary(ctx context.Context, period string) (*models.MiniAppSummary, error) {
	var days int
	switch period {
	case "", "30d":
		period, days = "30d", 30
	case "7d":
		days = 7
	default:
		return nil, fmt.Errorf("%w: period %q", ErrInvalidArgument, period)
	}

	latest, err := s.latestAggregate(ctx)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return s.liveSummaryFallback(ctx, period)
	}

	baseline, err := s.baselineAggregate(ctx, latest.SnapshotDate, days)
	if err != nil {
		return nil, err
	}

	summary := &models.MiniAppSummary{
		Period:       period,
		SnapshotDate: &latest.SnapshotDate,
	}
	if latest.TotalApps != nil {
		summary.TotalMiniApps = int(*latest.TotalApps)
	}

	var baseDAU, baseSessions, baseSessionSecs *float64
	if baseline != nil {
		summary.BaselineDate = &baseline.SnapshotDate
		baseDAU = baseline.DailyUsers
		baseSessions = baseline.Sessions
		baseSessionSecs = baseline.AvgSessionSeconds

		launches, err := s.countLaunchesSince(ctx, baseline.SnapshotDate)
		if err != nil {
			return nil, err
		}
		summary.TotalMiniAppsDelta = launches
	}

	summary.DailyUsers = catalog.ComputeDelta(latest.DailyUsers, baseDAU)
	summary.Sessions = catalog.ComputeDelta(latest.Sessions, baseSessions)
	summary.AvgSessionSeconds = catalog.ComputeDelta(latest.AvgSessionSeconds, baseSessionSecs)
	return summary, nil
}

func (s *MiniAppService) latestAggregate(ctx context.Context) (*models.MiniAppAggregateDaily, error) {
	var rows []models.MiniAppAggregateDaily
	_, err := s.store.From("mini_app_metrics_daily").
		Order("snapshot_date", true).
		Limit(1).
		Execute(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("resolving latest mini-app snapshot: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *MiniAppService) baselineAggregate(ctx context.Context, snapshotDate string, days int) (*models.MiniAppAggregateDaily, error) {
	asOf, err := time.Parse(dateLayout, snapshotDate)
	if err != nil {
		return nil, fmt.Errorf("parsing snapshot date %q: %w", snapshotDate, err)
	}
	target := asOf.AddDate(0, 0, -days).Format(dateLayout)

	var rows []models.MiniAppAggregateDaily
	_, err = s.store.From("mini_app_metrics_daily").
		Lte("snapshot_date", target).
		Order("snapshot_date", true).
		Limit(1).
		Execute(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("resolving mini-app baseline snapshot: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *MiniAppService) countLaunchesSince(ctx context.Context, baselineDate string) (int, error) {
	var rows []models.MiniAppRow
	// Strictly after: an app launched on the baseline date is already part
	// of the baseline snapshot, not a new launch.
	count, err := s.store.From("vw_mini_apps_latest").
		Select("id").
		Gt("launched_at", baselineDate).
		Count().
		Limit(1).
		Execute(ctx, &rows)
	if err != nil {
		return 0, fmt.Errorf("counting mini-app launches: %w", err)
	}
	return count, nil
}

// liveSummaryFallback aggregates the live view when no snapshot has been
// taken yet. Without a snapshot there is nothing to baseline against.
func (s *MiniAppService) liveSummaryFallback(ctx context.Context, period string) (*models.MiniAppSummary, error) {
	rows, err := s.fetchCatalog(ctx)
	if err != nil {
		return nil, err
	}

	var dau, sessions float64
	var sessionSecs []*float64
	for _, r := range rows {
		if r.DailyUsers != nil {
			dau += *r.DailyUsers
		}
		if r.Sessions != nil {
			sessions += *r.Sessions
		}
		sessionSecs = append(sessionSecs, r.AvgSessionSeconds)
	}

	return &models.MiniAppSummary{
		TotalMiniApps:      len(rows),
		TotalMiniAppsDelta: 0,
		DailyUsers:         catalog.ComputeDelta(&dau, nil),
		Sessions:           catalog.ComputeDelta(&sessions, nil),
		AvgSessionSeconds:  catalog.ComputeDelta(catalog.Mean(sessionSecs), nil),
		Period:             period,
	}, nil
}
