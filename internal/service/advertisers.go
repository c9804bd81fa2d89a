// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chartel/chartel/internal/catalog"
	"github.com/chartel/chartel/internal/models"
	"github.com/chartel/chartel/internal/store"
)

// DefaultPeriodDays is the trailing window for advertiser trends when the
// request names none.
const DefaultPeriodDays = 30

// ChannelNamePlaceholder is shown when a referenced channel is missing from
// the enrichment lookup. Dangling references are display-data anomalies, not
// errors.
const ChannelNamePlaceholder = "Unknown Channel"

// AdvertiserService serves the advertiser catalog, summary, and detail.
type AdvertiserService struct {
	store store.Client
	now   func() time.Time
}

// NewAdvertiserService builds an advertiser service on the given store
// client.
func NewAdvertiserService(s store.Client) *AdvertiserService {
	return &AdvertiserService{store: s, now: time.Now}
}

// AdvertiserFilters are the optional criteria of an advertiser listing.
type AdvertiserFilters struct {
	Query         string
	IndustrySlug  string
	MinSpend      *float64
	MinChannels   *float64
	MinEngagement *float64
	// ActivityStatus is all, active (creative seen within 7 days), or
	// recent (within 30 days). Advertisers with no recorded activity fail
	// every non-all value.
	ActivityStatus string
}

var advertiserDefinition = catalog.Definition[models.AdvertiserRecord]{
	SortFields: map[string]catalog.SortKey[models.AdvertiserRecord]{
		"estimated_spend":     func(r models.AdvertiserRecord) *float64 { return r.EstimatedSpend },
		"total_ads":           func(r models.AdvertiserRecord) *float64 { return r.TotalAds },
		"channels_used":       func(r models.AdvertiserRecord) *float64 { return r.ChannelsUsed },
		"avg_engagement_rate": func(r models.AdvertiserRecord) *float64 { return r.AvgEngagementRate },
		"trend":               func(r models.AdvertiserRecord) *float64 { return r.Trend },
	},
	DefaultSort:      "estimated_spend",
	DefaultDirection: catalog.Desc,
	ID:               func(r models.AdvertiserRecord) string { return r.ID },
}

// advertiserCandidates is the fully assembled candidate set plus the
// baseline population needed for summary aggregates.
type advertiserCandidates struct {
	records      []models.AdvertiserRecord
	baseline     []models.AdvertiserMetricDaily
	snapshotDate *string
	baselineDate *string
}

// List returns one page of the advertiser catalog. periodDays selects the
// trailing window the trend is computed over.
func (s *AdvertiserService) List(ctx context.Context, filters AdvertiserFilters, periodDays int, params catalog.ListParams) (*models.ListEnvelope[models.AdvertiserListItem], error) {
	if periodDays <= 0 {
		periodDays = DefaultPeriodDays
	}

	var candidates *advertiserCandidates
	fetch := func(ctx context.Context) ([]models.AdvertiserRecord, error) {
		cs, err := s.buildCandidates(ctx, periodDays)
		if err != nil {
			return nil, err
		}
		candidates = cs
		return cs.records, nil
	}

	pred, err := s.advertiserPredicate(filters)
	if err != nil {
		return nil, err
	}

	page, err := catalog.Assemble(ctx, advertiserDefinition, params, pred, fetch)
	if err != nil {
		return nil, err
	}

	items := make([]models.AdvertiserListItem, 0, len(page.Items))
	for _, it := range page.Items {
		items = append(items, models.AdvertiserListItem{Rank: it.Rank, AdvertiserRecord: it.Row})
	}

	period := periodDays
	return &models.ListEnvelope[models.AdvertiserListItem]{
		Data: items,
		Page: models.Page{NextCursor: page.NextCursor, HasMore: page.HasMore},
		Meta: models.ListMeta{
			TotalEstimate:  page.TotalEstimate,
			SnapshotDate:   candidates.snapshotDate,
			BaselineDate:   candidates.baselineDate,
			TimePeriodDays: &period,
		},
	}, nil
}

func (s *AdvertiserService) advertiserPredicate(f AdvertiserFilters) (catalog.Predicate[models.AdvertiserRecord], error) {
	preds := []catalog.Predicate[models.AdvertiserRecord]{}
	if f.Query != "" {
		preds = append(preds, catalog.Search(f.Query,
			func(r models.AdvertiserRecord) string { return r.Name },
			func(r models.AdvertiserRecord) string { return r.Slug },
			func(r models.AdvertiserRecord) string { return r.Description },
		))
	}
	if f.IndustrySlug != "" {
		preds = append(preds, catalog.FieldEquals(f.IndustrySlug,
			func(r models.AdvertiserRecord) string { return r.IndustrySlug }))
	}
	if f.MinSpend != nil {
		preds = append(preds, catalog.MetricAtLeast(*f.MinSpend,
			func(r models.AdvertiserRecord) *float64 { return r.EstimatedSpend }))
	}
	if f.MinChannels != nil {
		preds = append(preds, catalog.MetricAtLeast(*f.MinChannels,
			func(r models.AdvertiserRecord) *float64 { return r.ChannelsUsed }))
	}
	if f.MinEngagement != nil {
		preds = append(preds, catalog.MetricAtLeast(*f.MinEngagement,
			func(r models.AdvertiserRecord) *float64 { return r.AvgEngagementRate }))
	}

	switch f.ActivityStatus {
	case "", "all":
	case "active":
		preds = append(preds, catalog.TimeAtLeast(s.now().AddDate(0, 0, -7),
			func(r models.AdvertiserRecord) *time.Time { return r.LastActivityAt }))
	case "recent":
		preds = append(preds, catalog.TimeAtLeast(s.now().AddDate(0, 0, -30),
			func(r models.AdvertiserRecord) *time.Time { return r.LastActivityAt }))
	default:
		return nil, fmt.Errorf("%w: activity_status %q", ErrInvalidArgument, f.ActivityStatus)
	}

	return catalog.All(preds...), nil
}

// Summary aggregates the full candidate set against the baseline
// population. Absent baseline rows leave every delta null; the two
// populations' ratio averages are computed independently.
func (s *AdvertiserService) Summary(ctx context.Context, periodDays int) (*models.AdvertiserSummary, error) {
	if periodDays <= 0 {
		periodDays = DefaultPeriodDays
	}

	cs, err := s.buildCandidates(ctx, periodDays)
	if err != nil {
		return nil, err
	}

	var (
		activeCount  float64
		totalSpend   float64
		totalAds     float64
		currentRates []*float64
	)
	for _, r := range cs.records {
		if r.ActiveCreatives != nil && *r.ActiveCreatives > 0 {
			activeCount++
		}
		if r.EstimatedSpend != nil {
			totalSpend += *r.EstimatedSpend
		}
		if r.TotalAds != nil {
			totalAds += *r.TotalAds
		}
		currentRates = append(currentRates, r.AvgEngagementRate)
	}

	var baseActive, baseSpend, baseAds, baseRate *float64
	if len(cs.baseline) > 0 {
		var active, spend, ads float64
		var baseRates []*float64
		for _, m := range cs.baseline {
			if m.ActiveCreatives != nil && *m.ActiveCreatives > 0 {
				active++
			}
			if m.EstimatedSpend != nil {
				spend += *m.EstimatedSpend
			}
			if m.TotalAds != nil {
				ads += *m.TotalAds
			}
			baseRates = append(baseRates, m.AvgEngagementRate)
		}
		baseActive, baseSpend, baseAds = &active, &spend, &ads
		baseRate = catalog.Mean(baseRates)
	}

	return &models.AdvertiserSummary{
		ActiveAdvertisers: catalog.ComputeDelta(&activeCount, baseActive),
		TotalAdSpend:      catalog.ComputeDelta(&totalSpend, baseSpend),
		AdCampaigns:       catalog.ComputeDelta(&totalAds, baseAds),
		AvgEngagementRate: catalog.ComputeDelta(catalog.Mean(currentRates), baseRate),
		SnapshotDate:      cs.snapshotDate,
		BaselineDate:      cs.baselineDate,
		TimePeriodDays:    periodDays,
	}, nil
}

// Detail returns one advertiser from the candidate set plus its top
// placement channels at its latest snapshot.
func (s *AdvertiserService) Detail(ctx context.Context, advertiserID string, periodDays int) (*models.AdvertiserDetail, error) {
	if periodDays <= 0 {
		periodDays = DefaultPeriodDays
	}

	cs, err := s.buildCandidates(ctx, periodDays)
	if err != nil {
		return nil, err
	}

	var record *models.AdvertiserRecord
	for i := range cs.records {
		if cs.records[i].ID == advertiserID {
			record = &cs.records[i]
			break
		}
	}
	if record == nil {
		return nil, fmt.Errorf("advertiser %s: %w", advertiserID, ErrNotFound)
	}

	topChannels, err := s.fetchTopChannels(ctx, advertiserID)
	if err != nil {
		return nil, err
	}

	return &models.AdvertiserDetail{
		AdvertiserRecord: *record,
		TopChannels:      topChannels,
	}, nil
}

// buildCandidates assembles the advertiser candidate set: base rows joined
// with the latest snapshot, the baseline snapshot, industries, and last
// creative activity. Snapshot dates resolve first; the five row fetches then
// run concurrently.
func (s *AdvertiserService) buildCandidates(ctx context.Context, periodDays int) (*advertiserCandidates, error) {
	snapshotDate, err := s.latestSnapshotDate(ctx)
	if err != nil {
		return nil, err
	}

	var baselineDate *string
	if snapshotDate != nil {
		baselineDate, err = s.baselineSnapshotDate(ctx, *snapshotDate, periodDays)
		if err != nil {
			return nil, err
		}
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error

		base     []models.AdvertiserRow
		snapshot []models.AdvertiserMetricDaily
		baseline []models.AdvertiserMetricDaily
		inds     []models.Industry
		activity []models.AdCreativeActivity
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}
	fetch := func(run func() error) {
		defer wg.Done()
		if err := run(); err != nil {
			fail(err)
		}
	}

	wg.Add(5)
	go fetch(func() error {
		_, err := s.store.From("advertisers").Execute(ctx, &base)
		return err
	})
	go fetch(func() error {
		if snapshotDate == nil {
			return nil
		}
		_, err := s.store.From("advertiser_metrics_daily").
			Eq("snapshot_date", *snapshotDate).
			Execute(ctx, &snapshot)
		return err
	})
	go fetch(func() error {
		if baselineDate == nil {
			return nil
		}
		_, err := s.store.From("advertiser_metrics_daily").
			Eq("snapshot_date", *baselineDate).
			Execute(ctx, &baseline)
		return err
	})
	go fetch(func() error {
		_, err := s.store.From("industries").Execute(ctx, &inds)
		return err
	})
	go fetch(func() error {
		_, err := s.store.From("vw_advertiser_last_activity").Execute(ctx, &activity)
		return err
	})
	wg.Wait()
	if firstErr != nil {
		return nil, fmt.Errorf("building advertiser candidates: %w", firstErr)
	}

	snapshotByID := make(map[string]models.AdvertiserMetricDaily, len(snapshot))
	for _, m := range snapshot {
		snapshotByID[m.AdvertiserID] = m
	}
	baselineByID := make(map[string]models.AdvertiserMetricDaily, len(baseline))
	for _, m := range baseline {
		baselineByID[m.AdvertiserID] = m
	}
	industryByID := make(map[string]models.Industry, len(inds))
	for _, ind := range inds {
		industryByID[ind.ID] = ind
	}
	activityByID := make(map[string]*time.Time, len(activity))
	for _, a := range activity {
		activityByID[a.AdvertiserID] = a.LastSeenAt
	}

	records := make([]models.AdvertiserRecord, 0, len(base))
	for _, a := range base {
		record := models.AdvertiserRecord{
			ID:          a.ID,
			Name:        a.Name,
			Slug:        a.Slug,
			Description: a.Description,
		}

		if a.IndustryID != nil {
			if ind, ok := industryByID[*a.IndustryID]; ok {
				record.IndustrySlug = ind.Slug
				record.IndustryName = ind.Name
			}
		}

		snap, hasSnap := snapshotByID[a.ID]
		record.EstimatedSpend = coalesce(pick(hasSnap, snap.EstimatedSpend), a.EstimatedSpend)
		record.TotalAds = coalesce(pick(hasSnap, snap.TotalAds), a.TotalAds)
		record.ChannelsUsed = coalesce(pick(hasSnap, snap.ChannelsUsed), a.ChannelsUsed)
		record.AvgEngagementRate = coalesce(pick(hasSnap, snap.AvgEngagementRate), a.AvgEngagementRate)
		record.ActiveCreatives = coalesce(pick(hasSnap, snap.ActiveCreatives), a.ActiveCreatives)

		record.Trend = advertiserTrend(record.EstimatedSpend, pick(hasSnap, snap.Trend), baselineByID, a)
		record.LastActivityAt = activityByID[a.ID]

		records = append(records, record)
	}

	return &advertiserCandidates{
		records:      records,
		baseline:     baseline,
		snapshotDate: snapshotDate,
		baselineDate: baselineDate,
	}, nil
}

// advertiserTrend is the percent spend delta against the baseline snapshot.
// No baseline observation falls back to the snapshot row's trend column,
// then the entity's cached trend; a zero baseline yields null (the division
// is undefined).
func advertiserTrend(spend, snapTrend *float64, baselineByID map[string]models.AdvertiserMetricDaily, a models.AdvertiserRow) *float64 {
	baseRow, ok := baselineByID[a.ID]
	if !ok || baseRow.EstimatedSpend == nil || spend == nil {
		return coalesce(snapTrend, a.Trend)
	}
	return catalog.PercentDelta(spend, baseRow.EstimatedSpend)
}

func (s *AdvertiserService) latestSnapshotDate(ctx context.Context) (*string, error) {
	var rows []struct {
		SnapshotDate string `json:"snapshot_date"`
	}
	_, err := s.store.From("advertiser_metrics_daily").
		Select("snapshot_date").
		Order("snapshot_date", true).
		Limit(1).
		Execute(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("resolving latest advertiser snapshot: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0].SnapshotDate, nil
}

// baselineSnapshotDate resolves the most recent snapshot at or before
// (snapshot - periodDays), or nil when none exists.
func (s *AdvertiserService) baselineSnapshotDate(ctx context.Context, snapshotDate string, periodDays int) (*string, error) {
	asOf, err := time.Parse(dateLayout, snapshotDate)
	if err != nil {
		return nil, fmt.Errorf("parsing snapshot date %q: %w", snapshotDate, err)
	}
	target := asOf.AddDate(0, 0, -periodDays).Format(dateLayout)

	var rows []struct {
		SnapshotDate string `json:"snapshot_date"`
	}
	_, err = s.store.From("advertiser_metrics_daily").
		Select("snapshot_date").
		Lte("snapshot_date", target).
		Order("snapshot_date", true).
		Limit(1).
		Execute(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("resolving advertiser baseline snapshot: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0].SnapshotDate, nil
}

// fetchTopChannels reads the advertiser's placements at its latest snapshot
// and resolves channel names with one batched lookup.
func (s *AdvertiserService) fetchTopChannels(ctx context.Context, advertiserID string) ([]models.AdvertiserTopChannel, error) {
	var dateRows []struct {
		SnapshotDate string `json:"snapshot_date"`
	}
	_, err := s.store.From("advertiser_top_channels_daily").
		Select("snapshot_date").
		Eq("advertiser_id", advertiserID).
		Order("snapshot_date", true).
		Limit(1).
		Execute(ctx, &dateRows)
	if err != nil {
		return nil, fmt.Errorf("resolving top-channel snapshot for %s: %w", advertiserID, err)
	}
	if len(dateRows) == 0 {
		return []models.AdvertiserTopChannel{}, nil
	}

	var rows []models.AdvertiserTopChannelRow
	_, err = s.store.From("advertiser_top_channels_daily").
		Eq("advertiser_id", advertiserID).
		Eq("snapshot_date", dateRows[0].SnapshotDate).
		Order("estimated_spend", true).
		Limit(10).
		Execute(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("fetching top channels for %s: %w", advertiserID, err)
	}
	if len(rows) == 0 {
		return []models.AdvertiserTopChannel{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ChannelID)
	}
	var channels []models.ChannelRow
	_, err = s.store.From("vw_catalog_channels").
		Select("id", "name").
		In("id", ids).
		Execute(ctx, &channels)
	if err != nil {
		return nil, fmt.Errorf("resolving top-channel names: %w", err)
	}
	nameByID := make(map[string]string, len(channels))
	for _, c := range channels {
		nameByID[c.ID] = c.Name
	}

	out := make([]models.AdvertiserTopChannel, 0, len(rows))
	for _, r := range rows {
		name, ok := nameByID[r.ChannelID]
		if !ok {
			name = ChannelNamePlaceholder
		}
		out = append(out, models.AdvertiserTopChannel{
			ChannelID:      r.ChannelID,
			ChannelName:    name,
			AdsCount:       r.AdsCount,
			EstimatedSpend: r.EstimatedSpend,
		})
	}
	return out, nil
}

// pick returns v when ok, else nil. Keeps the snapshot-then-cached fallback
// chain readable.
func pick(ok bool, v *float64) *float64 {
	if !ok {
		return nil
	}
	return v
}

// coalesce returns the first non-nil value.
func coalesce(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
