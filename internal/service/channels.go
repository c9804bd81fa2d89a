// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chartel/chartel/internal/catalog"
	"github.com/chartel/chartel/internal/models"
	"github.com/chartel/chartel/internal/store"
)

// ChannelService serves the channel catalog and the per-channel overview.
type ChannelService struct {
	store store.Client
}

// NewChannelService builds a channel service on the given store client.
func NewChannelService(s store.Client) *ChannelService {
	return &ChannelService{store: s}
}

// ChannelFilters are the optional criteria of a channel listing. Nil/empty
// means no constraint on that dimension.
type ChannelFilters struct {
	Query        string
	CountryCode  string
	CategorySlug string
	SizeBucket   string
	Status       string
	Verified     *bool
	Scam         *bool
	ERMin        *float64
	ERMax        *float64
}

var channelDefinition = catalog.Definition[models.ChannelRow]{
	SortFields: map[string]catalog.SortKey[models.ChannelRow]{
		"subscribers":     func(r models.ChannelRow) *float64 { return r.Subscribers },
		"growth_24h":      func(r models.ChannelRow) *float64 { return r.Growth24h },
		"growth_7d":       func(r models.ChannelRow) *float64 { return r.Growth7d },
		"growth_30d":      func(r models.ChannelRow) *float64 { return r.Growth30d },
		"engagement_rate": func(r models.ChannelRow) *float64 { return r.EngagementRate },
		"updated_at":      func(r models.ChannelRow) *float64 { return timeKey(r.UpdatedAt) },
	},
	DefaultSort:      "subscribers",
	DefaultDirection: catalog.Desc,
	ID:               func(r models.ChannelRow) string { return r.ID },
}

// List returns one page of the channel catalog.
func (s *ChannelService) List(ctx context.Context, filters ChannelFilters, params catalog.ListParams) (*models.ListEnvelope[models.ChannelListItem], error) {
	if filters.ERMin != nil && filters.ERMax != nil && *filters.ERMin > *filters.ERMax {
		return nil, fmt.Errorf("%w: er_min %v > er_max %v", ErrInvalidRange, *filters.ERMin, *filters.ERMax)
	}

	pred := channelPredicate(filters)
	page, err := catalog.Assemble(ctx, channelDefinition, params, pred, s.fetchCatalog)
	if err != nil {
		return nil, err
	}

	items := make([]models.ChannelListItem, 0, len(page.Items))
	for _, it := range page.Items {
		r := it.Row
		items = append(items, models.ChannelListItem{
			Rank:           it.Rank,
			ID:             r.ID,
			Name:           r.Name,
			Username:       r.Username,
			CountryCode:    r.CountryCode,
			CategorySlug:   r.CategorySlug,
			CategoryName:   r.CategoryName,
			SizeBucket:     r.SizeBucket,
			Status:         r.Status,
			Verified:       r.Verified,
			Scam:           r.Scam,
			Subscribers:    r.Subscribers,
			Growth24h:      r.Growth24h,
			Growth7d:       r.Growth7d,
			Growth30d:      r.Growth30d,
			EngagementRate: r.EngagementRate,
			UpdatedAt:      r.UpdatedAt,
		})
	}

	return &models.ListEnvelope[models.ChannelListItem]{
		Data: items,
		Page: models.Page{NextCursor: page.NextCursor, HasMore: page.HasMore},
		Meta: models.ListMeta{TotalEstimate: page.TotalEstimate},
	}, nil
}

func channelPredicate(f ChannelFilters) catalog.Predicate[models.ChannelRow] {
	preds := []catalog.Predicate[models.ChannelRow]{}
	if f.Query != "" {
		preds = append(preds, catalog.Search(f.Query,
			func(r models.ChannelRow) string { return r.Name },
			func(r models.ChannelRow) string { return r.Username },
		))
	}
	if f.CountryCode != "" {
		preds = append(preds, catalog.FieldEqualsFold(strings.ToUpper(f.CountryCode),
			func(r models.ChannelRow) string { return r.CountryCode }))
	}
	if f.CategorySlug != "" {
		preds = append(preds, catalog.FieldEquals(f.CategorySlug,
			func(r models.ChannelRow) string { return r.CategorySlug }))
	}
	if f.SizeBucket != "" {
		preds = append(preds, catalog.FieldEquals(f.SizeBucket,
			func(r models.ChannelRow) string { return r.SizeBucket }))
	}
	if f.Status != "" {
		preds = append(preds, catalog.FieldEquals(f.Status,
			func(r models.ChannelRow) string { return r.Status }))
	}
	if f.Verified != nil {
		preds = append(preds, catalog.BoolEquals(*f.Verified,
			func(r models.ChannelRow) bool { return r.Verified }))
	}
	if f.Scam != nil {
		preds = append(preds, catalog.BoolEquals(*f.Scam,
			func(r models.ChannelRow) bool { return r.Scam }))
	}
	if f.ERMin != nil {
		preds = append(preds, catalog.MetricAtLeast(*f.ERMin,
			func(r models.ChannelRow) *float64 { return r.EngagementRate }))
	}
	if f.ERMax != nil {
		preds = append(preds, catalog.MetricAtMost(*f.ERMax,
			func(r models.ChannelRow) *float64 { return r.EngagementRate }))
	}
	return catalog.All(preds...)
}

func (s *ChannelService) fetchCatalog(ctx context.Context) ([]models.ChannelRow, error) {
	var rows []models.ChannelRow
	if _, err := s.store.From("vw_catalog_channels").Execute(ctx, &rows); err != nil {
		return nil, fmt.Errorf("fetching channel catalog: %w", err)
	}
	return rows, nil
}

// Overview returns the full single-channel page: the channel row, 30-day
// KPI deltas, the daily chart, similar channels, tags, recent posts, and
// 30-day link counts. The independent reads run concurrently once the
// channel itself is known to exist.
func (s *ChannelService) Overview(ctx context.Context, channelID string) (*models.ChannelOverview, error) {
	var channels []models.ChannelRow
	_, err := s.store.From("vw_channel_overview").
		Eq("id", channelID).
		Limit(1).
		Execute(ctx, &channels)
	if err != nil {
		return nil, fmt.Errorf("fetching channel %s: %w", channelID, err)
	}
	if len(channels) == 0 {
		return nil, fmt.Errorf("channel %s: %w", channelID, ErrNotFound)
	}
	channel := channels[0]

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error

		history []models.ChannelMetricDaily
		similar []models.SimilarChannel
		tags    []string
		posts   []models.ChannelPost
		links   models.ChannelLinkCounts
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	wg.Add(5)
	go func() {
		defer wg.Done()
		rows, err := s.fetchMetricHistory(ctx, channelID)
		if err != nil {
			fail(err)
			return
		}
		history = rows
	}()
	go func() {
		defer wg.Done()
		rows, err := s.fetchSimilar(ctx, channelID)
		if err != nil {
			fail(err)
			return
		}
		similar = rows
	}()
	go func() {
		defer wg.Done()
		rows, err := s.fetchTags(ctx, channelID)
		if err != nil {
			fail(err)
			return
		}
		tags = rows
	}()
	go func() {
		defer wg.Done()
		rows, err := s.fetchRecentPosts(ctx, channelID)
		if err != nil {
			fail(err)
			return
		}
		posts = rows
	}()
	go func() {
		defer wg.Done()
		counts, err := s.fetchLinkCounts(ctx, channelID)
		if err != nil {
			fail(err)
			return
		}
		links = counts
	}()
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	return &models.ChannelOverview{
		Channel:     channel,
		KPIs:        channelKPIs(channel, history),
		Chart:       chartPoints(history),
		Similar:     similar,
		Tags:        tags,
		RecentPosts: posts,
		Links:       links,
	}, nil
}

// channelKPIs computes headline deltas against the oldest of the trailing
// 30 daily rows. history arrives newest-first.
func channelKPIs(ch models.ChannelRow, history []models.ChannelMetricDaily) models.ChannelKPIs {
	var oldest *models.ChannelMetricDaily
	if len(history) > 0 {
		oldest = &history[len(history)-1]
	}

	baseline := func(pick func(models.ChannelMetricDaily) *float64) *float64 {
		if oldest == nil {
			return nil
		}
		return pick(*oldest)
	}

	return models.ChannelKPIs{
		Subscribers: catalog.ComputeDelta(ch.Subscribers,
			baseline(func(m models.ChannelMetricDaily) *float64 { return m.Subscribers })),
		AvgViews: catalog.ComputeDelta(ch.AvgViews,
			baseline(func(m models.ChannelMetricDaily) *float64 { return m.AvgViews })),
		EngagementRate: catalog.ComputeDelta(ch.EngagementRate,
			baseline(func(m models.ChannelMetricDaily) *float64 { return m.EngagementRate })),
		PostsPerDay: catalog.ComputeDelta(ch.PostsPerDay,
			baseline(func(m models.ChannelMetricDaily) *float64 { return m.PostsPerDay })),
	}
}

// chartPoints reverses newest-first history into an ascending chart.
func chartPoints(history []models.ChannelMetricDaily) []models.ChannelChartPoint {
	points := make([]models.ChannelChartPoint, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		points = append(points, models.ChannelChartPoint{
			Date:           m.Date,
			Subscribers:    m.Subscribers,
			AvgViews:       m.AvgViews,
			EngagementRate: m.EngagementRate,
		})
	}
	return points
}

func (s *ChannelService) fetchMetricHistory(ctx context.Context, channelID string) ([]models.ChannelMetricDaily, error) {
	var rows []models.ChannelMetricDaily
	_, err := s.store.From("channel_metrics_daily").
		Eq("channel_id", channelID).
		Order("date", true).
		Limit(30).
		Execute(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("fetching metric history for %s: %w", channelID, err)
	}
	return rows, nil
}

// fetchSimilar resolves similarity edges, then enriches every referenced
// channel with one batched lookup.
func (s *ChannelService) fetchSimilar(ctx context.Context, channelID string) ([]models.SimilarChannel, error) {
	var refs []models.SimilarChannelRef
	_, err := s.store.From("channel_similar").
		Eq("channel_id", channelID).
		Limit(10).
		Execute(ctx, &refs)
	if err != nil {
		return nil, fmt.Errorf("fetching similar channels for %s: %w", channelID, err)
	}
	if len(refs) == 0 {
		return []models.SimilarChannel{}, nil
	}

	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.SimilarChannelID)
	}

	var rows []models.ChannelRow
	_, err = s.store.From("vw_catalog_channels").
		Select("id", "name", "username", "subscribers").
		In("id", ids).
		Execute(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("resolving similar channels: %w", err)
	}

	byID := make(map[string]models.ChannelRow, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}

	out := make([]models.SimilarChannel, 0, len(refs))
	for _, ref := range refs {
		row, ok := byID[ref.SimilarChannelID]
		if !ok {
			// Dangling similarity edge; enrichment is best-effort.
			continue
		}
		out = append(out, models.SimilarChannel{
			ID:          row.ID,
			Name:        row.Name,
			Username:    row.Username,
			Subscribers: row.Subscribers,
		})
	}
	return out, nil
}

func (s *ChannelService) fetchTags(ctx context.Context, channelID string) ([]string, error) {
	var rows []models.ChannelTag
	_, err := s.store.From("channel_tags").
		Eq("channel_id", channelID).
		Execute(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("fetching tags for %s: %w", channelID, err)
	}
	tags := make([]string, 0, len(rows))
	for _, r := range rows {
		tags = append(tags, r.Tag)
	}
	return tags, nil
}

func (s *ChannelService) fetchRecentPosts(ctx context.Context, channelID string) ([]models.ChannelPost, error) {
	var rows []models.ChannelPost
	_, err := s.store.From("channel_posts").
		Eq("channel_id", channelID).
		Order("posted_at", true).
		Limit(5).
		Execute(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("fetching recent posts for %s: %w", channelID, err)
	}
	return rows, nil
}

func (s *ChannelService) fetchLinkCounts(ctx context.Context, channelID string) (models.ChannelLinkCounts, error) {
	cutoff := time.Now().AddDate(0, 0, -30).Format(dateLayout)

	var counts models.ChannelLinkCounts
	var rows []models.ChannelLink

	incoming, err := s.store.From("channel_links_daily").
		Eq("target_channel_id", channelID).
		Gte("date", cutoff).
		Count().
		Limit(1).
		Execute(ctx, &rows)
	if err != nil {
		return counts, fmt.Errorf("counting incoming links for %s: %w", channelID, err)
	}

	outgoing, err := s.store.From("channel_links_daily").
		Eq("source_channel_id", channelID).
		Gte("date", cutoff).
		Count().
		Limit(1).
		Execute(ctx, &rows)
	if err != nil {
		return counts, fmt.Errorf("counting outgoing links for %s: %w", channelID, err)
	}

	counts.Incoming30d = incoming
	counts.Outgoing30d = outgoing
	return counts, nil
}
