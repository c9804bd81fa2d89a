// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/chartel/chartel/internal/models"
	"github.com/chartel/chartel/internal/store"
)

// RankingService serves pre-computed channel rankings by country and
// category, plus curated collections. Ranks come from the store; pagination
// reuses the shared cursor codec but no re-ranking happens here.
type RankingService struct {
	store store.Client
}

// NewRankingService builds a ranking service on the given store client.
func NewRankingService(s store.Client) *RankingService {
	return &RankingService{store: s}
}

// Countries returns the channel ranking for one country at the scope's
// latest snapshot. An unranked country yields a well-formed empty payload.
func (s *RankingService) Countries(ctx context.Context, countryCode, cursorToken string, limit int) (*models.RankingEnvelope, error) {
	return s.scopedRanking(ctx, "country", strings.ToUpper(countryCode), cursorToken, limit)
}

// Categories returns the channel ranking for one category at the scope's
// latest snapshot.
func (s *RankingService) Categories(ctx context.Context, categorySlug, cursorToken string, limit int) (*models.RankingEnvelope, error) {
	return s.scopedRanking(ctx, "category", categorySlug, cursorToken, limit)
}

func (s *RankingService) scopedRanking(ctx context.Context, scope, scopeValue, cursorToken string, limit int) (*models.RankingEnvelope, error) {
	snapshotDate, err := s.latestScopeSnapshot(ctx, scope, scopeValue)
	if err != nil {
		return nil, err
	}
	if snapshotDate == nil {
		// Never an error: an unranked scope is an empty listing.
		empty, page, err := paginate([]models.RankingItem{}, cursorToken, limit)
		if err != nil {
			return nil, err
		}
		return &models.RankingEnvelope{
			Data: empty,
			Page: page,
			Meta: models.RankingMeta{Scope: scope, ScopeValue: scopeValue},
		}, nil
	}

	var rows []models.RankingRow
	_, err = s.store.From("channel_rankings_daily").
		Eq("scope", scope).
		Eq("scope_value", scopeValue).
		Eq("snapshot_date", *snapshotDate).
		Order("rank", false).
		Execute(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("fetching %s ranking for %s: %w", scope, scopeValue, err)
	}

	pageRows, page, err := paginate(rows, cursorToken, limit)
	if err != nil {
		return nil, err
	}

	items, err := s.enrichRankingPage(ctx, pageRows)
	if err != nil {
		return nil, err
	}

	return &models.RankingEnvelope{
		Data: items,
		Page: page,
		Meta: models.RankingMeta{
			Scope:        scope,
			ScopeValue:   scopeValue,
			SnapshotDate: snapshotDate,
		},
	}, nil
}

func (s *RankingService) latestScopeSnapshot(ctx context.Context, scope, scopeValue string) (*string, error) {
	var rows []struct {
		SnapshotDate string `json:"snapshot_date"`
	}
	_, err := s.store.From("channel_rankings_daily").
		Select("snapshot_date").
		Eq("scope", scope).
		Eq("scope_value", scopeValue).
		Order("snapshot_date", true).
		Limit(1).
		Execute(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("resolving %s ranking snapshot for %s: %w", scope, scopeValue, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0].SnapshotDate, nil
}

// enrichRankingPage resolves channel identity for one page of ranking rows
// with a single batched lookup. A missing channel keeps its rank under a
// placeholder name.
func (s *RankingService) enrichRankingPage(ctx context.Context, rows []models.RankingRow) ([]models.RankingItem, error) {
	items := make([]models.RankingItem, 0, len(rows))
	if len(rows) == 0 {
		return items, nil
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ChannelID)
	}

	var channels []models.ChannelRow
	_, err := s.store.From("vw_catalog_channels").
		Select("id", "name", "username").
		In("id", ids).
		Execute(ctx, &channels)
	if err != nil {
		return nil, fmt.Errorf("resolving ranked channels: %w", err)
	}
	byID := make(map[string]models.ChannelRow, len(channels))
	for _, c := range channels {
		byID[c.ID] = c
	}

	for _, r := range rows {
		item := models.RankingItem{
			Rank:        r.Rank,
			ChannelID:   r.ChannelID,
			ChannelName: ChannelNamePlaceholder,
			Subscribers: r.Subscribers,
			Growth24h:   r.Growth24h,
		}
		if c, ok := byID[r.ChannelID]; ok {
			item.ChannelName = c.Name
			item.Username = c.Username
		}
		items = append(items, item)
	}
	return items, nil
}

// Collections lists curated collections name-ordered, with member counts
// resolved by one batched link query.
func (s *RankingService) Collections(ctx context.Context, cursorToken string, limit int) (*models.ListEnvelope[models.Collection], error) {
	var rows []models.CollectionRow
	_, err := s.store.From("collections").
		Order("name", false).
		Execute(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("fetching collections: %w", err)
	}

	counts := map[string]int{}
	if len(rows) > 0 {
		slugs := make([]string, 0, len(rows))
		for _, r := range rows {
			slugs = append(slugs, r.Slug)
		}
		var links []models.CollectionLink
		_, err = s.store.From("collection_channels").
			Select("collection_slug", "channel_id").
			In("collection_slug", slugs).
			Execute(ctx, &links)
		if err != nil {
			return nil, fmt.Errorf("counting collection members: %w", err)
		}
		for _, l := range links {
			counts[l.CollectionSlug]++
		}
	}

	all := make([]models.Collection, 0, len(rows))
	for _, r := range rows {
		all = append(all, models.Collection{
			Slug:         r.Slug,
			Name:         r.Name,
			Description:  r.Description,
			ChannelCount: counts[r.Slug],
		})
	}
	// Store order is already by name; keep it deterministic even if the
	// store collation differs from Go's.
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].Slug < all[j].Slug
	})

	pageRows, page, err := paginate(all, cursorToken, limit)
	if err != nil {
		return nil, err
	}
	return &models.ListEnvelope[models.Collection]{
		Data: pageRows,
		Page: page,
		Meta: models.ListMeta{TotalEstimate: len(all)},
	}, nil
}
