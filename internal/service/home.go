// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package service

import (
	"context"
	"fmt"

	"github.com/chartel/chartel/internal/models"
	"github.com/chartel/chartel/internal/store"
)

// HomeService serves the name-ordered lookup listings on the home surface.
type HomeService struct {
	store store.Client
}

// NewHomeService builds a home service on the given store client.
func NewHomeService(s store.Client) *HomeService {
	return &HomeService{store: s}
}

// Categories lists every channel category, ordered by name.
func (s *HomeService) Categories(ctx context.Context, cursorToken string, limit int) (*models.ListEnvelope[models.Category], error) {
	var rows []models.Category
	_, err := s.store.From("categories").
		Order("name", false).
		Execute(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("fetching categories: %w", err)
	}

	pageRows, page, err := paginate(rows, cursorToken, limit)
	if err != nil {
		return nil, err
	}
	return &models.ListEnvelope[models.Category]{
		Data: pageRows,
		Page: page,
		Meta: models.ListMeta{TotalEstimate: len(rows)},
	}, nil
}

// Countries lists every country with ranked channels, ordered by name.
func (s *HomeService) Countries(ctx context.Context, cursorToken string, limit int) (*models.ListEnvelope[models.Country], error) {
	var rows []models.Country
	_, err := s.store.From("countries").
		Order("name", false).
		Execute(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("fetching countries: %w", err)
	}

	pageRows, page, err := paginate(rows, cursorToken, limit)
	if err != nil {
		return nil, err
	}
	return &models.ListEnvelope[models.Country]{
		Data: pageRows,
		Page: page,
		Meta: models.ListMeta{TotalEstimate: len(rows)},
	}, nil
}
