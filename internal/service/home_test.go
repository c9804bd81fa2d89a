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

func TestHomeCategoriesPagination(t *testing.T) {
	t.Parallel()

	fake := storetest.NewFake()
	fake.Rows("categories", []models.Category{
		{Slug: "crypto", Name: "Crypto", ChannelCount: 120},
		{Slug: "games", Name: "Games", ChannelCount: 45},
		{Slug: "news", Name: "News", ChannelCount: 300},
	}, 3)

	svc := NewHomeService(fake)
	page1, err := svc.Categories(context.Background(), "", 2)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(page1.Data) != 2 || page1.Data[0].Slug != "crypto" {
		t.Fatalf("page 1 = %v", page1.Data)
	}
	if page1.Meta.TotalEstimate != 3 || !page1.Page.HasMore {
		t.Fatalf("page 1 meta = %+v page = %+v", page1.Meta, page1.Page)
	}

	page2, err := svc.Categories(context.Background(), *page1.Page.NextCursor, 2)
	if err != nil {
		t.Fatalf("Categories page 2: %v", err)
	}
	if len(page2.Data) != 1 || page2.Data[0].Slug != "news" || page2.Page.HasMore {
		t.Fatalf("page 2 = %+v", page2)
	}
}

func TestHomeCountriesRejectsBadCursor(t *testing.T) {
	t.Parallel()

	fake := storetest.NewFake()
	fake.Rows("countries", []models.Country{{Code: "US", Name: "United States"}}, 1)

	svc := NewHomeService(fake)
	_, err := svc.Countries(context.Background(), "!!bad!!", 10)
	if !errors.Is(err, catalog.ErrInvalidCursor) {
		t.Errorf("err = %v, want ErrInvalidCursor", err)
	}
}
