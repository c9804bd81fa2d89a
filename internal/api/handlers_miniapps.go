// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package api

import (
	"net/http"

	"github.com/chartel/chartel/internal/service"
	"github.com/chartel/chartel/internal/validation"
)

type miniAppListRequest struct {
	MinRating        *float64 `validate:"omitempty,gte=0,lte=5"`
	LaunchWithinDays *int     `validate:"omitempty,min=1,max=3650"`
}

// ListMiniApps serves GET /v1.0/mini-apps.
func (h *Handler) ListMiniApps(w http.ResponseWriter, r *http.Request) {
	page, err := h.parsePageRequest(r)
	if err != nil {
		badParam(w, r, err)
		return
	}

	var req miniAppListRequest
	if req.MinRating, err = queryFloat(r, "min_rating"); err != nil {
		badParam(w, r, err)
		return
	}
	if req.LaunchWithinDays, err = queryInt(r, "launch_within_days"); err != nil {
		badParam(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, r, verr)
		return
	}

	filters := service.MiniAppFilters{
		Query:            r.URL.Query().Get("q"),
		CategorySlug:     r.URL.Query().Get("category_slug"),
		MinRating:        req.MinRating,
		LaunchWithinDays: req.LaunchWithinDays,
	}
	if filters.MinDailyUsers, err = queryFloat(r, "min_daily_users"); err != nil {
		badParam(w, r, err)
		return
	}
	if filters.MinGrowth, err = queryFloat(r, "min_growth"); err != nil {
		badParam(w, r, err)
		return
	}

	env, err := h.miniApps.List(r.Context(), filters, page.listParams())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, env)
}

// MiniAppSummary serves GET /v1.0/mini-apps/summary.
func (h *Handler) MiniAppSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.miniApps.Summary(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, summary)
}
