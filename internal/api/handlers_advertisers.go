// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chartel/chartel/internal/service"
	"github.com/chartel/chartel/internal/validation"
)

type advertiserListRequest struct {
	PeriodDays     int    `validate:"omitempty,oneof=7 30 90 365"`
	ActivityStatus string `validate:"omitempty,oneof=all active recent"`
}

// parseAdvertiserParams reads the advertiser-specific query parameters.
func (h *Handler) parseAdvertiserParams(r *http.Request) (service.AdvertiserFilters, int, error) {
	req := advertiserListRequest{
		ActivityStatus: r.URL.Query().Get("activity_status"),
	}
	if n, err := queryInt(r, "period_days"); err != nil {
		return service.AdvertiserFilters{}, 0, err
	} else if n != nil {
		req.PeriodDays = *n
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return service.AdvertiserFilters{}, 0, verr
	}

	filters := service.AdvertiserFilters{
		Query:          r.URL.Query().Get("q"),
		IndustrySlug:   r.URL.Query().Get("industry_slug"),
		ActivityStatus: req.ActivityStatus,
	}
	var err error
	if filters.MinSpend, err = queryFloat(r, "min_spend"); err != nil {
		return filters, 0, err
	}
	if filters.MinChannels, err = queryFloat(r, "min_channels"); err != nil {
		return filters, 0, err
	}
	if filters.MinEngagement, err = queryFloat(r, "min_engagement"); err != nil {
		return filters, 0, err
	}
	return filters, req.PeriodDays, nil
}

// ListAdvertisers serves GET /v1.0/advertisers.
func (h *Handler) ListAdvertisers(w http.ResponseWriter, r *http.Request) {
	page, err := h.parsePageRequest(r)
	if err != nil {
		badParam(w, r, err)
		return
	}
	filters, periodDays, err := h.parseAdvertiserParams(r)
	if err != nil {
		badParam(w, r, err)
		return
	}

	env, err := h.advertisers.List(r.Context(), filters, periodDays, page.listParams())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, env)
}

// AdvertiserSummary serves GET /v1.0/advertisers/summary.
func (h *Handler) AdvertiserSummary(w http.ResponseWriter, r *http.Request) {
	_, periodDays, err := h.parseAdvertiserParams(r)
	if err != nil {
		badParam(w, r, err)
		return
	}

	summary, err := h.advertisers.Summary(r.Context(), periodDays)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, summary)
}

// AdvertiserDetail serves GET /v1.0/advertisers/{advertiserID}.
func (h *Handler) AdvertiserDetail(w http.ResponseWriter, r *http.Request) {
	_, periodDays, err := h.parseAdvertiserParams(r)
	if err != nil {
		badParam(w, r, err)
		return
	}

	detail, err := h.advertisers.Detail(r.Context(), chi.URLParam(r, "advertiserID"), periodDays)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, detail)
}
