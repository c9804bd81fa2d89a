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

type channelListRequest struct {
	SizeBucket string   `validate:"omitempty,oneof=small medium large huge"`
	Status     string   `validate:"omitempty,oneof=normal verified scam restricted deleted"`
	ERMin      *float64 `validate:"omitempty,gte=0,lte=100"`
	ERMax      *float64 `validate:"omitempty,gte=0,lte=100"`
}

// ListChannels serves GET /v1.0/channels.
func (h *Handler) ListChannels(w http.ResponseWriter, r *http.Request) {
	page, err := h.parsePageRequest(r)
	if err != nil {
		badParam(w, r, err)
		return
	}

	q := r.URL.Query()
	req := channelListRequest{
		SizeBucket: q.Get("size_bucket"),
		Status:     q.Get("status"),
	}
	if req.ERMin, err = queryFloat(r, "er_min"); err != nil {
		badParam(w, r, err)
		return
	}
	if req.ERMax, err = queryFloat(r, "er_max"); err != nil {
		badParam(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, r, verr)
		return
	}

	verified, err := queryBool(r, "verified")
	if err != nil {
		badParam(w, r, err)
		return
	}
	scam, err := queryBool(r, "scam")
	if err != nil {
		badParam(w, r, err)
		return
	}

	filters := service.ChannelFilters{
		Query:        q.Get("q"),
		CountryCode:  q.Get("country_code"),
		CategorySlug: q.Get("category_slug"),
		SizeBucket:   req.SizeBucket,
		Status:       req.Status,
		Verified:     verified,
		Scam:         scam,
		ERMin:        req.ERMin,
		ERMax:        req.ERMax,
	}

	env, err := h.channels.List(r.Context(), filters, page.listParams())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, env)
}

// ChannelOverview serves GET /v1.0/channels/{channelID}/overview.
func (h *Handler) ChannelOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.channels.Overview(r.Context(), chi.URLParam(r, "channelID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, overview)
}
