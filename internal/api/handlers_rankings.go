// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RankingCountries serves GET /v1.0/rankings/countries/{countryCode}.
func (h *Handler) RankingCountries(w http.ResponseWriter, r *http.Request) {
	page, err := h.parsePageRequest(r)
	if err != nil {
		badParam(w, r, err)
		return
	}

	env, err := h.rankings.Countries(r.Context(), chi.URLParam(r, "countryCode"), page.Cursor, page.Limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, env)
}

// RankingCategories serves GET /v1.0/rankings/categories/{categorySlug}.
func (h *Handler) RankingCategories(w http.ResponseWriter, r *http.Request) {
	page, err := h.parsePageRequest(r)
	if err != nil {
		badParam(w, r, err)
		return
	}

	env, err := h.rankings.Categories(r.Context(), chi.URLParam(r, "categorySlug"), page.Cursor, page.Limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, env)
}

// Collections serves GET /v1.0/rankings/collections.
func (h *Handler) Collections(w http.ResponseWriter, r *http.Request) {
	page, err := h.parsePageRequest(r)
	if err != nil {
		badParam(w, r, err)
		return
	}

	env, err := h.rankings.Collections(r.Context(), page.Cursor, page.Limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, env)
}

// HomeCategories serves GET /v1.0/home/categories.
func (h *Handler) HomeCategories(w http.ResponseWriter, r *http.Request) {
	page, err := h.parsePageRequest(r)
	if err != nil {
		badParam(w, r, err)
		return
	}

	env, err := h.home.Categories(r.Context(), page.Cursor, page.Limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, env)
}

// HomeCountries serves GET /v1.0/home/countries.
func (h *Handler) HomeCountries(w http.ResponseWriter, r *http.Request) {
	page, err := h.parsePageRequest(r)
	if err != nil {
		badParam(w, r, err)
		return
	}

	env, err := h.home.Countries(r.Context(), page.Cursor, page.Limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, env)
}
