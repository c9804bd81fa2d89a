// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chartel/chartel/internal/auth"
	"github.com/chartel/chartel/internal/catalog"
	"github.com/chartel/chartel/internal/config"
	"github.com/chartel/chartel/internal/models"
	"github.com/chartel/chartel/internal/service"
	"github.com/chartel/chartel/internal/validation"
)

// Handler carries the dependencies of every endpoint. All collaborators are
// injected at construction; nothing resolves a global.
type Handler struct {
	cfg         *config.Config
	channels    *service.ChannelService
	advertisers *service.AdvertiserService
	miniApps    *service.MiniAppService
	rankings    *service.RankingService
	home        *service.HomeService
	access      auth.AccessChecker
}

// NewHandler builds the API handler set.
func NewHandler(
	cfg *config.Config,
	channels *service.ChannelService,
	advertisers *service.AdvertiserService,
	miniApps *service.MiniAppService,
	rankings *service.RankingService,
	home *service.HomeService,
	access auth.AccessChecker,
) *Handler {
	return &Handler{
		cfg:         cfg,
		channels:    channels,
		advertisers: advertisers,
		miniApps:    miniApps,
		rankings:    rankings,
		home:        home,
		access:      access,
	}
}

// pageRequest is the pagination slice of every listing request.
type pageRequest struct {
	Limit int `validate:"min=1,max=200"`
	// Cursor stays unvalidated here: the codec owns cursor rejection so
	// malformed tokens map to INVALID_CURSOR, not a generic validation error.
	Cursor    string
	SortBy    string
	SortOrder string `validate:"omitempty,oneof=asc desc"`
}

// parsePageRequest reads limit/cursor/sort_by/sort_order, applying the
// configured default and cap. The max validate tag above is the protocol
// ceiling; the configured cap may be lower.
func (h *Handler) parsePageRequest(r *http.Request) (pageRequest, error) {
	req := pageRequest{
		Limit:     h.cfg.API.DefaultPageSize,
		Cursor:    r.URL.Query().Get("cursor"),
		SortBy:    r.URL.Query().Get("sort_by"),
		SortOrder: r.URL.Query().Get("sort_order"),
	}
	if n, err := queryInt(r, "limit"); err != nil {
		return req, err
	} else if n != nil {
		req.Limit = *n
	}
	if err := validation.ValidateStruct(&req); err != nil {
		return req, err
	}
	if req.Limit > h.cfg.API.MaxPageSize {
		req.Limit = h.cfg.API.MaxPageSize
	}
	return req, nil
}

func (req pageRequest) listParams() catalog.ListParams {
	return catalog.ListParams{
		SortBy:    req.SortBy,
		SortOrder: catalog.ParseDirection(req.SortOrder),
		Limit:     req.Limit,
		Cursor:    req.Cursor,
	}
}

// HealthLive reports process liveness.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// HealthReady reports readiness to serve traffic.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

// Membership resolves the calling user's role within an account.
func (h *Handler) Membership(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	if identity == nil {
		respondError(w, r, auth.ErrUnauthenticated)
		return
	}

	accountID := chi.URLParam(r, "accountID")
	role, err := h.access.Check(r.Context(), accountID, identity.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, models.Membership{
		AccountID: accountID,
		UserID:    identity.UserID,
		Role:      role,
	})
}
