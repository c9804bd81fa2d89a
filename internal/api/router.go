// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chartel/chartel/internal/auth"
	"github.com/chartel/chartel/internal/config"
	"github.com/chartel/chartel/internal/middleware"
)

// NewRouter assembles the full HTTP surface. Health and metrics stay
// outside authentication; everything under /v1.0 requires an identity.
func NewRouter(h *Handler, authenticator auth.Authenticator, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(corsMiddleware(cfg))
	if !cfg.Security.RateLimitDisabled && cfg.Security.RateLimitRequests > 0 {
		r.Use(rateLimitMiddleware(cfg))
	}

	r.Get("/health/live", h.HealthLive)
	r.Get("/health/ready", h.HealthReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1.0", func(r chi.Router) {
		r.Use(requireAuth(authenticator))

		r.Get("/channels", h.ListChannels)
		r.Get("/channels/{channelID}/overview", h.ChannelOverview)

		r.Get("/advertisers", h.ListAdvertisers)
		r.Get("/advertisers/summary", h.AdvertiserSummary)
		r.Get("/advertisers/{advertiserID}", h.AdvertiserDetail)

		r.Get("/mini-apps", h.ListMiniApps)
		r.Get("/mini-apps/summary", h.MiniAppSummary)

		r.Get("/rankings/countries/{countryCode}", h.RankingCountries)
		r.Get("/rankings/categories/{categorySlug}", h.RankingCategories)
		r.Get("/rankings/collections", h.Collections)

		r.Get("/home/categories", h.HomeCategories)
		r.Get("/home/countries", h.HomeCountries)

		r.Get("/accounts/{accountID}/membership", h.Membership)
	})

	return r
}
