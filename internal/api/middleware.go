// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/chartel/chartel/internal/auth"
	"github.com/chartel/chartel/internal/config"
	"github.com/chartel/chartel/internal/logging"
)

type contextKey string

const identityKey contextKey = "identity"

// identityFromContext returns the authenticated caller, or nil.
func identityFromContext(ctx context.Context) *auth.Identity {
	identity, _ := ctx.Value(identityKey).(*auth.Identity)
	return identity
}

// requireAuth rejects requests that carry no valid identity and stores the
// resolved identity in the request context.
func requireAuth(authenticator auth.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := authenticator.Authenticate(r)
			if err != nil {
				logging.Ctx(r.Context()).Debug().
					Str("path", sanitizeLogValue(r.URL.Path)).
					Msg("Rejected unauthenticated request")
				respondError(w, r, auth.ErrUnauthenticated)
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// corsMiddleware builds the CORS policy from config.
func corsMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Security.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// rateLimitMiddleware builds the per-IP request rate limit from config.
func rateLimitMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	window := cfg.Security.RateLimitWindow
	if window == 0 {
		window = time.Minute
	}
	return httprate.LimitByIP(cfg.Security.RateLimitRequests, window)
}
