// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

// Command server runs the Chartel API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chartel/chartel/internal/api"
	"github.com/chartel/chartel/internal/auth"
	"github.com/chartel/chartel/internal/config"
	"github.com/chartel/chartel/internal/logging"
	"github.com/chartel/chartel/internal/service"
	"github.com/chartel/chartel/internal/store"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)).
		Str("auth_mode", cfg.Security.AuthMode).
		Msg("Starting Chartel API")

	storeClient := store.NewHTTPClient(store.Config{
		BaseURL:                 cfg.Store.URL,
		APIKey:                  cfg.Store.APIKey,
		Timeout:                 cfg.Store.Timeout,
		BreakerFailureThreshold: cfg.Store.BreakerFailureThreshold,
		BreakerOpenTimeout:      cfg.Store.BreakerOpenTimeout,
		RatePerSecond:           cfg.Store.RatePerSecond,
	})

	var authenticator auth.Authenticator
	switch cfg.Security.AuthMode {
	case "none":
		logging.Warn().Msg("Authentication disabled (auth_mode=none)")
		authenticator = auth.NoneAuthenticator{}
	default:
		manager := auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.SessionTimeout)
		authenticator = auth.NewJWTAuthenticator(manager)
	}

	handler := api.NewHandler(
		cfg,
		service.NewChannelService(storeClient),
		service.NewAdvertiserService(storeClient),
		service.NewMiniAppService(storeClient),
		service.NewRankingService(storeClient),
		service.NewHomeService(storeClient),
		auth.NewStoreAccessChecker(storeClient),
	)
	router := api.NewRouter(handler, authenticator, cfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-stop:
		logging.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logging.Info().Msg("Server stopped")
	return nil
}
