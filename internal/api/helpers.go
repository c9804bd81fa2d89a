// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/chartel/chartel/internal/logging"
	"github.com/chartel/chartel/internal/models"
	"github.com/chartel/chartel/internal/validation"
)

func respondJSON(w http.ResponseWriter, r *http.Request, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode response")
	}
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, apiErr := classifyError(err)
	if status >= 500 {
		logging.Ctx(r.Context()).Error().
			Err(err).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Msg("Request failed")
	} else {
		logging.Ctx(r.Context()).Debug().
			Err(err).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Msg("Request rejected")
	}
	respondJSON(w, r, status, models.ErrorResponse{Error: apiErr})
}

// sanitizeLogValue strips line breaks so client-supplied strings cannot
// forge log records.
func sanitizeLogValue(s string) string {
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, "\r", "")
	if len(s) > 256 {
		s = s[:256]
	}
	return s
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", name)
	}
	return &n, nil
}

// queryFloat parses an optional numeric query parameter.
func queryFloat(r *http.Request, name string) (*float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", name)
	}
	return &f, nil
}

// queryBool parses an optional boolean query parameter.
func queryBool(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a boolean", name)
	}
	return &b, nil
}

// badParam builds the 400 payload for a rejected query parameter.
// Validation failures keep their structured field details.
func badParam(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		respondError(w, r, verr)
		return
	}
	respondJSON(w, r, http.StatusBadRequest, models.ErrorResponse{Error: models.APIError{
		Code:    models.CodeValidationError,
		Message: err.Error(),
	}})
}
