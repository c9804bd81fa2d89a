// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

// Package api wires the HTTP surface: request parsing and validation,
// handlers delegating to the services, error mapping, and the chi router.
package api

import (
	"errors"
	"net/http"

	"github.com/chartel/chartel/internal/auth"
	"github.com/chartel/chartel/internal/catalog"
	"github.com/chartel/chartel/internal/models"
	"github.com/chartel/chartel/internal/service"
	"github.com/chartel/chartel/internal/store"
	"github.com/chartel/chartel/internal/validation"
)

// classifyError maps an internal error to a status code and API error
// payload. Client errors keep a message specific enough to fix the request;
// store errors never leak upstream text.
func classifyError(err error) (int, models.APIError) {
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, models.APIError{
			Code:    models.CodeValidationError,
			Message: verr.Error(),
			Details: verr.Details(),
		}
	}

	switch {
	case errors.Is(err, catalog.ErrInvalidCursor):
		return http.StatusBadRequest, models.APIError{
			Code:    models.CodeInvalidCursor,
			Message: "Invalid pagination cursor",
		}
	case errors.Is(err, catalog.ErrUnknownSortField):
		return http.StatusBadRequest, models.APIError{
			Code:    models.CodeUnknownSort,
			Message: err.Error(),
		}
	case errors.Is(err, service.ErrInvalidRange), errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, models.APIError{
			Code:    models.CodeValidationError,
			Message: err.Error(),
		}
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, models.APIError{
			Code:    models.CodeNotFound,
			Message: "Resource not found",
		}
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized, models.APIError{
			Code:    models.CodeAuthentication,
			Message: "Authentication required",
		}
	case errors.Is(err, auth.ErrAccessDenied):
		return http.StatusForbidden, models.APIError{
			Code:    models.CodeAuthorization,
			Message: "Access denied",
		}
	case errors.Is(err, store.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, models.APIError{
			Code:    models.CodeStoreError,
			Message: "Data store temporarily unavailable",
		}
	default:
		return http.StatusInternalServerError, models.APIError{
			Code:    models.CodeStoreError,
			Message: "Internal server error",
		}
	}
}
