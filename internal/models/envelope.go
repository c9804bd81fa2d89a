// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

// Package models defines the typed rows read from the row store and the
// response shapes the API serves. Rows are constructed once at the store
// boundary so filter, sort, and delta logic is checked at compile time
// against field names.
package models

// Page carries pagination state for a list response.
type Page struct {
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

// ListMeta carries result-set metadata for a list response.
type ListMeta struct {
	TotalEstimate  int     `json:"total_estimate"`
	SnapshotDate   *string `json:"snapshot_date,omitempty"`
	BaselineDate   *string `json:"baseline_date,omitempty"`
	TimePeriodDays *int    `json:"time_period_days,omitempty"`
}

// ListEnvelope is the uniform shape of every catalog listing.
type ListEnvelope[T any] struct {
	Data []T      `json:"data"`
	Page Page     `json:"page"`
	Meta ListMeta `json:"meta"`
}

// ErrorCode identifies an API error class. Codes are stable; clients branch
// on them, not on message text.
type ErrorCode string

const (
	CodeValidationError ErrorCode = "VALIDATION_ERROR"
	CodeInvalidCursor   ErrorCode = "INVALID_CURSOR"
	CodeUnknownSort     ErrorCode = "UNKNOWN_SORT_FIELD"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeStoreError      ErrorCode = "STORE_ERROR"
	CodeAuthentication  ErrorCode = "AUTHENTICATION_ERROR"
	CodeAuthorization   ErrorCode = "AUTHORIZATION_ERROR"
)

// APIError is the uniform error payload.
type APIError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps an APIError for transport.
type ErrorResponse struct {
	Error APIError `json:"error"`
}
