// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

// Package validation provides struct validation using go-playground/validator
// v10 behind a thread-safe singleton. Request structs declare constraints via
// `validate` tags and handlers call ValidateStruct before doing any work:
//
//	type ListRequest struct {
//	    Limit  int    `validate:"min=1,max=200"`
//	    Cursor string `validate:"omitempty,base64url"`
//	}
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single field validation failure.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Value   interface{}
	Message string
}

// Error returns a human-readable message for the failure.
func (e *FieldError) Error() string {
	return e.Message
}

// RequestValidationError aggregates all field failures for one request.
type RequestValidationError struct {
	fieldErrors []FieldError
}

// Errors returns the individual field failures.
func (ve *RequestValidationError) Errors() []FieldError {
	return ve.fieldErrors
}

// Error implements the error interface with a combined message.
func (ve *RequestValidationError) Error() string {
	if len(ve.fieldErrors) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.fieldErrors))
	for i, fe := range ve.fieldErrors {
		messages[i] = fe.Message
	}
	return strings.Join(messages, "; ")
}

// Details returns structured error context suitable for an API error payload.
func (ve *RequestValidationError) Details() map[string]interface{} {
	if len(ve.fieldErrors) == 1 {
		fe := ve.fieldErrors[0]
		return map[string]interface{}{
			"field": fe.Field,
			"tag":   fe.Tag,
			"value": fe.Value,
		}
	}

	fields := make([]map[string]interface{}, len(ve.fieldErrors))
	for i, fe := range ve.fieldErrors {
		fields[i] = map[string]interface{}{
			"field":   fe.Field,
			"tag":     fe.Tag,
			"message": fe.Message,
		}
	}
	return map[string]interface{}{"fields": fields}
}

// GetValidator returns the singleton validator instance.
// The instance caches struct metadata, so sharing it is important.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct validates a struct using the singleton validator.
// Returns nil on success or *RequestValidationError on failure.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &RequestValidationError{fieldErrors: []FieldError{{
			Field:   "",
			Tag:     "",
			Message: err.Error(),
		}}}
	}

	fieldErrors := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: describeFailure(fe),
		})
	}
	return &RequestValidationError{fieldErrors: fieldErrors}
}

// describeFailure renders a failure message that tells the caller how to
// fix the request without exposing validator internals.
func describeFailure(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", fe.Field(), fe.Param())
	case "base64url":
		return fmt.Sprintf("%s must be URL-safe base64", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
