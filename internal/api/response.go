// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/lunara/internal/logging"
	"github.com/tomtom215/lunara/internal/service"
	"github.com/tomtom215/lunara/internal/validation"
)

// APIResponse is the envelope of every API response.
type APIResponse struct {
	// Success indicates whether the request was successful
	Success bool `json:"success"`

	// Data contains the response payload (null on error)
	Data interface{} `json:"data,omitempty"`

	// Error contains error details (null on success)
	Error *APIError `json:"error,omitempty"`

	Meta *APIMeta `json:"meta,omitempty"`
}

// APIError represents an error response.
type APIError struct {
	// Code is a machine-readable error code
	Code string `json:"code"`

	// Message is a human-readable error message
	Message string `json:"message"`

	// Details carries the failed fields of a validation error
	Details interface{} `json:"details,omitempty"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Error codes for API responses
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeMissingUser        = "MISSING_USER_ID"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeValidationFailed   = "VALIDATION_ERROR"
	ErrCodeDataInsufficient   = "DATA_INSUFFICIENT"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// ResponseWriter provides methods for writing standardized API responses.
type ResponseWriter struct {
	w http.ResponseWriter
	r *http.Request
}

// NewResponseWriter creates a new response writer.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{w: w, r: r}
}

// Success writes a 200 response with data.
func (rw *ResponseWriter) Success(data interface{}) {
	rw.write(http.StatusOK, APIResponse{Success: true, Data: data, Meta: rw.meta()})
}

// Created writes a 201 Created response.
func (rw *ResponseWriter) Created(data interface{}) {
	rw.write(http.StatusCreated, APIResponse{Success: true, Data: data, Meta: rw.meta()})
}

// Error writes an error response with the given status code.
func (rw *ResponseWriter) Error(statusCode int, code, message string) {
	rw.ErrorWithDetails(statusCode, code, message, nil)
}

// ErrorWithDetails writes an error response with additional details.
func (rw *ResponseWriter) ErrorWithDetails(statusCode int, code, message string, details interface{}) {
	rw.write(statusCode, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		Meta: rw.meta(),
	})
}

// BadRequest writes a 400 Bad Request error.
func (rw *ResponseWriter) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, ErrCodeBadRequest, message)
}

// NotFound writes a 404 Not Found error.
func (rw *ResponseWriter) NotFound(message string) {
	rw.Error(http.StatusNotFound, ErrCodeNotFound, message)
}

// ServiceError maps an error returned by the service onto a status code
// and error code. Unexpected errors are logged and reported as 500 without
// leaking their text.
func (rw *ResponseWriter) ServiceError(err error) {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed, verr.Error(), verr.Fields)
	case errors.Is(err, service.ErrInvalidInput):
		rw.Error(http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
	case errors.Is(err, service.ErrNotFound):
		rw.Error(http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, service.ErrDataInsufficient):
		rw.Error(http.StatusUnprocessableEntity, ErrCodeDataInsufficient, service.MessageAddCycleData)
	case errors.Is(err, service.ErrAnalyticsDisabled):
		rw.Error(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, err.Error())
	default:
		logging.Ctx(rw.r.Context()).Error().
			Str("error", sanitizeLogValue(err.Error())).
			Str("path", sanitizeLogValue(rw.r.URL.Path)).
			Msg("API Error")
		rw.Error(http.StatusInternalServerError, ErrCodeInternalError, "An internal error occurred")
	}
}

func (rw *ResponseWriter) meta() *APIMeta {
	return &APIMeta{
		RequestID: logging.RequestIDFromContext(rw.r.Context()),
		Timestamp: time.Now().UTC(),
	}
}

// write encodes the response with proper headers.
func (rw *ResponseWriter) write(statusCode int, response APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Ctx(rw.r.Context()).Error().Err(err).Msg("Failed to marshal JSON response")
		rw.w.WriteHeader(http.StatusInternalServerError)
		return
	}

	rw.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.w.Header().Set("Cache-Control", "no-store")
	rw.w.WriteHeader(statusCode)
	if _, err := rw.w.Write(data); err != nil {
		logging.Ctx(rw.r.Context()).Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// decodeJSON decodes a bounded JSON body into dst. Unknown fields are
// rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// sanitizeLogValue escapes control characters to prevent log injection.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
