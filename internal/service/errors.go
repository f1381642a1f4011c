// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package service

import (
	"errors"
	"fmt"

	"github.com/tomtom215/lunara/internal/cycle"
	"github.com/tomtom215/lunara/internal/store"
	"github.com/tomtom215/lunara/internal/validation"
)

var (
	// ErrNotFound indicates a user, cycle or food does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a request failed validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrDataInsufficient indicates the user has not provided enough data
	// for the operation, typically no cycle records
	ErrDataInsufficient = errors.New("insufficient data")

	// ErrAnalyticsDisabled is returned when no feedback analyzer is configured
	ErrAnalyticsDisabled = errors.New("feedback analytics disabled")
)

// translate maps store and domain errors onto the service sentinels.
func translate(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case errors.Is(err, cycle.ErrInvalidRecord):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}

// validate runs struct validation and wraps failures in ErrInvalidInput.
// The returned error also unwraps to *validation.RequestValidationError.
func validate(in any) error {
	if verr := validation.ValidateStruct(in); verr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, verr)
	}
	return nil
}
