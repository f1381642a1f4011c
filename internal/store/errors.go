// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package store

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates an optimistic update kept conflicting
	ErrConflict = errors.New("update conflict")

	// ErrClosed indicates the store has been closed
	ErrClosed = errors.New("store closed")
)
