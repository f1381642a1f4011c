// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

/*
Package store defines the persistence boundary of the recommendation core and
its implementations.

# Implementations

  - MemoryStore: users, cycles, the food catalog, daily logs and stats
  - BadgerPreferenceStore: per-user per-food preferences on BadgerDB
  - DuckDBFeedbackStore: append-only feedback log with SQL aggregates

Preference updates are read-modify-write. BadgerPreferenceStore runs each
update in one transaction and retries on badger.ErrConflict, so concurrent
updates to the same pair are never lost.
*/
package store
