// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

/*
Package models defines the persisted domain records shared across Lunara.

Key types:

  - UserProfile: body metrics, activity level and dietary settings
  - Food: catalog entry with a per-100g nutrition.Amounts profile
  - FoodLog: one logged portion, tagged with a MealType
  - FoodPreference: learned per-user, per-food preference; only the
    feedback loop mutates it
  - FeedbackRecord: append-only ACCEPTED / REJECTED / SAVED action
  - UserStats: logging streaks, XP, level and awarded achievements

Cycle records live in package cycle, suggestions in package recommend.

All types serialize to snake_case JSON and are stored as JSON documents
by the store package.
*/
package models
