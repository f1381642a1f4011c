// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

// Package nutrition computes phase-aware daily nutrient goals and grades
// a day's intake against them.
//
// Nutrients form a closed enumeration; Amounts is a fixed array indexed by
// Nutrient so goals, actuals and food profiles share one representation.
package nutrition
