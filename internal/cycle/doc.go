// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

/*
Package cycle models a recurring menstrual cycle with deterministic date arithmetic.

All functions are pure: given a Record and a reference date they compute the
day in cycle, the current Phase, predicted dates, and a health assessment.
Dates are compared at UTC calendar-day precision.

# Phase Boundaries

For a cycle of length L and period of length P, day d is classified as:

  - d <= P                      MENSTRUAL
  - d <= floor(0.4 * L)         FOLLICULAR
  - |d - (L - 14)| <= 2         OVULATION
  - d <= floor(0.75 * L)        EARLY_LUTEAL
  - otherwise                   LATE_LUTEAL

The rules are evaluated top to bottom.
*/
package cycle
