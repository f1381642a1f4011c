// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

/*
Package feedback closes the loop between suggestions and user behaviour.

Event handlers registered on the bus:

  - Updater: adjusts the per-food preference record on food.logged and
    recommendation.feedback, through the configured ScoringPolicy
  - GamificationHandler: streaks, XP, levels and achievements on food.logged
  - NotificationListener: forwards achievements, phase changes and met goals
    to a NotificationSink

Analyzer reports acceptance rates, rejection reasons and tips from the
user's recent feedback.

# Scoring Policies

Exactly one policy is active per process:

  - AdditivePolicy (default): fixed increments per action, clamped to [0, 1]
  - BlendPolicy: 0.5 x acceptance rate + 0.3 x recency + 0.2 x frequency

Policies are pure functions of the current record, because a store may run
an update more than once when it retries a conflicting write.
*/
package feedback
