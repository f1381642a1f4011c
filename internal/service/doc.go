// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

/*
Package service composes the cycle model, goal calculator, edge case
detector, recommendation engine and feedback loop into the operations
served by the API.

Operations that change state publish domain events. LogFood, SubmitFeedback
and AddCycle publish synchronously, so preference and stats handlers have run
when they return. GetRecommendations publishes recommendation.shown in the
background; Wait blocks until such publishes finish.

Errors are wrapped around ErrNotFound, ErrInvalidInput or
ErrDataInsufficient; callers classify them with errors.Is.
*/
package service
