// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

// Package logging provides the process-wide zerolog logger.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("user_id", id).Msg("cycle created")
//
// Components take a zerolog.Logger and tag it once:
//
//	logger := logging.Component("recommend")
//
// Request-scoped fields travel in the context; logging.Ctx(ctx) returns a
// logger carrying the request id and user id when present.
//
// Libraries that want *slog.Logger (sutureslog) receive NewSlogLogger(),
// which writes through zerolog.
package logging
