// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

/*
Package middleware provides chi-compatible HTTP middleware shared by the API.

Key Components:

  - RequestID: request id from X-Request-ID or generated, stored in the
    logging context and in chi's request id slot
  - RequestLogger: request-scoped zerolog logger and one access log line
  - PrometheusMetrics: request count and latency labelled by chi route pattern

Middleware Stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics)

PrometheusMetrics reads the route pattern after the handler returns, so it
must be installed with r.Use on the router that resolves the route.
*/
package middleware
