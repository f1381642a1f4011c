// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

/*
Package api provides the HTTP REST API for Lunara on the chi router.

Every route under /api/v1 identifies the acting user with the X-User-ID
header and answers with the same envelope:

	{
	  "success": true,
	  "data": {...},
	  "error": {"code": "NOT_FOUND", "message": "..."},
	  "meta": {"request_id": "...", "timestamp": "..."}
	}

Routes:

	GET  /health                            liveness and dependency checks
	GET  /metrics                           Prometheus exposition
	GET  /api/v1/profile                    the acting user's profile
	PUT  /api/v1/profile                    create or replace the profile
	GET  /api/v1/stats                      streak, XP, level and achievements
	GET  /api/v1/recommendations            ranked suggestions for today
	POST /api/v1/recommendations/feedback   accept, reject or save a suggestion
	GET  /api/v1/feedback/analysis          feedback analytics
	POST /api/v1/food-logs                  log a food portion
	GET  /api/v1/nutrition/daily?date=      daily nutrition summary
	POST /api/v1/cycles                     log a new cycle
	GET  /api/v1/cycles/current             current phase information
	GET  /api/v1/foods?q=&limit=            food catalog search
	GET  /api/v1/journey                    onboarding progress
	GET  /api/v1/warnings                   edge case warnings

Service errors map to status codes in ResponseWriter.ServiceError:
validation failures are 400 VALIDATION_ERROR with the failed fields as
details, unknown entities 404, missing cycle data 422 DATA_INSUFFICIENT,
disabled analytics 503 and everything else 500.

Middleware, in order: request id, real IP, access log, panic recovery, CORS
(go-chi/cors), request metrics, and on the user routes httprate limiting.
*/
package api
