// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

/*
Package metrics provides Prometheus metrics for the recommendation service.

Metrics are registered on the default registry at package init and exposed
at /metrics by the API router.

# Available Metrics

Recommendation:
  - lunara_strategy_runs_total{strategy,result}
  - lunara_strategy_duration_seconds{strategy}
  - lunara_recommendations_generated_total
  - lunara_recommendation_suggestions

Events and feedback:
  - lunara_event_published_total{type}
  - lunara_event_handler_failures_total{type}
  - lunara_events_forwarded_total{result}
  - lunara_preference_updates_total{source}
  - lunara_preference_conflicts_total
  - lunara_feedback_total{action}
  - lunara_notifications_dropped_total

HTTP:
  - lunara_http_requests_total{method,route,status}
  - lunara_http_request_duration_seconds{method,route}
*/
package metrics
