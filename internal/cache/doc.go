// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

/*
Package cache provides a bounded, thread-safe LRU cache with TTL expiry.

Long-lived per-user state that would otherwise grow without bound is kept
in an LRU:

  - feedback.LogSink keeps one token-bucket limiter per user
  - service.Service remembers which (user, day) pairs already announced
    their nutrition goals

# Usage

	limiters := cache.NewLRU[*rate.Limiter](10000, time.Hour)
	l := limiters.GetOrAdd(userID, func() *rate.Limiter {
	    return rate.NewLimiter(1, 5)
	})

	seen := cache.NewLRU[struct{}](10000, 48*time.Hour)
	if !seen.IsDuplicate(key) {
	    // first sighting
	}

# Expiry

Expiry is lazy. Entries past their TTL are dropped when touched, or in bulk
by CleanupExpired. Len counts expired entries that have not been collected.
*/
package cache
