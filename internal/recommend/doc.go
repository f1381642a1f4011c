// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

/*
Package recommend combines independent food recommendation strategies into a
single ranked list.

# Strategies

A Strategy proposes suggestions under its own applicability rule. The Engine
orders registered strategies by static Priority, then registration order,
and runs every supported one concurrently. Each run has its own timeout and
its own circuit breaker (sony/gobreaker). A strategy that errors, panics,
times out or has an open breaker is logged and skipped.

# Ranking

Results are merged in strategy order and deduplicated by food id, keeping
the suggestion with the highest Priority (the earlier one on ties). The
merged list is sorted by Priority descending and truncated to
Config.MaxSuggestions.

Strategies can be registered and removed at runtime:

	engine.Register(strategies.NewIron())
	engine.Remove(strategies.NameIron)

Concrete strategies live in the strategies subpackage.
*/
package recommend
