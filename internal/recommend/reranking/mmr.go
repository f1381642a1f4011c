// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package reranking

import (
	"context"
	"strings"

	"github.com/tomtom215/lunara/internal/recommend"
)

// MMR implements Maximal Marginal Relevance reranking over food categories.
//
// Each step picks the suggestion maximising
//
//	lambda * relevance(i) - (1-lambda) * max(sim(i, s)) for s in selected
//
// where relevance is the suggestion priority scaled into [0, 1] by the
// highest priority in the list, and sim is 1 for foods of the same category
// and 0 otherwise.
//
// Reference:
// Carbonell, J., & Goldstein, J. (1998). "The Use of MMR, Diversity-Based
// Reranking for Reordering Documents and Producing Summaries." SIGIR 1998.
type MMR struct {
	lambda float64
}

// NewMMR creates an MMR reranker. lambda is clamped to [0, 1]; 1 keeps
// pure priority order.
func NewMMR(lambda float64) *MMR {
	if lambda < 0 {
		lambda = 0
	}
	if lambda > 1 {
		lambda = 1
	}
	return &MMR{lambda: lambda}
}

// NewDiversity creates an MMR reranker from a diversity weight, the
// complement of lambda.
func NewDiversity(diversity float64) *MMR {
	return NewMMR(1 - diversity)
}

// Name returns the reranker identifier.
func (m *MMR) Name() string {
	return "mmr"
}

// Rerank selects up to k suggestions from ranked. Ties go to the earlier,
// higher priority suggestion.
//
//nolint:gocritic // rangeValCopy: Suggestion passed by value in range, acceptable for clarity
func (m *MMR) Rerank(ctx context.Context, ranked []recommend.Suggestion, k int) []recommend.Suggestion {
	if k <= 0 || len(ranked) == 0 {
		return []recommend.Suggestion{}
	}
	if k > len(ranked) {
		k = len(ranked)
	}
	if m.lambda >= 1 {
		return append([]recommend.Suggestion(nil), ranked[:k]...)
	}

	maxPriority := 0.0
	for _, s := range ranked {
		if s.Priority > maxPriority {
			maxPriority = s.Priority
		}
	}

	categories := make([]string, len(ranked))
	for i, s := range ranked {
		categories[i] = strings.ToLower(strings.TrimSpace(s.Food.Category))
	}

	selected := make([]recommend.Suggestion, 0, k)
	picked := make([]bool, len(ranked))
	chosenCategories := make(map[string]struct{}, k)

	for len(selected) < k {
		if ctx.Err() != nil {
			break
		}

		bestIdx := -1
		bestScore := 0.0
		for i, s := range ranked {
			if picked[i] {
				continue
			}
			score := m.lambda*relevance(s.Priority, maxPriority) -
				(1-m.lambda)*similarity(categories[i], chosenCategories)
			if bestIdx < 0 || score > bestScore {
				bestIdx = i
				bestScore = score
			}
		}
		if bestIdx < 0 {
			break
		}

		picked[bestIdx] = true
		selected = append(selected, ranked[bestIdx])
		if categories[bestIdx] != "" {
			chosenCategories[categories[bestIdx]] = struct{}{}
		}
	}

	// On cancellation fill the remainder in priority order.
	for i := 0; i < len(ranked) && len(selected) < k; i++ {
		if !picked[i] {
			picked[i] = true
			selected = append(selected, ranked[i])
		}
	}
	return selected
}

func relevance(priority, maxPriority float64) float64 {
	if maxPriority <= 0 {
		return 0
	}
	return priority / maxPriority
}

// similarity is the largest similarity between a category and the chosen
// set. Uncategorised foods are never similar to anything.
func similarity(category string, chosen map[string]struct{}) float64 {
	if category == "" {
		return 0
	}
	if _, ok := chosen[category]; ok {
		return 1
	}
	return 0
}

var _ recommend.Reranker = (*MMR)(nil)
