// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package store

import (
	"cmp"
	"slices"

	"github.com/tomtom215/lunara/internal/models"
)

// FoodAcceptance is the per-food feedback aggregate for a user. Rate and
// Rejection are taken over accepted plus rejected; saves are neutral.
type FoodAcceptance struct {
	FoodID    string  `json:"food_id"`
	Accepted  int     `json:"accepted"`
	Rejected  int     `json:"rejected"`
	Saved     int     `json:"saved"`
	Total     int     `json:"total"`
	Rate      float64 `json:"acceptance_rate"`
	Rejection float64 `json:"rejection_rate"`
}

// Interactions is the number of accept or reject actions.
func (fa *FoodAcceptance) Interactions() int {
	return fa.Accepted + fa.Rejected
}

// ComputeRates fills Rate and Rejection from the counts.
func (fa *FoodAcceptance) ComputeRates() {
	if n := fa.Interactions(); n > 0 {
		fa.Rate = float64(fa.Accepted) / float64(n)
		fa.Rejection = float64(fa.Rejected) / float64(n)
	}
}

// ReasonCount is the number of rejections with a given reason.
type ReasonCount struct {
	Reason models.FeedbackReason `json:"reason"`
	Count  int                   `json:"count"`
}

// aggregateFeedback computes the same figures as the DuckDB aggregates over
// recs, which must already be limited to the window.
func aggregateFeedback(recs []models.FeedbackRecord) ([]FoodAcceptance, []ReasonCount) {
	byFood := make(map[string]*FoodAcceptance)
	byReason := make(map[models.FeedbackReason]int)

	for i := range recs {
		rec := &recs[i]
		fa, ok := byFood[rec.FoodID]
		if !ok {
			fa = &FoodAcceptance{FoodID: rec.FoodID}
			byFood[rec.FoodID] = fa
		}
		fa.Total++
		switch rec.Action {
		case models.ActionAccepted:
			fa.Accepted++
		case models.ActionRejected:
			fa.Rejected++
			if rec.Reason != "" {
				byReason[rec.Reason]++
			}
		case models.ActionSaved:
			fa.Saved++
		}
	}

	foods := make([]FoodAcceptance, 0, len(byFood))
	for _, fa := range byFood {
		fa.ComputeRates()
		foods = append(foods, *fa)
	}
	slices.SortFunc(foods, func(a, b FoodAcceptance) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.FoodID, b.FoodID)
	})

	reasons := make([]ReasonCount, 0, len(byReason))
	for r, n := range byReason {
		reasons = append(reasons, ReasonCount{Reason: r, Count: n})
	}
	slices.SortFunc(reasons, func(a, b ReasonCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Reason, b.Reason)
	})

	return foods, reasons
}
