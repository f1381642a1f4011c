// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package feedback

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/tomtom215/lunara/internal/models"
	"github.com/tomtom215/lunara/internal/store"
)

// Analysis thresholds
const (
	DefaultAnalysisWindow = 100

	topReasonLimit  = 3
	foodListLimit   = 5
	minInteractions = 2

	likedRate    = 0.7
	dislikedRate = 0.3

	lowAcceptance  = 0.3
	highAcceptance = 0.6

	avoidMinRejections = 2
	avoidRejectionRate = 0.7
)

// FoodRate is a food with its acceptance rate over accepts and rejects.
type FoodRate struct {
	FoodID         string  `json:"food_id"`
	AcceptanceRate float64 `json:"acceptance_rate"`
	Interactions   int     `json:"interactions"`
}

// Analysis summarises a user's recent feedback.
type Analysis struct {
	UserID              string              `json:"user_id"`
	Window              int                 `json:"window"`
	Total               int                 `json:"total"`
	Accepted            int                 `json:"accepted"`
	Rejected            int                 `json:"rejected"`
	Saved               int                 `json:"saved"`
	AcceptanceRate      float64             `json:"acceptance_rate"`
	TopRejectionReasons []store.ReasonCount `json:"top_rejection_reasons"`
	MostAccepted        []FoodRate          `json:"most_accepted"`
	LeastAccepted       []FoodRate          `json:"least_accepted"`
	Tips                []string            `json:"tips"`
}

// Analyzer computes feedback analytics.
type Analyzer struct {
	feedback store.FeedbackAggregator
	prefs    store.PreferenceStore
	window   int
}

// NewAnalyzer creates an analyzer over the newest window records. A
// non-positive window uses DefaultAnalysisWindow.
func NewAnalyzer(feedback store.FeedbackAggregator, prefs store.PreferenceStore, window int) *Analyzer {
	if window <= 0 {
		window = DefaultAnalysisWindow
	}
	return &Analyzer{feedback: feedback, prefs: prefs, window: window}
}

// Analyze returns the analysis for userID. A user without feedback gets a
// zero analysis with the encouragement tip.
func (a *Analyzer) Analyze(ctx context.Context, userID string) (*Analysis, error) {
	foods, err := a.feedback.FoodAcceptanceStats(ctx, userID, a.window)
	if err != nil {
		return nil, fmt.Errorf("food acceptance for %s: %w", userID, err)
	}
	reasons, err := a.feedback.TopRejectionReasons(ctx, userID, a.window, topReasonLimit)
	if err != nil {
		return nil, fmt.Errorf("rejection reasons for %s: %w", userID, err)
	}

	out := &Analysis{
		UserID:              userID,
		Window:              a.window,
		TopRejectionReasons: reasons,
		MostAccepted:        []FoodRate{},
		LeastAccepted:       []FoodRate{},
	}
	if out.TopRejectionReasons == nil {
		out.TopRejectionReasons = []store.ReasonCount{}
	}

	for i := range foods {
		fa := &foods[i]
		out.Total += fa.Total
		out.Accepted += fa.Accepted
		out.Rejected += fa.Rejected
		out.Saved += fa.Saved

		if fa.Interactions() < minInteractions {
			continue
		}
		fr := FoodRate{FoodID: fa.FoodID, AcceptanceRate: fa.Rate, Interactions: fa.Interactions()}
		switch {
		case fa.Rate > likedRate:
			out.MostAccepted = append(out.MostAccepted, fr)
		case fa.Rate < dislikedRate:
			out.LeastAccepted = append(out.LeastAccepted, fr)
		}
	}
	if out.Total > 0 {
		out.AcceptanceRate = float64(out.Accepted) / float64(out.Total)
	}

	slices.SortStableFunc(out.MostAccepted, func(x, y FoodRate) int {
		return cmp.Compare(y.AcceptanceRate, x.AcceptanceRate)
	})
	slices.SortStableFunc(out.LeastAccepted, func(x, y FoodRate) int {
		return cmp.Compare(x.AcceptanceRate, y.AcceptanceRate)
	})
	out.MostAccepted = truncate(out.MostAccepted, foodListLimit)
	out.LeastAccepted = truncate(out.LeastAccepted, foodListLimit)

	out.Tips = improvementTips(out.Total, out.AcceptanceRate, reasons)
	return out, nil
}

var reasonTips = map[models.FeedbackReason]string{
	models.ReasonTooExpensive:  "We'll lean toward budget-friendly foods in your suggestions.",
	models.ReasonNotAvailable:  "Suggestions will favour foods that are easy to find.",
	models.ReasonTooComplex:    "We'll focus on simpler, quicker options for you.",
	models.ReasonDontLikeTaste: "Noted. Foods you dislike will show up less often.",
}

const (
	tipLowAcceptance  = "We're still learning what you like. Keep rating suggestions to improve them."
	tipHighAcceptance = "Suggestions are matching your taste well. Keep it up!"
	tipDefault        = "Keep logging and rating suggestions; they get better every day."
)

func improvementTips(total int, acceptance float64, reasons []store.ReasonCount) []string {
	var tips []string
	if total > 0 {
		switch {
		case acceptance < lowAcceptance:
			tips = append(tips, tipLowAcceptance)
		case acceptance > highAcceptance:
			tips = append(tips, tipHighAcceptance)
		}
	}
	for _, r := range reasons {
		if tip, ok := reasonTips[r.Reason]; ok {
			tips = append(tips, tip)
		}
	}
	if len(tips) == 0 {
		tips = append(tips, tipDefault)
	}
	return tips
}

// FoodsToAvoid lists foods the user rejected more than twice with a
// rejection rate above 70%.
func (a *Analyzer) FoodsToAvoid(ctx context.Context, userID string) ([]string, error) {
	prefs, err := a.prefs.PreferencesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("preferences for %s: %w", userID, err)
	}

	avoid := []string{}
	for i := range prefs {
		p := &prefs[i]
		if p.RejectCount <= avoidMinRejections {
			continue
		}
		rate := float64(p.RejectCount) / float64(p.AcceptCount+p.RejectCount)
		if rate > avoidRejectionRate {
			avoid = append(avoid, p.FoodID)
		}
	}
	return avoid, nil
}

func truncate[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
