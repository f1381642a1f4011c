// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package strategies

import (
	"context"
	"fmt"

	"github.com/tomtom215/lunara/internal/models"
	"github.com/tomtom215/lunara/internal/nutrition"
	"github.com/tomtom215/lunara/internal/recommend"
)

const (
	proteinMinPerServing = 15.0
	proteinTopN          = 3
	proteinPriority      = 85
)

// Protein suggests protein-dense foods when intake is below the warning
// ratio of the target.
type Protein struct {
	ratio float64
}

// NewProtein creates the protein strategy. A non-positive ratio selects
// nutrition.DeficiencyWarningRatio.
func NewProtein(ratio float64) *Protein {
	if ratio <= 0 {
		ratio = nutrition.DeficiencyWarningRatio
	}
	return &Protein{ratio: ratio}
}

func (*Protein) Name() string  { return NameProtein }
func (*Protein) Priority() int { return proteinPriority }

// Supports reports whether protein intake is below the ratio. A zero target
// is never supported.
func (s *Protein) Supports(rc *recommend.Context) bool {
	target := rc.Goals.Get(nutrition.Protein)
	if target <= 0 {
		return false
	}
	return rc.Actuals.Get(nutrition.Protein)/target < s.ratio
}

func (*Protein) Recommend(_ context.Context, rc *recommend.Context, foods []models.Food) ([]recommend.Suggestion, error) {
	gap := max(rc.Goals.Get(nutrition.Protein)-rc.Actuals.Get(nutrition.Protein), 0)
	prefix := ""
	if rc.Phase.IsLuteal() {
		prefix = "During the luteal phase your body burns more protein. "
	}

	picks := topBy(foods, nutrition.Protein, proteinMinPerServing, proteinTopN)
	out := make([]recommend.Suggestion, 0, len(picks))
	for _, food := range picks {
		protein := food.Nutrients.Get(nutrition.Protein)
		out = append(out, newSuggestion(food, NameProtein, proteinPriority,
			fmt.Sprintf("Rich in protein (%.1fg per 100g)", protein),
			fmt.Sprintf("%s%s provides %.1fg of protein per 100g. You need %.1fg more protein today.",
				prefix, food.Name, protein, gap)))
	}
	return out, nil
}
