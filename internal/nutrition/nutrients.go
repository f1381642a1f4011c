// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package nutrition

import (
	"math"
	"strings"

	"github.com/goccy/go-json"
)

// Nutrient is a closed enumeration of tracked nutrients.
type Nutrient int

// Tracked nutrients. NumNutrients must stay last.
const (
	Calories Nutrient = iota
	Protein
	Carbs
	Fat
	Fiber
	Iron
	Calcium
	Magnesium
	VitaminD
	VitaminC
	VitaminB6
	NumNutrients
)

var nutrientNames = [NumNutrients]string{
	Calories:  "calories",
	Protein:   "protein",
	Carbs:     "carbs",
	Fat:       "fat",
	Fiber:     "fiber",
	Iron:      "iron",
	Calcium:   "calcium",
	Magnesium: "magnesium",
	VitaminD:  "vitaminD",
	VitaminC:  "vitaminC",
	VitaminB6: "vitaminB6",
}

var nutrientUnits = [NumNutrients]string{
	Calories:  "kcal",
	Protein:   "g",
	Carbs:     "g",
	Fat:       "g",
	Fiber:     "g",
	Iron:      "mg",
	Calcium:   "mg",
	Magnesium: "mg",
	VitaminD:  "IU",
	VitaminC:  "mg",
	VitaminB6: "mg",
}

// String returns the nutrient's canonical name.
func (n Nutrient) String() string {
	if n < 0 || n >= NumNutrients {
		return "unknown"
	}
	return nutrientNames[n]
}

// Unit returns the unit amounts of n are expressed in.
func (n Nutrient) Unit() string {
	if n < 0 || n >= NumNutrients {
		return ""
	}
	return nutrientUnits[n]
}

// ParseNutrient resolves a nutrient name case-insensitively.
// Unknown names return false and are ignored by callers.
func ParseNutrient(name string) (Nutrient, bool) {
	for i, n := range nutrientNames {
		if strings.EqualFold(n, name) {
			return Nutrient(i), true
		}
	}
	return 0, false
}

// AllNutrients returns every tracked nutrient in declaration order.
func AllNutrients() []Nutrient {
	out := make([]Nutrient, NumNutrients)
	for i := range out {
		out[i] = Nutrient(i)
	}
	return out
}

// Amounts maps each nutrient to a non-negative quantity. It is used for
// daily goals, daily actuals, and per-100g food profiles.
type Amounts [NumNutrients]float64

// Get returns the amount for n.
func (a *Amounts) Get(n Nutrient) float64 {
	return a[n]
}

// Set stores v for n, clamping negatives to zero.
func (a *Amounts) Set(n Nutrient, v float64) {
	a[n] = math.Max(0, v)
}

// Add returns a + other*factor.
func (a Amounts) Add(other Amounts, factor float64) Amounts {
	for i := range a {
		a[i] = math.Max(0, a[i]+other[i]*factor)
	}
	return a
}

// Map converts a to a name-keyed map, omitting zero values.
func (a Amounts) Map() map[string]float64 {
	out := make(map[string]float64, NumNutrients)
	for i, v := range a {
		if v != 0 {
			out[nutrientNames[i]] = v
		}
	}
	return out
}

// FromMap builds Amounts from a name-keyed map. Unknown names are ignored.
func FromMap(m map[string]float64) Amounts {
	var a Amounts
	for name, v := range m {
		if n, ok := ParseNutrient(name); ok {
			a.Set(n, v)
		}
	}
	return a
}

// MarshalJSON encodes Amounts as an object keyed by nutrient name.
func (a Amounts) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Map())
}

// UnmarshalJSON decodes a name-keyed object, ignoring unknown nutrients.
func (a *Amounts) UnmarshalJSON(data []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*a = FromMap(m)
	return nil
}
