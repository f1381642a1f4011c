// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package store

import (
	"time"

	"github.com/tomtom215/lunara/internal/models"
	"github.com/tomtom215/lunara/internal/nutrition"
)

// seedFood is a compact per-100g nutrient row.
type seedFood struct {
	id, name, category                            string
	calories, protein, carbs, fat, fiber          float64
	iron, calcium, magnesium, vitaminC, vitaminB6 float64
}

var seedFoods = []seedFood{
	{"spinach", "Spinach", "vegetables", 23, 2.9, 3.6, 0.4, 2.2, 2.7, 99, 79, 28, 0.2},
	{"lentils", "Lentils (cooked)", "legumes", 116, 9.0, 20.1, 0.4, 7.9, 3.3, 19, 36, 1.5, 0.2},
	{"chickpeas", "Chickpeas (cooked)", "legumes", 164, 8.9, 27.4, 2.6, 7.6, 2.9, 49, 48, 1.3, 0.1},
	{"tofu", "Firm Tofu", "legumes", 144, 17.3, 2.8, 8.7, 2.3, 2.7, 683, 58, 0.2, 0.1},
	{"beef-steak", "Beef Steak", "meat", 271, 25.0, 0, 19.0, 0, 2.6, 18, 21, 0, 0.4},
	{"beef-liver", "Beef Liver", "meat", 135, 20.4, 3.9, 3.6, 0, 4.9, 5, 18, 1.3, 1.1},
	{"chicken-breast", "Chicken Breast", "meat", 165, 31.0, 0, 3.6, 0, 1.0, 15, 29, 0, 0.6},
	{"turkey", "Turkey Breast", "meat", 135, 30.1, 0, 0.7, 0, 1.4, 10, 32, 0, 0.8},
	{"salmon", "Salmon", "fish", 208, 20.4, 0, 13.4, 0, 0.3, 9, 27, 0, 0.6},
	{"tuna", "Tuna", "fish", 132, 28.2, 0, 1.3, 0, 1.0, 10, 35, 0, 0.5},
	{"sardines", "Sardines", "fish", 208, 24.6, 0, 11.5, 0, 2.9, 382, 39, 0, 0.2},
	{"eggs", "Eggs", "dairy", 155, 13.0, 1.1, 11.0, 0, 1.2, 50, 10, 0, 0.1},
	{"greek-yogurt", "Greek Yogurt", "dairy", 59, 10.2, 3.6, 0.4, 0, 0.1, 110, 11, 0, 0.1},
	{"cottage-cheese", "Cottage Cheese", "dairy", 98, 11.1, 3.4, 4.3, 0, 0.1, 83, 8, 0, 0.1},
	{"quinoa", "Quinoa (cooked)", "grains", 120, 4.4, 21.3, 1.9, 2.8, 1.5, 17, 64, 0, 0.1},
	{"oats", "Rolled Oats", "grains", 389, 16.9, 66.3, 6.9, 10.6, 4.7, 54, 177, 0, 0.1},
	{"brown-rice", "Brown Rice (cooked)", "grains", 123, 2.7, 25.6, 1.0, 1.6, 0.6, 3, 39, 0, 0.1},
	{"sweet-potato", "Sweet Potato", "vegetables", 86, 1.6, 20.1, 0.1, 3.0, 0.6, 30, 25, 2.4, 0.2},
	{"banana", "Banana", "fruit", 89, 1.1, 22.8, 0.3, 2.6, 0.3, 5, 27, 8.7, 0.4},
	{"orange", "Orange", "fruit", 47, 0.9, 11.8, 0.1, 2.4, 0.1, 40, 10, 53.2, 0.1},
	{"pumpkin-seeds", "Pumpkin Seeds", "nuts", 559, 30.2, 10.7, 49.1, 6.0, 8.8, 46, 592, 1.9, 0.1},
	{"almonds", "Almonds", "nuts", 579, 21.2, 21.6, 49.9, 12.5, 3.7, 269, 270, 0, 0.1},
	{"dark-chocolate", "Dark Chocolate 70%", "snacks", 598, 7.8, 45.9, 42.6, 10.9, 11.9, 73, 228, 0, 0},
	{"broccoli", "Broccoli", "vegetables", 34, 2.8, 6.6, 0.4, 2.6, 0.7, 47, 21, 89.2, 0.2},
	{"kale", "Kale", "vegetables", 49, 4.3, 8.8, 0.9, 3.6, 1.5, 150, 47, 120, 0.3},
}

// SeedCatalog loads the built-in food catalog into s.
func SeedCatalog(s *MemoryStore) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, f := range seedFoods {
		var n nutrition.Amounts
		n.Set(nutrition.Calories, f.calories)
		n.Set(nutrition.Protein, f.protein)
		n.Set(nutrition.Carbs, f.carbs)
		n.Set(nutrition.Fat, f.fat)
		n.Set(nutrition.Fiber, f.fiber)
		n.Set(nutrition.Iron, f.iron)
		n.Set(nutrition.Calcium, f.calcium)
		n.Set(nutrition.Magnesium, f.magnesium)
		n.Set(nutrition.VitaminC, f.vitaminC)
		n.Set(nutrition.VitaminB6, f.vitaminB6)

		s.AddFood(models.Food{
			ID:        f.id,
			Name:      f.name,
			Category:  f.category,
			Nutrients: n,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
}
