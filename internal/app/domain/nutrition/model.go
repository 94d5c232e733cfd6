// Package nutrition defines the calorie breakdown value objects produced by
// the meal enrichment engine.
package nutrition

import "math"

// FoodItem is one recognized or estimated component of a meal.
type FoodItem struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
}

// MealBreakdown is the structured calorie decomposition of one meal text.
// MealCalories is always the rounded sum of the food calories at construction
// time and is never mutated independently.
type MealBreakdown struct {
	Foods        []FoodItem `json:"foods"`
	MealCalories float64    `json:"meal_calories"`
}

// NewMealBreakdown builds a breakdown from its foods, computing the total.
func NewMealBreakdown(foods []FoodItem) MealBreakdown {
	var total float64
	for _, f := range foods {
		total += f.Calories
	}
	return MealBreakdown{Foods: foods, MealCalories: Round2(total)}
}

// Round2 rounds to two decimal places, the precision used for every calorie
// total in the product.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
