package nutrition

import (
	"regexp"
	"strings"

	"github.com/fitnessbro/platform/internal/app/domain/nutrition"
)

// DefaultItemCalories is assigned to tokens the food table does not know.
const DefaultItemCalories = 120.0

// FoodTable maps a lowercase food name to calories per default portion. It is
// an immutable value injected into the estimator so it can be swapped in tests.
type FoodTable map[string]float64

// DefaultFoodTable covers common whole foods with both a French and an
// English spelling per item.
func DefaultFoodTable() FoodTable {
	return FoodTable{
		"poulet": 239, "chicken": 239,
		"riz": 130, "rice": 130,
		"pates": 131, "pasta": 131,
		"oeuf": 78, "egg": 78,
		"avocat": 160, "avocado": 160,
		"pomme": 95, "apple": 95,
		"banane": 105, "banana": 105,
		"saumon": 208, "salmon": 208,
		"boeuf": 250, "beef": 250,
		"thon": 132, "tuna": 132,
		"pain": 80, "bread": 80,
		"fromage": 113, "cheese": 113,
		"yaourt": 59, "yogurt": 59,
		"lait": 103, "milk": 103,
		"salade": 15, "salad": 15,
		"tomate": 22, "tomato": 22,
		"brocoli": 55, "broccoli": 55,
		"patate": 130, "potato": 130,
		"lentilles": 230, "lentils": 230,
		"amandes": 164, "almonds": 164,
	}
}

var itemSeparator = regexp.MustCompile(`[,;\n]+`)

// LocalEstimator is the deterministic fallback used when the AI provider is
// unavailable or returns unusable output.
type LocalEstimator struct {
	table FoodTable
}

// NewLocalEstimator builds an estimator over the given table. A nil table
// falls back to the default one.
func NewLocalEstimator(table FoodTable) *LocalEstimator {
	if table == nil {
		table = DefaultFoodTable()
	}
	return &LocalEstimator{table: table}
}

// Estimate prices a meal text from the table. Each comma, semicolon or
// newline separated token is looked up after stripping quantity words; an
// unknown token receives the fixed default rather than failing.
func (e *LocalEstimator) Estimate(mealText string) nutrition.MealBreakdown {
	tokens := SplitItems(mealText)

	foods := make([]nutrition.FoodItem, 0, len(tokens))
	for _, token := range tokens {
		foods = append(foods, nutrition.FoodItem{
			Name:     token,
			Calories: e.lookup(token),
		})
	}
	return nutrition.NewMealBreakdown(foods)
}

// lookup matches a token against the table case-insensitively. Tokens like
// "100g poulet" match through their individual words.
func (e *LocalEstimator) lookup(token string) float64 {
	lowered := strings.ToLower(token)
	if cal, ok := e.table[lowered]; ok {
		return cal
	}
	for _, word := range strings.Fields(lowered) {
		if cal, ok := e.table[word]; ok {
			return cal
		}
	}
	return DefaultItemCalories
}

// SplitItems splits a raw meal description into trimmed non-empty item tokens.
func SplitItems(mealText string) []string {
	parts := itemSeparator.Split(mealText, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
