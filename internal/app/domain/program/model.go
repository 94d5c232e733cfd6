// Package program defines the weekly nutrition and training plan entities.
package program

import (
	"time"

	"github.com/fitnessbro/platform/internal/app/domain/nutrition"
)

// DefaultWorkout is used when a day carries no workout description.
const DefaultWorkout = "Repos"

// Exercise is one strength movement prescribed for a day.
type Exercise struct {
	Name string `json:"name"`
	Sets int    `json:"sets"`
	Reps int    `json:"reps"`
}

// DayPlan is one fully priced day of a program. DailyCalories is the rounded
// sum of the meal totals and is recomputed whenever the meals change.
type DayPlan struct {
	Day           string                             `json:"day"`
	Meals         map[string]nutrition.MealBreakdown `json:"meals"`
	Workout       string                             `json:"workout"`
	DailyCalories float64                            `json:"daily_calories"`
	Exercises     []Exercise                         `json:"exercises"`
}

// Program is a week-long plan authored by one coach for one client.
// Calories is the rounded sum of the daily totals.
type Program struct {
	ID        string    `json:"id"`
	CoachID   string    `json:"coach_id"`
	ClientID  string    `json:"client_id"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes,omitempty"`
	Days      []DayPlan `json:"days"`
	Calories  float64   `json:"calories"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// CoachEmail is populated on read paths by the identity resolver and is
	// never persisted.
	CoachEmail string `json:"coach_email,omitempty"`
}

// DayCalories sums the meal totals for a day.
func DayCalories(meals map[string]nutrition.MealBreakdown) float64 {
	var total float64
	for _, m := range meals {
		total += m.MealCalories
	}
	return nutrition.Round2(total)
}

// WeekCalories sums the daily totals for a program.
func WeekCalories(days []DayPlan) float64 {
	var total float64
	for _, d := range days {
		total += d.DailyCalories
	}
	return nutrition.Round2(total)
}
