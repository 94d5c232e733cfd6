// Package compliance defines the adherence-rate records.
package compliance

import (
	"math"
	"time"
)

// DailyEntry is one day's set of completed commitments as submitted by the
// caller.
type DailyEntry struct {
	Day             string `json:"day"`
	MealMorningDone bool   `json:"meal_morning_done"`
	MealNoonDone    bool   `json:"meal_noon_done"`
	MealEveningDone bool   `json:"meal_evening_done"`
	WorkoutDone     bool   `json:"workout_done"`
}

// Rate returns the entry's compliance percentage, two decimals.
func (e DailyEntry) Rate() float64 {
	done := 0
	for _, b := range []bool{e.MealMorningDone, e.MealNoonDone, e.MealEveningDone, e.WorkoutDone} {
		if b {
			done++
		}
	}
	return math.Round(float64(done)/4*100*100) / 100
}

// Record is a persisted daily compliance calculation.
type Record struct {
	ID             string     `json:"id"`
	ClientID       string     `json:"client_id"`
	Entry          DailyEntry `json:"entry"`
	ComplianceRate float64    `json:"compliance_rate"`
	CreatedAt      time.Time  `json:"created_at"`
}

// WeeklySummary aggregates daily rates over one submitted week.
type WeeklySummary struct {
	ClientID          string    `json:"client_id"`
	AverageCompliance float64   `json:"average_compliance"`
	DailyRates        []float64 `json:"daily_rates"`
}
