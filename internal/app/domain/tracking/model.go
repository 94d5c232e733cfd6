// Package tracking defines the client adherence records.
package tracking

import (
	"math"
	"time"
)

// DailyTracking records which of the day's four commitments (three meals and
// the workout) a client completed. ComplianceRate is the completed share as a
// percentage, rounded to two decimals.
type DailyTracking struct {
	ID              string  `json:"id"`
	ClientID        string  `json:"client_id"`
	Day             string  `json:"day"`
	MealMorningDone bool    `json:"meal_morning_done"`
	MealNoonDone    bool    `json:"meal_noon_done"`
	MealEveningDone bool    `json:"meal_evening_done"`
	WorkoutDone     bool    `json:"workout_done"`
	ComplianceRate  float64 `json:"compliance_rate"`
}

// Rate returns the day's compliance percentage, two decimals.
func (t DailyTracking) Rate() float64 {
	done := 0
	for _, b := range []bool{t.MealMorningDone, t.MealNoonDone, t.MealEveningDone, t.WorkoutDone} {
		if b {
			done++
		}
	}
	return math.Round(float64(done)/4*100*100) / 100
}

// ExerciseSet records the weight lifted for one set of one exercise on one
// date. The (client, day, date, exercise, set index) tuple is unique; writes
// are upserts.
type ExerciseSet struct {
	ID           string    `json:"id"`
	ClientID     string    `json:"client_id"`
	Day          string    `json:"day"`
	Date         time.Time `json:"date"`
	ExerciseName string    `json:"exercise_name"`
	SetIndex     int       `json:"set_index"`
	Weight       float64   `json:"weight"`
}
