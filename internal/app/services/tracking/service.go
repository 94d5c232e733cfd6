// Package tracking implements daily adherence and exercise-set tracking.
package tracking

import (
	"context"
	"math"
	"strings"

	"github.com/fitnessbro/platform/internal/app/domain/tracking"
	"github.com/fitnessbro/platform/internal/app/domain/user"
	"github.com/fitnessbro/platform/internal/app/storage"
	apperrors "github.com/fitnessbro/platform/internal/errors"
	"github.com/fitnessbro/platform/pkg/logger"
)

// Identity is the authenticated caller extracted from the bearer token.
type Identity struct {
	Subject string
	Role    string
}

// IsCoach reports whether the caller carries the coach role.
func (id Identity) IsCoach() bool { return id.Role == user.RoleCoach }

// UpdateDayRequest is a patch-style day update. Nil fields are left as they
// are; set fields overwrite.
type UpdateDayRequest struct {
	MealMorningDone *bool `json:"meal_morning_done"`
	MealNoonDone    *bool `json:"meal_noon_done"`
	MealEveningDone *bool `json:"meal_evening_done"`
	WorkoutDone     *bool `json:"workout_done"`
}

// Stats summarizes one client's tracked days.
type Stats struct {
	ClientID          string  `json:"client_id"`
	DaysTracked       int     `json:"days_tracked"`
	AverageCompliance float64 `json:"average_compliance"`
}

// ClientStats is a coach-facing stats row, one per client.
type ClientStats struct {
	ClientID          string  `json:"client_id"`
	Email             string  `json:"email"`
	DaysTracked       int     `json:"days_tracked"`
	AverageCompliance float64 `json:"average_compliance"`
}

// Service applies the tracking rules over the store.
type Service struct {
	store storage.TrackingStore
	users storage.UserStore
	log   *logger.Logger
}

// New constructs a tracking service.
func New(store storage.TrackingStore, users storage.UserStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("tracking")
	}
	return &Service{store: store, users: users, log: log}
}

// canRead allows the client themself, or a coach whose roster contains the
// client.
func (s *Service) canRead(ctx context.Context, caller Identity, clientID string) error {
	if caller.Subject == clientID {
		return nil
	}
	if caller.IsCoach() {
		client, err := s.users.GetUser(ctx, clientID)
		if err != nil {
			return apperrors.NotFound("client not found")
		}
		if client.CoachID == caller.Subject {
			return nil
		}
	}
	return apperrors.Forbidden("access denied")
}

// GetWeek returns every tracked day for the client, ordered by day.
func (s *Service) GetWeek(ctx context.Context, caller Identity, clientID string) ([]tracking.DailyTracking, error) {
	if err := s.canRead(ctx, caller, clientID); err != nil {
		return nil, err
	}
	return s.store.ListDailyTracking(ctx, clientID)
}

// UpdateDay applies a patch to one day's record, creating the row on first
// write, and recomputes the compliance rate.
func (s *Service) UpdateDay(ctx context.Context, caller Identity, clientID, day string, req UpdateDayRequest) (tracking.DailyTracking, error) {
	if caller.Subject != clientID {
		return tracking.DailyTracking{}, apperrors.Forbidden("clients can only update their own tracking")
	}
	if strings.TrimSpace(day) == "" {
		return tracking.DailyTracking{}, apperrors.InvalidInput("day is required")
	}

	rec, err := s.store.GetDailyTracking(ctx, clientID, day)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			return tracking.DailyTracking{}, err
		}
		rec = tracking.DailyTracking{ClientID: clientID, Day: day}
	}

	if req.MealMorningDone != nil {
		rec.MealMorningDone = *req.MealMorningDone
	}
	if req.MealNoonDone != nil {
		rec.MealNoonDone = *req.MealNoonDone
	}
	if req.MealEveningDone != nil {
		rec.MealEveningDone = *req.MealEveningDone
	}
	if req.WorkoutDone != nil {
		rec.WorkoutDone = *req.WorkoutDone
	}
	rec.ComplianceRate = rec.Rate()

	return s.store.UpsertDailyTracking(ctx, rec)
}

// Stats returns the client's tracking summary. A client with no tracked days
// is NotFound.
func (s *Service) Stats(ctx context.Context, caller Identity, clientID string) (Stats, error) {
	if err := s.canRead(ctx, caller, clientID); err != nil {
		return Stats{}, err
	}

	days, err := s.store.ListDailyTracking(ctx, clientID)
	if err != nil {
		return Stats{}, err
	}
	if len(days) == 0 {
		return Stats{}, apperrors.NotFound("no tracking data for client")
	}
	return Stats{
		ClientID:          clientID,
		DaysTracked:       len(days),
		AverageCompliance: averageRate(days),
	}, nil
}

// CoachClientsStats returns one stats row per client on the coach's roster.
// Clients with no tracked days still appear, at zero.
func (s *Service) CoachClientsStats(ctx context.Context, caller Identity) ([]ClientStats, error) {
	if !caller.IsCoach() {
		return nil, apperrors.Forbidden("coach role required")
	}

	clients, err := s.users.ListClientsForCoach(ctx, caller.Subject)
	if err != nil {
		return nil, err
	}

	stats := make([]ClientStats, 0, len(clients))
	for _, c := range clients {
		days, err := s.store.ListDailyTracking(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		row := ClientStats{ClientID: c.ID, Email: c.Email, DaysTracked: len(days)}
		if len(days) > 0 {
			row.AverageCompliance = averageRate(days)
		}
		stats = append(stats, row)
	}
	return stats, nil
}

// RecordSet upserts one exercise set. The (client, day, date, exercise,
// set index) tuple identifies the row; repeated writes overwrite the weight.
func (s *Service) RecordSet(ctx context.Context, caller Identity, set tracking.ExerciseSet) (tracking.ExerciseSet, error) {
	if caller.Subject != set.ClientID {
		return tracking.ExerciseSet{}, apperrors.Forbidden("clients can only record their own sets")
	}
	if strings.TrimSpace(set.ExerciseName) == "" || strings.TrimSpace(set.Day) == "" {
		return tracking.ExerciseSet{}, apperrors.InvalidInput("day and exercise_name are required")
	}
	if set.SetIndex < 0 {
		return tracking.ExerciseSet{}, apperrors.InvalidInput("set_index must not be negative")
	}
	return s.store.UpsertExerciseSet(ctx, set)
}

// ListSets returns the client's exercise sets in store order (day, date,
// exercise, set index).
func (s *Service) ListSets(ctx context.Context, caller Identity, clientID string) ([]tracking.ExerciseSet, error) {
	if err := s.canRead(ctx, caller, clientID); err != nil {
		return nil, err
	}
	return s.store.ListExerciseSets(ctx, clientID)
}

func averageRate(days []tracking.DailyTracking) float64 {
	var sum float64
	for _, d := range days {
		sum += d.ComplianceRate
	}
	return math.Round(sum/float64(len(days))*100) / 100
}
