package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fitnessbro/platform/internal/app/domain/compliance"
	"github.com/fitnessbro/platform/internal/app/domain/nutrition"
	"github.com/fitnessbro/platform/internal/app/domain/program"
	"github.com/fitnessbro/platform/internal/app/domain/tracking"
	"github.com/fitnessbro/platform/internal/app/domain/user"
	"github.com/fitnessbro/platform/internal/app/storage"
	apperrors "github.com/fitnessbro/platform/internal/errors"
)

// Store is an in-memory implementation of the storage interfaces. It is safe
// for concurrent use and is primarily intended for tests and local development.
type Store struct {
	mu         sync.RWMutex
	nextID     int64
	users      map[string]user.User
	programs   map[string]program.Program
	daily      map[string]tracking.DailyTracking
	sets       map[string]tracking.ExerciseSet
	compliance map[string][]compliance.Record
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.ProgramStore = (*Store)(nil)
var _ storage.TrackingStore = (*Store)(nil)
var _ storage.ComplianceStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		nextID:     1,
		users:      make(map[string]user.User),
		programs:   make(map[string]program.Program),
		daily:      make(map[string]tracking.DailyTracking),
		sets:       make(map[string]tracking.ExerciseSet),
		compliance: make(map[string][]compliance.Record),
	}
}

func (s *Store) nextIDLocked() string {
	id := s.nextID
	s.nextID++
	return fmt.Sprintf("%d", id)
}

// UserStore implementation ----------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.User{}, apperrors.Conflict("email already in use")
		}
	}

	if u.ID == "" {
		u.ID = s.nextIDLocked()
	} else if _, exists := s.users[u.ID]; exists {
		return user.User{}, apperrors.Conflict(fmt.Sprintf("user %s already exists", u.ID))
	}
	u.CreatedAt = time.Now().UTC()

	s.users[u.ID] = u
	return u, nil
}

func (s *Store) GetUser(_ context.Context, id string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return user.User{}, apperrors.NotFound(fmt.Sprintf("user %s not found", id))
	}
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, apperrors.NotFound("user not found")
}

func (s *Store) ListClientsForCoach(_ context.Context, coachID string) ([]user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []user.User
	for _, u := range s.users {
		if u.Role == user.RoleClient && u.CoachID == coachID {
			out = append(out, u)
		}
	}
	sortUsers(out)
	return out, nil
}

func (s *Store) ListClients(_ context.Context) ([]user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []user.User
	for _, u := range s.users {
		if u.Role == user.RoleClient {
			out = append(out, u)
		}
	}
	sortUsers(out)
	return out, nil
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return apperrors.NotFound(fmt.Sprintf("user %s not found", id))
	}
	delete(s.users, id)
	return nil
}

// ProgramStore implementation -------------------------------------------------

func (s *Store) CreateProgram(_ context.Context, p program.Program) (program.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = s.nextIDLocked()
	} else if _, exists := s.programs[p.ID]; exists {
		return program.Program{}, apperrors.Conflict(fmt.Sprintf("program %s already exists", p.ID))
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Days = cloneDays(p.Days)

	s.programs[p.ID] = p
	return cloneProgram(p), nil
}

func (s *Store) UpdateProgram(_ context.Context, p program.Program) (program.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.programs[p.ID]
	if !ok {
		return program.Program{}, apperrors.NotFound(fmt.Sprintf("program %s not found", p.ID))
	}

	p.CreatedAt = original.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	p.Days = cloneDays(p.Days)

	s.programs[p.ID] = p
	return cloneProgram(p), nil
}

func (s *Store) GetProgram(_ context.Context, id string) (program.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.programs[id]
	if !ok {
		return program.Program{}, apperrors.NotFound(fmt.Sprintf("program %s not found", id))
	}
	return cloneProgram(p), nil
}

func (s *Store) ListProgramsByClient(_ context.Context, clientID string) ([]program.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []program.Program
	for _, p := range s.programs {
		if p.ClientID == clientID {
			out = append(out, cloneProgram(p))
		}
	}
	sortPrograms(out)
	return out, nil
}

func (s *Store) ListProgramsByCoach(_ context.Context, coachID string) ([]program.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []program.Program
	for _, p := range s.programs {
		if p.CoachID == coachID {
			out = append(out, cloneProgram(p))
		}
	}
	sortPrograms(out)
	return out, nil
}

func (s *Store) DeleteProgram(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.programs[id]; !ok {
		return apperrors.NotFound(fmt.Sprintf("program %s not found", id))
	}
	delete(s.programs, id)
	return nil
}

// TrackingStore implementation ------------------------------------------------

func dailyKey(clientID, day string) string {
	return clientID + "|" + day
}

func (s *Store) GetDailyTracking(_ context.Context, clientID, day string) (tracking.DailyTracking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.daily[dailyKey(clientID, day)]
	if !ok {
		return tracking.DailyTracking{}, apperrors.NotFound("tracking day not found")
	}
	return t, nil
}

func (s *Store) UpsertDailyTracking(_ context.Context, t tracking.DailyTracking) (tracking.DailyTracking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dailyKey(t.ClientID, t.Day)
	if existing, ok := s.daily[key]; ok {
		t.ID = existing.ID
	} else if t.ID == "" {
		t.ID = s.nextIDLocked()
	}
	s.daily[key] = t
	return t, nil
}

func (s *Store) ListDailyTracking(_ context.Context, clientID string) ([]tracking.DailyTracking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []tracking.DailyTracking
	for _, t := range s.daily {
		if t.ClientID == clientID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}

func setKey(set tracking.ExerciseSet) string {
	return fmt.Sprintf("%s|%s|%s|%s|%d",
		set.ClientID, set.Day, set.Date.Format("2006-01-02"), set.ExerciseName, set.SetIndex)
}

func (s *Store) UpsertExerciseSet(_ context.Context, set tracking.ExerciseSet) (tracking.ExerciseSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := setKey(set)
	if existing, ok := s.sets[key]; ok {
		set.ID = existing.ID
	} else if set.ID == "" {
		set.ID = s.nextIDLocked()
	}
	s.sets[key] = set
	return set, nil
}

func (s *Store) ListExerciseSets(_ context.Context, clientID string) ([]tracking.ExerciseSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []tracking.ExerciseSet
	for _, set := range s.sets {
		if set.ClientID == clientID {
			out = append(out, set)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].ExerciseName != out[j].ExerciseName {
			return out[i].ExerciseName < out[j].ExerciseName
		}
		return out[i].SetIndex < out[j].SetIndex
	})
	return out, nil
}

// ComplianceStore implementation ----------------------------------------------

func (s *Store) CreateComplianceRecord(_ context.Context, rec compliance.Record) (compliance.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = s.nextIDLocked()
	}
	rec.CreatedAt = time.Now().UTC()
	s.compliance[rec.ClientID] = append(s.compliance[rec.ClientID], rec)
	return rec, nil
}

func (s *Store) ListComplianceRecords(_ context.Context, clientID string) ([]compliance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.compliance[clientID]
	out := make([]compliance.Record, len(records))
	copy(out, records)
	return out, nil
}

// helpers ----------------------------------------------------------------------

func sortUsers(users []user.User) {
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
}

func sortPrograms(programs []program.Program) {
	sort.Slice(programs, func(i, j int) bool { return programs[i].CreatedAt.Before(programs[j].CreatedAt) })
}

func cloneDays(days []program.DayPlan) []program.DayPlan {
	out := make([]program.DayPlan, len(days))
	for i, d := range days {
		out[i] = d
		out[i].Meals = cloneMeals(d.Meals)
		out[i].Exercises = append([]program.Exercise(nil), d.Exercises...)
	}
	return out
}

func cloneMeals(meals map[string]nutrition.MealBreakdown) map[string]nutrition.MealBreakdown {
	if meals == nil {
		return nil
	}
	out := make(map[string]nutrition.MealBreakdown, len(meals))
	for slot, breakdown := range meals {
		breakdown.Foods = append([]nutrition.FoodItem(nil), breakdown.Foods...)
		out[slot] = breakdown
	}
	return out
}

func cloneProgram(p program.Program) program.Program {
	p.Days = cloneDays(p.Days)
	return p
}
