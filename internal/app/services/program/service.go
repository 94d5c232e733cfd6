// Package program implements the program assembler and the authorization
// policy over its read paths.
package program

import (
	"context"
	"strings"
	"sync"

	"github.com/fitnessbro/platform/internal/app/domain/nutrition"
	"github.com/fitnessbro/platform/internal/app/domain/program"
	"github.com/fitnessbro/platform/internal/app/domain/user"
	"github.com/fitnessbro/platform/internal/app/storage"
	apperrors "github.com/fitnessbro/platform/internal/errors"
	"github.com/fitnessbro/platform/pkg/logger"
)

// Enricher resolves one meal text into a breakdown. It never fails.
type Enricher interface {
	Resolve(ctx context.Context, mealText string) nutrition.MealBreakdown
}

// Identity is the authenticated caller extracted from the bearer token.
type Identity struct {
	Subject string
	Role    string
}

// IsCoach reports whether the caller carries the coach role. A missing role
// never grants privileged access.
func (id Identity) IsCoach() bool { return id.Role == user.RoleCoach }

// DayRequest is one day of a create/update request. Meals maps caller-chosen
// slot names to free meal text.
type DayRequest struct {
	Day       string             `json:"day"`
	Meals     map[string]string  `json:"meals"`
	Workout   string             `json:"workout"`
	Exercises []program.Exercise `json:"exercises"`
}

// Request is a program create/update payload.
type Request struct {
	CoachID  string       `json:"coach_id"`
	ClientID string       `json:"client_id"`
	Title    string       `json:"title"`
	Notes    string       `json:"notes"`
	Days     []DayRequest `json:"days"`
}

// Service assembles, persists and authorizes programs.
type Service struct {
	store    storage.ProgramStore
	enricher Enricher
	identity IdentityResolver
	log      *logger.Logger
}

// New constructs a program service.
func New(store storage.ProgramStore, enricher Enricher, identity IdentityResolver, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("program")
	}
	return &Service{
		store:    store,
		enricher: enricher,
		identity: identity,
		log:      log,
	}
}

func (s *Service) validate(req Request) error {
	if strings.TrimSpace(req.CoachID) == "" || strings.TrimSpace(req.ClientID) == "" {
		return apperrors.InvalidInput("coach_id and client_id are required")
	}
	if strings.TrimSpace(req.Title) == "" {
		return apperrors.InvalidInput("title is required")
	}
	if len(req.Days) == 0 {
		return apperrors.InvalidInput("a program needs at least one day")
	}
	return nil
}

// Create assembles and persists a new program. Only the authoring coach may
// create programs under their own id.
func (s *Service) Create(ctx context.Context, caller Identity, req Request) (program.Program, error) {
	if !caller.IsCoach() || caller.Subject != req.CoachID {
		return program.Program{}, apperrors.Forbidden("only the owning coach can create programs")
	}
	if err := s.validate(req); err != nil {
		return program.Program{}, err
	}

	days := s.buildDays(ctx, req.Days)
	created, err := s.store.CreateProgram(ctx, program.Program{
		CoachID:  req.CoachID,
		ClientID: req.ClientID,
		Title:    req.Title,
		Notes:    req.Notes,
		Days:     days,
		Calories: program.WeekCalories(days),
	})
	if err != nil {
		return program.Program{}, err
	}

	s.log.WithField("program_id", created.ID).
		WithField("coach_id", created.CoachID).
		WithField("client_id", created.ClientID).
		Info("program created")
	return created, nil
}

// Update replaces the whole days sequence and recomputes every derived
// total; it never diffs against the previous version.
func (s *Service) Update(ctx context.Context, caller Identity, programID string, req Request) (program.Program, error) {
	existing, err := s.store.GetProgram(ctx, programID)
	if err != nil {
		return program.Program{}, err
	}
	if !caller.IsCoach() || caller.Subject != existing.CoachID {
		return program.Program{}, apperrors.Forbidden("only the owning coach can update programs")
	}
	if err := s.validate(req); err != nil {
		return program.Program{}, err
	}

	days := s.buildDays(ctx, req.Days)
	updated, err := s.store.UpdateProgram(ctx, program.Program{
		ID:       programID,
		CoachID:  req.CoachID,
		ClientID: req.ClientID,
		Title:    req.Title,
		Notes:    req.Notes,
		Days:     days,
		Calories: program.WeekCalories(days),
	})
	if err != nil {
		return program.Program{}, err
	}

	s.log.WithField("program_id", programID).Info("program updated")
	return updated, nil
}

// buildDays expands the request days, resolving each meal independently. The
// per-meal lookups have no ordering dependency and run concurrently; one
// meal's AI failure never affects its siblings.
func (s *Service) buildDays(ctx context.Context, reqDays []DayRequest) []program.DayPlan {
	days := make([]program.DayPlan, len(reqDays))

	for i, reqDay := range reqDays {
		meals := make(map[string]nutrition.MealBreakdown, len(reqDay.Meals))

		var (
			wg sync.WaitGroup
			mu sync.Mutex
		)
		for slot, text := range reqDay.Meals {
			wg.Add(1)
			go func(slot, text string) {
				defer wg.Done()
				breakdown := s.enricher.Resolve(ctx, text)
				mu.Lock()
				meals[slot] = breakdown
				mu.Unlock()
			}(slot, text)
		}
		wg.Wait()

		workout := strings.TrimSpace(reqDay.Workout)
		if workout == "" {
			workout = program.DefaultWorkout
		}

		exercises := reqDay.Exercises
		if exercises == nil {
			exercises = []program.Exercise{}
		}

		days[i] = program.DayPlan{
			Day:           reqDay.Day,
			Meals:         meals,
			Workout:       workout,
			DailyCalories: program.DayCalories(meals),
			Exercises:     exercises,
		}
	}
	return days
}

// Get returns one program. The caller must be the scoped client or the
// owning coach. The coach email is enriched best-effort before return.
func (s *Service) Get(ctx context.Context, caller Identity, programID string) (program.Program, error) {
	p, err := s.store.GetProgram(ctx, programID)
	if err != nil {
		return program.Program{}, err
	}
	if caller.Subject != p.ClientID && !(caller.IsCoach() && caller.Subject == p.CoachID) {
		return program.Program{}, apperrors.Forbidden("access denied")
	}

	p.CoachEmail = s.identity.ResolveCoachEmail(ctx, p.CoachID)
	return p, nil
}

// ListByClient returns the client's programs under the read-path policy:
// the client themself is always allowed; a coach is allowed when they own at
// least one returned program, or, for an empty result, when the client is
// theirs. A scope that maps to no real client is NotFound, never Forbidden.
func (s *Service) ListByClient(ctx context.Context, caller Identity, clientID string) ([]program.Program, error) {
	programs, err := s.store.ListProgramsByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	allowed := caller.Subject == clientID
	if !allowed && caller.IsCoach() {
		if len(programs) > 0 {
			for _, p := range programs {
				if p.CoachID == caller.Subject {
					allowed = true
					break
				}
			}
		} else {
			// Nothing to prove ownership from; fall back to the identity
			// service to distinguish NotFound from Forbidden.
			client, err := s.identity.LookupUser(ctx, clientID)
			if err != nil {
				return nil, apperrors.NotFound("client not found")
			}
			allowed = client.CoachID == caller.Subject
		}
	}
	if !allowed {
		return nil, apperrors.Forbidden("access denied")
	}

	for i := range programs {
		programs[i].CoachEmail = s.identity.ResolveCoachEmail(ctx, programs[i].CoachID)
	}
	return programs, nil
}

// ListByCoach returns the coach's own programs.
func (s *Service) ListByCoach(ctx context.Context, caller Identity, coachID string) ([]program.Program, error) {
	if !caller.IsCoach() || caller.Subject != coachID {
		return nil, apperrors.Forbidden("access denied")
	}
	return s.store.ListProgramsByCoach(ctx, coachID)
}

// Delete removes a program. Only the owning coach may delete.
func (s *Service) Delete(ctx context.Context, caller Identity, programID string) error {
	p, err := s.store.GetProgram(ctx, programID)
	if err != nil {
		return err
	}
	if !caller.IsCoach() || caller.Subject != p.CoachID {
		return apperrors.Forbidden("only the owning coach can delete programs")
	}
	return s.store.DeleteProgram(ctx, programID)
}
