package storage

import (
	"context"

	"github.com/fitnessbro/platform/internal/app/domain/compliance"
	"github.com/fitnessbro/platform/internal/app/domain/program"
	"github.com/fitnessbro/platform/internal/app/domain/tracking"
	"github.com/fitnessbro/platform/internal/app/domain/user"
)

// UserStore persists identity records.
type UserStore interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	GetUser(ctx context.Context, id string) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	ListClientsForCoach(ctx context.Context, coachID string) ([]user.User, error)
	ListClients(ctx context.Context) ([]user.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// ProgramStore persists weekly programs.
type ProgramStore interface {
	CreateProgram(ctx context.Context, p program.Program) (program.Program, error)
	UpdateProgram(ctx context.Context, p program.Program) (program.Program, error)
	GetProgram(ctx context.Context, id string) (program.Program, error)
	ListProgramsByClient(ctx context.Context, clientID string) ([]program.Program, error)
	ListProgramsByCoach(ctx context.Context, coachID string) ([]program.Program, error)
	DeleteProgram(ctx context.Context, id string) error
}

// TrackingStore persists daily adherence and exercise-set records.
type TrackingStore interface {
	GetDailyTracking(ctx context.Context, clientID, day string) (tracking.DailyTracking, error)
	UpsertDailyTracking(ctx context.Context, t tracking.DailyTracking) (tracking.DailyTracking, error)
	ListDailyTracking(ctx context.Context, clientID string) ([]tracking.DailyTracking, error)

	UpsertExerciseSet(ctx context.Context, set tracking.ExerciseSet) (tracking.ExerciseSet, error)
	ListExerciseSets(ctx context.Context, clientID string) ([]tracking.ExerciseSet, error)
}

// ComplianceStore persists daily compliance calculations.
type ComplianceStore interface {
	CreateComplianceRecord(ctx context.Context, rec compliance.Record) (compliance.Record, error)
	ListComplianceRecords(ctx context.Context, clientID string) ([]compliance.Record, error)
}
