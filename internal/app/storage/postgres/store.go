// Package postgres implements the storage interfaces on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fitnessbro/platform/internal/app/domain/compliance"
	"github.com/fitnessbro/platform/internal/app/domain/program"
	"github.com/fitnessbro/platform/internal/app/domain/tracking"
	"github.com/fitnessbro/platform/internal/app/domain/user"
	"github.com/fitnessbro/platform/internal/app/storage"
	apperrors "github.com/fitnessbro/platform/internal/errors"
)

// uniqueViolation is the postgres error code for unique constraint failures.
const uniqueViolation = "23505"

// Store implements the storage interfaces backed by PostgreSQL.
type Store struct {
	db *sqlx.DB
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.ProgramStore = (*Store)(nil)
var _ storage.TrackingStore = (*Store)(nil)
var _ storage.ComplianceStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}

// --- UserStore ----------------------------------------------------------------

type userRow struct {
	ID           string         `db:"id"`
	Email        string         `db:"email"`
	Role         string         `db:"role"`
	CoachID      sql.NullString `db:"coach_id"`
	PasswordHash string         `db:"password_hash"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (r userRow) toDomain() user.User {
	return user.User{
		ID:           r.ID,
		Email:        r.Email,
		Role:         r.Role,
		CoachID:      r.CoachID.String,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now().UTC()

	coachID := sql.NullString{String: u.CoachID, Valid: u.CoachID != ""}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, role, coach_id, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.Email, u.Role, coachID, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, apperrors.Conflict("email already in use")
		}
		return user.User{}, err
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (user.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, email, role, coach_id, password_hash, created_at
		FROM users WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, apperrors.NotFound(fmt.Sprintf("user %s not found", id))
	}
	if err != nil {
		return user.User{}, err
	}
	return row.toDomain(), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, email, role, coach_id, password_hash, created_at
		FROM users WHERE lower(email) = lower($1)
	`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, apperrors.NotFound("user not found")
	}
	if err != nil {
		return user.User{}, err
	}
	return row.toDomain(), nil
}

func (s *Store) ListClientsForCoach(ctx context.Context, coachID string) ([]user.User, error) {
	var rows []userRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, email, role, coach_id, password_hash, created_at
		FROM users WHERE role = 'client' AND coach_id = $1
		ORDER BY created_at
	`, coachID)
	if err != nil {
		return nil, err
	}
	return usersToDomain(rows), nil
}

func (s *Store) ListClients(ctx context.Context) ([]user.User, error) {
	var rows []userRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, email, role, coach_id, password_hash, created_at
		FROM users WHERE role = 'client'
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	return usersToDomain(rows), nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFound(fmt.Sprintf("user %s not found", id))
	}
	return nil
}

func usersToDomain(rows []userRow) []user.User {
	out := make([]user.User, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out
}

// --- ProgramStore ---------------------------------------------------------------

type programRow struct {
	ID        string    `db:"id"`
	CoachID   string    `db:"coach_id"`
	ClientID  string    `db:"client_id"`
	Title     string    `db:"title"`
	Notes     string    `db:"notes"`
	Days      []byte    `db:"days"`
	Calories  float64   `db:"calories"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r programRow) toDomain() (program.Program, error) {
	p := program.Program{
		ID:        r.ID,
		CoachID:   r.CoachID,
		ClientID:  r.ClientID,
		Title:     r.Title,
		Notes:     r.Notes,
		Calories:  r.Calories,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if len(r.Days) > 0 {
		if err := json.Unmarshal(r.Days, &p.Days); err != nil {
			return program.Program{}, fmt.Errorf("decode program days: %w", err)
		}
	}
	return p, nil
}

func (s *Store) CreateProgram(ctx context.Context, p program.Program) (program.Program, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	daysJSON, err := json.Marshal(p.Days)
	if err != nil {
		return program.Program{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO programs (id, coach_id, client_id, title, notes, days, calories, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, p.ID, p.CoachID, p.ClientID, p.Title, p.Notes, daysJSON, p.Calories, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return program.Program{}, err
	}
	return p, nil
}

func (s *Store) UpdateProgram(ctx context.Context, p program.Program) (program.Program, error) {
	existing, err := s.GetProgram(ctx, p.ID)
	if err != nil {
		return program.Program{}, err
	}

	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	daysJSON, err := json.Marshal(p.Days)
	if err != nil {
		return program.Program{}, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE programs
		SET coach_id = $2, client_id = $3, title = $4, notes = $5, days = $6, calories = $7, updated_at = $8
		WHERE id = $1
	`, p.ID, p.CoachID, p.ClientID, p.Title, p.Notes, daysJSON, p.Calories, p.UpdatedAt)
	if err != nil {
		return program.Program{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return program.Program{}, apperrors.NotFound(fmt.Sprintf("program %s not found", p.ID))
	}
	return p, nil
}

func (s *Store) GetProgram(ctx context.Context, id string) (program.Program, error) {
	var row programRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, coach_id, client_id, title, notes, days, calories, created_at, updated_at
		FROM programs WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return program.Program{}, apperrors.NotFound(fmt.Sprintf("program %s not found", id))
	}
	if err != nil {
		return program.Program{}, err
	}
	return row.toDomain()
}

func (s *Store) ListProgramsByClient(ctx context.Context, clientID string) ([]program.Program, error) {
	return s.listPrograms(ctx, `
		SELECT id, coach_id, client_id, title, notes, days, calories, created_at, updated_at
		FROM programs WHERE client_id = $1
		ORDER BY created_at
	`, clientID)
}

func (s *Store) ListProgramsByCoach(ctx context.Context, coachID string) ([]program.Program, error) {
	return s.listPrograms(ctx, `
		SELECT id, coach_id, client_id, title, notes, days, calories, created_at, updated_at
		FROM programs WHERE coach_id = $1
		ORDER BY created_at
	`, coachID)
}

func (s *Store) listPrograms(ctx context.Context, query, arg string) ([]program.Program, error) {
	var rows []programRow
	if err := s.db.SelectContext(ctx, &rows, query, arg); err != nil {
		return nil, err
	}
	out := make([]program.Program, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) DeleteProgram(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM programs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFound(fmt.Sprintf("program %s not found", id))
	}
	return nil
}

// --- TrackingStore ----------------------------------------------------------------

type dailyRow struct {
	ID              string  `db:"id"`
	ClientID        string  `db:"client_id"`
	Day             string  `db:"day"`
	MealMorningDone bool    `db:"meal_morning_done"`
	MealNoonDone    bool    `db:"meal_noon_done"`
	MealEveningDone bool    `db:"meal_evening_done"`
	WorkoutDone     bool    `db:"workout_done"`
	ComplianceRate  float64 `db:"compliance_rate"`
}

func (r dailyRow) toDomain() tracking.DailyTracking {
	return tracking.DailyTracking(r)
}

func (s *Store) GetDailyTracking(ctx context.Context, clientID, day string) (tracking.DailyTracking, error) {
	var row dailyRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, client_id, day, meal_morning_done, meal_noon_done, meal_evening_done, workout_done, compliance_rate
		FROM daily_tracking WHERE client_id = $1 AND day = $2
	`, clientID, day)
	if errors.Is(err, sql.ErrNoRows) {
		return tracking.DailyTracking{}, apperrors.NotFound("tracking day not found")
	}
	if err != nil {
		return tracking.DailyTracking{}, err
	}
	return row.toDomain(), nil
}

func (s *Store) UpsertDailyTracking(ctx context.Context, t tracking.DailyTracking) (tracking.DailyTracking, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	var id string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO daily_tracking (id, client_id, day, meal_morning_done, meal_noon_done, meal_evening_done, workout_done, compliance_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (client_id, day) DO UPDATE SET
			meal_morning_done = EXCLUDED.meal_morning_done,
			meal_noon_done = EXCLUDED.meal_noon_done,
			meal_evening_done = EXCLUDED.meal_evening_done,
			workout_done = EXCLUDED.workout_done,
			compliance_rate = EXCLUDED.compliance_rate
		RETURNING id
	`, t.ID, t.ClientID, t.Day, t.MealMorningDone, t.MealNoonDone, t.MealEveningDone, t.WorkoutDone, t.ComplianceRate).Scan(&id)
	if err != nil {
		return tracking.DailyTracking{}, err
	}
	t.ID = id
	return t, nil
}

func (s *Store) ListDailyTracking(ctx context.Context, clientID string) ([]tracking.DailyTracking, error) {
	var rows []dailyRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, client_id, day, meal_morning_done, meal_noon_done, meal_evening_done, workout_done, compliance_rate
		FROM daily_tracking WHERE client_id = $1
		ORDER BY day
	`, clientID)
	if err != nil {
		return nil, err
	}
	out := make([]tracking.DailyTracking, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

type setRow struct {
	ID           string    `db:"id"`
	ClientID     string    `db:"client_id"`
	Day          string    `db:"day"`
	Date         time.Time `db:"date"`
	ExerciseName string    `db:"exercise_name"`
	SetIndex     int       `db:"set_index"`
	Weight       float64   `db:"weight"`
}

func (r setRow) toDomain() tracking.ExerciseSet {
	return tracking.ExerciseSet(r)
}

func (s *Store) UpsertExerciseSet(ctx context.Context, set tracking.ExerciseSet) (tracking.ExerciseSet, error) {
	if set.ID == "" {
		set.ID = uuid.NewString()
	}
	var id string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO exercise_set_tracking (id, client_id, day, date, exercise_name, set_index, weight)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (client_id, day, date, exercise_name, set_index) DO UPDATE SET
			weight = EXCLUDED.weight
		RETURNING id
	`, set.ID, set.ClientID, set.Day, set.Date, set.ExerciseName, set.SetIndex, set.Weight).Scan(&id)
	if err != nil {
		return tracking.ExerciseSet{}, err
	}
	set.ID = id
	return set, nil
}

func (s *Store) ListExerciseSets(ctx context.Context, clientID string) ([]tracking.ExerciseSet, error) {
	var rows []setRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, client_id, day, date, exercise_name, set_index, weight
		FROM exercise_set_tracking WHERE client_id = $1
		ORDER BY date, exercise_name, set_index
	`, clientID)
	if err != nil {
		return nil, err
	}
	out := make([]tracking.ExerciseSet, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// --- ComplianceStore ----------------------------------------------------------------

func (s *Store) CreateComplianceRecord(ctx context.Context, rec compliance.Record) (compliance.Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = time.Now().UTC()

	entryJSON, err := json.Marshal(rec.Entry)
	if err != nil {
		return compliance.Record{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO compliance_records (id, client_id, daily_data, compliance_rate, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, rec.ID, rec.ClientID, entryJSON, rec.ComplianceRate, rec.CreatedAt)
	if err != nil {
		return compliance.Record{}, err
	}
	return rec, nil
}

func (s *Store) ListComplianceRecords(ctx context.Context, clientID string) ([]compliance.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, client_id, daily_data, compliance_rate, created_at
		FROM compliance_records WHERE client_id = $1
		ORDER BY created_at
	`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []compliance.Record
	for rows.Next() {
		var (
			rec      compliance.Record
			entryRaw []byte
		)
		if err := rows.Scan(&rec.ID, &rec.ClientID, &entryRaw, &rec.ComplianceRate, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if len(entryRaw) > 0 {
			if err := json.Unmarshal(entryRaw, &rec.Entry); err != nil {
				return nil, fmt.Errorf("decode compliance entry: %w", err)
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
