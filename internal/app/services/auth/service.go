// Package auth implements user registration, login and token issuance. It is
// the single signer of the platform's bearer tokens.
package auth

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fitnessbro/platform/internal/app/domain/user"
	"github.com/fitnessbro/platform/internal/app/storage"
	apperrors "github.com/fitnessbro/platform/internal/errors"
	"github.com/fitnessbro/platform/pkg/logger"
)

// Service manages identities and issues tokens.
type Service struct {
	store    storage.UserStore
	secret   string
	tokenTTL time.Duration
	log      *logger.Logger
}

// New constructs an auth service.
func New(store storage.UserStore, secret string, tokenTTL time.Duration, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("auth")
	}
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &Service{
		store:    store,
		secret:   secret,
		tokenTTL: tokenTTL,
		log:      log,
	}
}

// Register creates a coach account. Self-registration is restricted to the
// coach role; clients are created by their coach.
func (s *Service) Register(ctx context.Context, email, password, role string) (user.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return user.User{}, apperrors.InvalidInput("email and password are required")
	}
	if role != user.RoleCoach {
		return user.User{}, apperrors.InvalidInput("only coaches can register through this route")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, apperrors.Internal("hash password", err)
	}

	created, err := s.store.CreateUser(ctx, user.User{
		Email:        email,
		Role:         user.RoleCoach,
		PasswordHash: string(hash),
	})
	if err != nil {
		return user.User{}, err
	}

	s.log.WithField("user_id", created.ID).Info("coach registered")
	return created, nil
}

// Login verifies credentials and returns a signed bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		// Do not reveal whether the account exists.
		return "", apperrors.Unauthorized("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", apperrors.Unauthorized("invalid credentials")
	}

	token, err := IssueToken(s.secret, u.ID, u.Role, s.tokenTTL)
	if err != nil {
		return "", apperrors.Internal("sign token", err)
	}

	s.log.WithField("user_id", u.ID).WithField("role", u.Role).Info("login")
	return token, nil
}

// CreateClient creates a client account linked to the given coach.
func (s *Service) CreateClient(ctx context.Context, coachID, email, password string) (user.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return user.User{}, apperrors.InvalidInput("email and password are required")
	}

	coach, err := s.store.GetUser(ctx, coachID)
	if err != nil {
		return user.User{}, err
	}
	if coach.Role != user.RoleCoach {
		return user.User{}, apperrors.Forbidden("only coaches can create clients")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, apperrors.Internal("hash password", err)
	}

	created, err := s.store.CreateUser(ctx, user.User{
		Email:        email,
		Role:         user.RoleClient,
		CoachID:      coachID,
		PasswordHash: string(hash),
	})
	if err != nil {
		return user.User{}, err
	}

	s.log.WithField("client_id", created.ID).WithField("coach_id", coachID).Info("client created")
	return created, nil
}

// ListClientsForCoach returns the coach's clients.
func (s *Service) ListClientsForCoach(ctx context.Context, coachID string) ([]user.User, error) {
	return s.store.ListClientsForCoach(ctx, coachID)
}

// ListClients returns every client account.
func (s *Service) ListClients(ctx context.Context) ([]user.User, error) {
	return s.store.ListClients(ctx)
}

// GetUser returns a user by id. Consumed by the cross-service identity
// resolver in programd.
func (s *Service) GetUser(ctx context.Context, id string) (user.User, error) {
	return s.store.GetUser(ctx, id)
}

// DeleteClient removes a client account. Coach accounts cannot be deleted
// through this path.
func (s *Service) DeleteClient(ctx context.Context, clientID string) error {
	u, err := s.store.GetUser(ctx, clientID)
	if err != nil {
		return err
	}
	if u.Role != user.RoleClient {
		return apperrors.NotFound("client not found")
	}
	return s.store.DeleteUser(ctx, clientID)
}
