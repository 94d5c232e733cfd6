package auth

import (
	"context"
	"testing"
	"time"

	"github.com/fitnessbro/platform/internal/app/storage/memory"
	apperrors "github.com/fitnessbro/platform/internal/errors"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return New(memory.New(), testSecret, time.Hour, nil)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	coach, err := svc.Register(ctx, "coach@example.com", "s3cret", "coach")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if coach.PasswordHash != "" {
		// The hash is json:"-" but must also never round-trip as cleartext.
		if coach.PasswordHash == "s3cret" {
			t.Fatal("password stored in clear")
		}
	}

	token, err := svc.Login(ctx, "coach@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := VerifyToken(testSecret, token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if claims.Subject != coach.ID || claims.Role != "coach" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestRegisterRejectsClientRole(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Register(context.Background(), "c@example.com", "pw", "client"); err == nil {
		t.Fatal("expected client self-registration to be rejected")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "coach@example.com", "pw", "coach"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, "coach@example.com", "pw", "coach")
	se := apperrors.GetServiceError(err)
	if se == nil || se.HTTPStatus != 409 {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginInvalidCredentialsAreOpaque(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "coach@example.com", "pw", "coach"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, unknownErr := svc.Login(ctx, "nobody@example.com", "pw")
	_, wrongPwErr := svc.Login(ctx, "coach@example.com", "wrong")
	if unknownErr == nil || wrongPwErr == nil {
		t.Fatal("expected both logins to fail")
	}
	if unknownErr.Error() != wrongPwErr.Error() {
		t.Errorf("login errors must not reveal account existence: %q vs %q", unknownErr, wrongPwErr)
	}
}

func TestCreateClientRequiresCoach(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	coach, err := svc.Register(ctx, "coach@example.com", "pw", "coach")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	client, err := svc.CreateClient(ctx, coach.ID, "client@example.com", "pw")
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	if client.CoachID != coach.ID || client.Role != "client" {
		t.Errorf("unexpected client %+v", client)
	}

	// A client cannot create further clients.
	if _, err := svc.CreateClient(ctx, client.ID, "other@example.com", "pw"); err == nil {
		t.Fatal("expected forbidden")
	}
}

func TestListClientsForCoach(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	coach, _ := svc.Register(ctx, "coach@example.com", "pw", "coach")
	other, _ := svc.Register(ctx, "other@example.com", "pw", "coach")
	if _, err := svc.CreateClient(ctx, coach.ID, "a@example.com", "pw"); err != nil {
		t.Fatalf("create client: %v", err)
	}
	if _, err := svc.CreateClient(ctx, other.ID, "b@example.com", "pw"); err != nil {
		t.Fatalf("create client: %v", err)
	}

	clients, err := svc.ListClientsForCoach(ctx, coach.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(clients) != 1 || clients[0].Email != "a@example.com" {
		t.Fatalf("expected only the coach's client, got %+v", clients)
	}
}

func TestDeleteClientNeverDeletesCoaches(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	coach, _ := svc.Register(ctx, "coach@example.com", "pw", "coach")
	client, _ := svc.CreateClient(ctx, coach.ID, "client@example.com", "pw")

	if err := svc.DeleteClient(ctx, coach.ID); err == nil {
		t.Fatal("expected coach deletion through the client route to fail")
	}
	if err := svc.DeleteClient(ctx, client.ID); err != nil {
		t.Fatalf("delete client: %v", err)
	}
	if _, err := svc.GetUser(ctx, client.ID); !apperrors.IsNotFound(err) {
		t.Fatalf("expected NotFound after delete, got %v", err)
	}
}
