package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fitnessbro/platform/internal/app/services/auth"
)

const testSecret = "test-secret"

func protectedHandler(t *testing.T) (http.Handler, *string, *string) {
	t.Helper()
	var gotID, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = GetUserID(r.Context())
		gotRole = GetUserRole(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return NewAuthMiddleware(testSecret, nil, []string{"/health", "/auth/user/"}).Handler(next), &gotID, &gotRole
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	handler, gotID, gotRole := protectedHandler(t)

	token, err := auth.IssueToken(testSecret, "user-1", "coach", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/programs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if *gotID != "user-1" || *gotRole != "coach" {
		t.Errorf("expected identity in context, got id=%q role=%q", *gotID, *gotRole)
	}
}

func TestAuthMiddlewareRejections(t *testing.T) {
	handler, _, _ := protectedHandler(t)

	expired, _ := auth.IssueToken(testSecret, "user-1", "coach", -time.Minute)
	foreign, _ := auth.IssueToken("other-secret", "user-1", "coach", time.Hour)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.token"},
		{"expired token", "Bearer " + expired},
		{"wrong secret", "Bearer " + foreign},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/programs", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", tc.name, rec.Code)
		}
	}
}

func TestAuthMiddlewareSkipPaths(t *testing.T) {
	handler, _, _ := protectedHandler(t)

	for _, path := range []string{"/health", "/auth/user/abc"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected skip, got %d", path, rec.Code)
		}
	}

	// Non-prefixed sibling paths are still gated.
	req := httptest.NewRequest(http.MethodGet, "/auth/users", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected /auth/users gated, got %d", rec.Code)
	}
}

func TestAuthMiddlewareRoleOptional(t *testing.T) {
	handler, gotID, gotRole := protectedHandler(t)

	token, err := auth.IssueToken(testSecret, "user-1", "", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/programs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if *gotID != "user-1" || *gotRole != "" {
		t.Errorf("expected empty role, got id=%q role=%q", *gotID, *gotRole)
	}
}
