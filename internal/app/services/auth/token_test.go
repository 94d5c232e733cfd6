package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func TestIssueAndVerifyToken(t *testing.T) {
	token, err := IssueToken(testSecret, "user-1", "coach", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := VerifyToken(testSecret, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("expected subject user-1, got %q", claims.Subject)
	}
	if claims.Role != "coach" {
		t.Errorf("expected role coach, got %q", claims.Role)
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	token, err := IssueToken(testSecret, "user-1", "coach", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := VerifyToken("other-secret", token); err == nil {
		t.Fatal("expected verification failure with a different secret")
	}
}

func TestVerifyTokenExpired(t *testing.T) {
	token, err := IssueToken(testSecret, "user-1", "client", -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := VerifyToken(testSecret, token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestVerifyTokenMissingSubject(t *testing.T) {
	claims := &Claims{
		Role: "coach",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := VerifyToken(testSecret, token); err == nil {
		t.Fatal("expected token without subject to be rejected")
	}
}

func TestVerifyTokenRoleOptional(t *testing.T) {
	token, err := IssueToken(testSecret, "user-1", "", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := VerifyToken(testSecret, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Role != "" {
		t.Errorf("expected empty role, got %q", claims.Role)
	}
}

func TestVerifyTokenRejectsUnsignedToken(t *testing.T) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := VerifyToken(testSecret, token); err == nil {
		t.Fatal("expected alg=none token to be rejected")
	}
}
