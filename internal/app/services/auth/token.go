package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/fitnessbro/platform/internal/errors"
)

// Claims is the one canonical token shape shared by the signer (authd) and
// every verifier. Role is optional on decode; callers performing role checks
// must treat its absence as no privileged role.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for the subject. The secret is the single
// externally-injected value shared by all services; a mismatch between any
// two services is a hard outage.
func IssueToken(secret, subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// VerifyToken validates signature and expiry and returns the claims. A
// missing subject claim is rejected.
func VerifyToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.Unauthorized("unexpected signing method").WithDetails("method", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}
	if !token.Valid {
		return nil, apperrors.Unauthorized("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, apperrors.Unauthorized("invalid claims type")
	}
	if claims.Subject == "" {
		return nil, apperrors.Unauthorized("token missing subject")
	}
	return claims, nil
}
