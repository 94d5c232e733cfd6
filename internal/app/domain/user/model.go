// Package user defines the identity records managed by the auth service.
package user

import "time"

// Roles understood by the authorization policy. Anything else carries no
// privileged access.
const (
	RoleCoach  = "coach"
	RoleClient = "client"
)

// User is an account in the identity store. Clients are linked to the coach
// that created them through CoachID.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	CoachID      string    `json:"coach_id,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
