package domain

import "time"

// User models an account in the catalog system. Username and email are
// unique case-insensitively. PasswordHash is a bcrypt hash and is never
// serialized.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	IsActive     bool      `json:"is_active"`
	InvitedBy    *int64    `json:"invited_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
