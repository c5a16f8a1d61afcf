package models

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetToken is a single-use credential-recovery secret. At most
// one live row exists per user: issuing a new token deletes the old one.
type PasswordResetToken struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Token     string    `json:"-" db:"token"` // Never return in JSON
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
