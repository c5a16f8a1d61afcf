package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles. The role column is a closed enum; unknown values are
// rejected at the boundary.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize in JSON
	Role         string    `json:"role" db:"role"`
	Address      *string   `json:"address" db:"address"`
	City         *string   `json:"city" db:"city"`
	State        *string   `json:"state" db:"state"`
	Zip          *string   `json:"zip" db:"zip"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ValidRole reports whether role is one of the closed role values.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleCustomer
}
