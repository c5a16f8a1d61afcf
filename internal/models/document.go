package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is opaque file metadata owned by a user. The bytes live in
// object storage; FileURL is the object key.
type Document struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	FileURL    string    `json:"file_url" db:"file_url"`
	FileName   string    `json:"file_name" db:"file_name"`
	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"`
}
