package models

import (
	"time"

	"github.com/google/uuid"
)

// Property statuses, matching the lifecycle of a parcel from listing to sale.
const (
	PropertyStatusAvailable     = "Available"
	PropertyStatusFinancing     = "Financing"
	PropertyStatusLoanInDefault = "Loan in Default"
	PropertyStatusSold          = "Sold"
)

type Property struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Status         string    `json:"status" db:"status"`
	ParcelID       string    `json:"parcel_id" db:"parcel_id"`
	PPIN           *string   `json:"ppin" db:"ppin"`
	LotSize        *string   `json:"lot_size" db:"lot_size"`
	LotSF          *string   `json:"lot_sf" db:"lot_sf"`
	LotAcres       *string   `json:"lot_acres" db:"lot_acres"`
	StreetNumber   *string   `json:"street_number" db:"street_number"`
	StreetName     *string   `json:"street_name" db:"street_name"`
	CrossStreets   *string   `json:"cross_streets" db:"cross_streets"`
	City           *string   `json:"city" db:"city"`
	State          *string   `json:"state" db:"state"`
	Zip            *string   `json:"zip" db:"zip"`
	County         *string   `json:"county" db:"county"`
	GPSCoordinates *string   `json:"gps_coordinates" db:"gps_coordinates"`
	GoogleMapsLink *string   `json:"google_maps_link" db:"google_maps_link"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// PropertyUser is the assignment join row between a property and a user.
// Its lifetime is the shorter of the two parents (cascade delete).
type PropertyUser struct {
	ID         uuid.UUID `json:"id" db:"id"`
	PropertyID uuid.UUID `json:"property_id" db:"property_id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	AssignedAt time.Time `json:"assigned_at" db:"assigned_at"`
}

// AssignedUser is the user view returned with a property detail.
type AssignedUser struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Email      string    `json:"email" db:"email"`
	Role       string    `json:"role" db:"role"`
	AssignedAt time.Time `json:"assigned_at" db:"assigned_at"`
}

type PropertyPhoto struct {
	ID         uuid.UUID `json:"id" db:"id"`
	PropertyID uuid.UUID `json:"property_id" db:"property_id"`
	FileURL    string    `json:"file_url" db:"file_url"`
	FileName   string    `json:"file_name" db:"file_name"`
	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"`
}

type PropertyTaxDocument struct {
	ID         uuid.UUID `json:"id" db:"id"`
	PropertyID uuid.UUID `json:"property_id" db:"property_id"`
	FileURL    string    `json:"file_url" db:"file_url"`
	FileName   string    `json:"file_name" db:"file_name"`
	TaxYear    *string   `json:"tax_year" db:"tax_year"`
	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"`
}

// ValidPropertyStatus reports whether status is one of the closed parcel statuses.
func ValidPropertyStatus(status string) bool {
	switch status {
	case PropertyStatusAvailable, PropertyStatusFinancing, PropertyStatusLoanInDefault, PropertyStatusSold:
		return true
	}
	return false
}
