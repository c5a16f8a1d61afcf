package repositories

import (
	"context"

	"landledger/internal/models"

	"github.com/google/uuid"
)

// PropertyFilter narrows property listings. UserID scopes the listing to
// parcels assigned to that user; customers always list with their own ID.
type PropertyFilter struct {
	ParcelID string
	Status   string
	UserID   uuid.UUID
}

type PropertyRepository interface {
	Create(ctx context.Context, property *models.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	GetByParcelID(ctx context.Context, parcelID string) (*models.Property, error)
	Update(ctx context.Context, property *models.Property) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter PropertyFilter, limit, offset int) ([]*models.Property, error)
	ParcelIDTaken(ctx context.Context, parcelID string, excludeID uuid.UUID) (bool, error)
}

type propertyRepo struct {
	db DBTX
}

func NewPropertyRepo(db DBTX) PropertyRepository {
	return &propertyRepo{db: db}
}

const propertyColumns = `id, status, parcel_id, ppin, lot_size, lot_sf, lot_acres, street_number,
		street_name, cross_streets, city, state, zip, county, gps_coordinates, google_maps_link,
		created_at, updated_at`

func scanProperty(row interface{ Scan(dest ...any) error }) (*models.Property, error) {
	p := &models.Property{}
	err := row.Scan(&p.ID, &p.Status, &p.ParcelID, &p.PPIN, &p.LotSize, &p.LotSF, &p.LotAcres,
		&p.StreetNumber, &p.StreetName, &p.CrossStreets, &p.City, &p.State, &p.Zip, &p.County,
		&p.GPSCoordinates, &p.GoogleMapsLink, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *propertyRepo) Create(ctx context.Context, property *models.Property) error {
	query := `
		INSERT INTO properties (id, status, parcel_id, ppin, lot_size, lot_sf, lot_acres, street_number,
			street_name, cross_streets, city, state, zip, county, gps_coordinates, google_maps_link,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, property.ID, property.Status, property.ParcelID, property.PPIN,
		property.LotSize, property.LotSF, property.LotAcres, property.StreetNumber, property.StreetName,
		property.CrossStreets, property.City, property.State, property.Zip, property.County,
		property.GPSCoordinates, property.GoogleMapsLink)
	return err
}

func (r *propertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	return scanProperty(r.db.QueryRow(ctx, query, id))
}

func (r *propertyRepo) GetByParcelID(ctx context.Context, parcelID string) (*models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE parcel_id = $1`
	return scanProperty(r.db.QueryRow(ctx, query, parcelID))
}

func (r *propertyRepo) Update(ctx context.Context, property *models.Property) error {
	query := `
		UPDATE properties
		SET status = $1, parcel_id = $2, ppin = $3, lot_size = $4, lot_sf = $5, lot_acres = $6,
			street_number = $7, street_name = $8, cross_streets = $9, city = $10, state = $11,
			zip = $12, county = $13, gps_coordinates = $14, google_maps_link = $15, updated_at = NOW()
		WHERE id = $16
	`
	_, err := r.db.Exec(ctx, query, property.Status, property.ParcelID, property.PPIN, property.LotSize,
		property.LotSF, property.LotAcres, property.StreetNumber, property.StreetName, property.CrossStreets,
		property.City, property.State, property.Zip, property.County, property.GPSCoordinates,
		property.GoogleMapsLink, property.ID)
	return err
}

func (r *propertyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM properties WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *propertyRepo) List(ctx context.Context, filter PropertyFilter, limit, offset int) ([]*models.Property, error) {
	query := `
		SELECT p.id, p.status, p.parcel_id, p.ppin, p.lot_size, p.lot_sf, p.lot_acres, p.street_number,
			p.street_name, p.cross_streets, p.city, p.state, p.zip, p.county, p.gps_coordinates,
			p.google_maps_link, p.created_at, p.updated_at
		FROM properties p
		WHERE ($1 = '' OR p.parcel_id = $1)
		  AND ($2 = '' OR p.status = $2)
		  AND ($3::uuid IS NULL OR EXISTS (
			SELECT 1 FROM property_users pu WHERE pu.property_id = p.id AND pu.user_id = $3
		  ))
		ORDER BY p.created_at DESC
		LIMIT $4 OFFSET $5
	`
	var userID *uuid.UUID
	if filter.UserID != uuid.Nil {
		userID = &filter.UserID
	}
	rows, err := r.db.Query(ctx, query, filter.ParcelID, filter.Status, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []*models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

func (r *propertyRepo) ParcelIDTaken(ctx context.Context, parcelID string, excludeID uuid.UUID) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM properties WHERE parcel_id = $1 AND id != $2`
	err := r.db.QueryRow(ctx, query, parcelID, excludeID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
