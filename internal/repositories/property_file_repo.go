package repositories

import (
	"context"

	"landledger/internal/models"

	"github.com/google/uuid"
)

// PropertyFileRepository persists metadata for property photos and tax
// documents. The file bytes themselves live in object storage.
type PropertyFileRepository interface {
	AddPhoto(ctx context.Context, photo *models.PropertyPhoto) error
	GetPhoto(ctx context.Context, id uuid.UUID) (*models.PropertyPhoto, error)
	ListPhotos(ctx context.Context, propertyID uuid.UUID) ([]*models.PropertyPhoto, error)
	DeletePhoto(ctx context.Context, id uuid.UUID) error

	AddTaxDocument(ctx context.Context, doc *models.PropertyTaxDocument) error
	GetTaxDocument(ctx context.Context, id uuid.UUID) (*models.PropertyTaxDocument, error)
	ListTaxDocuments(ctx context.Context, propertyID uuid.UUID) ([]*models.PropertyTaxDocument, error)
	DeleteTaxDocument(ctx context.Context, id uuid.UUID) error
}

type propertyFileRepo struct {
	db DBTX
}

func NewPropertyFileRepo(db DBTX) PropertyFileRepository {
	return &propertyFileRepo{db: db}
}

func (r *propertyFileRepo) AddPhoto(ctx context.Context, photo *models.PropertyPhoto) error {
	query := `
		INSERT INTO property_photos (id, property_id, file_url, file_name, uploaded_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.db.Exec(ctx, query, photo.ID, photo.PropertyID, photo.FileURL, photo.FileName)
	return err
}

func (r *propertyFileRepo) GetPhoto(ctx context.Context, id uuid.UUID) (*models.PropertyPhoto, error) {
	photo := &models.PropertyPhoto{}
	query := `
		SELECT id, property_id, file_url, file_name, uploaded_at
		FROM property_photos
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&photo.ID, &photo.PropertyID, &photo.FileURL,
		&photo.FileName, &photo.UploadedAt)
	if err != nil {
		return nil, err
	}
	return photo, nil
}

func (r *propertyFileRepo) ListPhotos(ctx context.Context, propertyID uuid.UUID) ([]*models.PropertyPhoto, error) {
	query := `
		SELECT id, property_id, file_url, file_name, uploaded_at
		FROM property_photos
		WHERE property_id = $1
		ORDER BY uploaded_at DESC
	`
	rows, err := r.db.Query(ctx, query, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []*models.PropertyPhoto
	for rows.Next() {
		photo := &models.PropertyPhoto{}
		if err := rows.Scan(&photo.ID, &photo.PropertyID, &photo.FileURL, &photo.FileName, &photo.UploadedAt); err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}
	return photos, rows.Err()
}

func (r *propertyFileRepo) DeletePhoto(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM property_photos WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *propertyFileRepo) AddTaxDocument(ctx context.Context, doc *models.PropertyTaxDocument) error {
	query := `
		INSERT INTO property_tax_documents (id, property_id, file_url, file_name, tax_year, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.Exec(ctx, query, doc.ID, doc.PropertyID, doc.FileURL, doc.FileName, doc.TaxYear)
	return err
}

func (r *propertyFileRepo) GetTaxDocument(ctx context.Context, id uuid.UUID) (*models.PropertyTaxDocument, error) {
	doc := &models.PropertyTaxDocument{}
	query := `
		SELECT id, property_id, file_url, file_name, tax_year, uploaded_at
		FROM property_tax_documents
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&doc.ID, &doc.PropertyID, &doc.FileURL,
		&doc.FileName, &doc.TaxYear, &doc.UploadedAt)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *propertyFileRepo) ListTaxDocuments(ctx context.Context, propertyID uuid.UUID) ([]*models.PropertyTaxDocument, error) {
	query := `
		SELECT id, property_id, file_url, file_name, tax_year, uploaded_at
		FROM property_tax_documents
		WHERE property_id = $1
		ORDER BY uploaded_at DESC
	`
	rows, err := r.db.Query(ctx, query, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.PropertyTaxDocument
	for rows.Next() {
		doc := &models.PropertyTaxDocument{}
		if err := rows.Scan(&doc.ID, &doc.PropertyID, &doc.FileURL, &doc.FileName, &doc.TaxYear, &doc.UploadedAt); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *propertyFileRepo) DeleteTaxDocument(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM property_tax_documents WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
