package repositories

import (
	"context"

	"landledger/internal/models"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Document, error)
	ListAll(ctx context.Context, limit, offset int) ([]*models.Document, error)
}

type documentRepo struct {
	db DBTX
}

func NewDocumentRepo(db DBTX) DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (id, user_id, file_url, file_name, uploaded_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.db.Exec(ctx, query, doc.ID, doc.UserID, doc.FileURL, doc.FileName)
	return err
}

func (r *documentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	doc := &models.Document{}
	query := `
		SELECT id, user_id, file_url, file_name, uploaded_at
		FROM documents
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&doc.ID, &doc.UserID, &doc.FileURL, &doc.FileName, &doc.UploadedAt)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *documentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM documents WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *documentRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Document, error) {
	query := `
		SELECT id, user_id, file_url, file_name, uploaded_at
		FROM documents
		WHERE user_id = $1
		ORDER BY uploaded_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc := &models.Document{}
		if err := rows.Scan(&doc.ID, &doc.UserID, &doc.FileURL, &doc.FileName, &doc.UploadedAt); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *documentRepo) ListAll(ctx context.Context, limit, offset int) ([]*models.Document, error) {
	query := `
		SELECT id, user_id, file_url, file_name, uploaded_at
		FROM documents
		ORDER BY uploaded_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc := &models.Document{}
		if err := rows.Scan(&doc.ID, &doc.UserID, &doc.FileURL, &doc.FileName, &doc.UploadedAt); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
