package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"landledger/internal/models"
	"landledger/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// presignExpiry bounds how long a document download link stays valid.
const presignExpiry = 15 * time.Minute

type DocumentService interface {
	Upload(ctx context.Context, userID uuid.UUID, fileName string, reader io.Reader, size int64, contentType string) (*models.Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Document, error)
	ListAll(ctx context.Context, limit, offset int) ([]*models.Document, error)
	DownloadURL(ctx context.Context, id uuid.UUID) (string, error)
}

type documentService struct {
	documentRepo repositories.DocumentRepository
	userRepo     repositories.UserRepository
	storage      StorageService
}

func NewDocumentService(documentRepo repositories.DocumentRepository, userRepo repositories.UserRepository, storage StorageService) DocumentService {
	return &documentService{
		documentRepo: documentRepo,
		userRepo:     userRepo,
		storage:      storage,
	}
}

func (s *documentService) Upload(ctx context.Context, userID uuid.UUID, fileName string, reader io.Reader, size int64, contentType string) (*models.Document, error) {
	if fileName == "" {
		return nil, fmt.Errorf("%w: file_name", ErrMissingRequiredField)
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	doc := &models.Document{
		ID:       uuid.New(),
		UserID:   userID,
		FileName: fileName,
	}
	doc.FileURL = fmt.Sprintf("documents/%s/%s-%s", userID, doc.ID, fileName)

	if err := s.storage.UploadObject(ctx, doc.FileURL, reader, size, contentType); err != nil {
		return nil, err
	}
	if err := s.documentRepo.Create(ctx, doc); err != nil {
		if delErr := s.storage.DeleteObject(ctx, doc.FileURL); delErr != nil {
			log.Printf("failed to clean up orphaned document object %s: %v", doc.FileURL, delErr)
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	doc, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.storage.DeleteObject(ctx, doc.FileURL); err != nil {
		log.Printf("failed to delete document object %s: %v", doc.FileURL, err)
	}
	return s.documentRepo.Delete(ctx, id)
}

func (s *documentService) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Document, error) {
	return s.documentRepo.ListByUser(ctx, userID, limit, offset)
}

func (s *documentService) ListAll(ctx context.Context, limit, offset int) ([]*models.Document, error) {
	return s.documentRepo.ListAll(ctx, limit, offset)
}

func (s *documentService) DownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	doc, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(doc.FileURL, presignExpiry)
}
