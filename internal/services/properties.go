package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"landledger/internal/caching"
	"landledger/internal/models"
	"landledger/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const propertyCacheTTL = 5 * time.Minute

// PropertyDetail aggregates everything the detail view needs.
type PropertyDetail struct {
	Property      *models.Property               `json:"property"`
	AssignedUsers []*models.AssignedUser         `json:"assigned_users"`
	Photos        []*models.PropertyPhoto       `json:"photos"`
	TaxDocuments  []*models.PropertyTaxDocument `json:"tax_documents"`
	Payments      []*models.PaymentWithCustomer `json:"payments"`
}

type PropertyService interface {
	Create(ctx context.Context, property *models.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*PropertyDetail, error)
	Update(ctx context.Context, property *models.Property) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter repositories.PropertyFilter, limit, offset int) ([]*models.Property, error)

	AssignUser(ctx context.Context, propertyID, userID uuid.UUID) error
	UnassignUser(ctx context.Context, propertyID, userID uuid.UUID) error
	IsAssigned(ctx context.Context, propertyID, userID uuid.UUID) (bool, error)

	AddPhoto(ctx context.Context, propertyID uuid.UUID, fileName string, reader io.Reader, size int64, contentType string) (*models.PropertyPhoto, error)
	DeletePhoto(ctx context.Context, photoID uuid.UUID) error
	AddTaxDocument(ctx context.Context, propertyID uuid.UUID, fileName string, taxYear *string, reader io.Reader, size int64, contentType string) (*models.PropertyTaxDocument, error)
	DeleteTaxDocument(ctx context.Context, docID uuid.UUID) error
}

type propertyService struct {
	propertyRepo repositories.PropertyRepository
	assignRepo   repositories.PropertyUserRepository
	fileRepo     repositories.PropertyFileRepository
	paymentRepo  repositories.PaymentRepository
	userRepo     repositories.UserRepository
	storage      StorageService
	cache        caching.CacheService
}

func NewPropertyService(
	propertyRepo repositories.PropertyRepository,
	assignRepo repositories.PropertyUserRepository,
	fileRepo repositories.PropertyFileRepository,
	paymentRepo repositories.PaymentRepository,
	userRepo repositories.UserRepository,
	storage StorageService,
	cache caching.CacheService,
) PropertyService {
	return &propertyService{
		propertyRepo: propertyRepo,
		assignRepo:   assignRepo,
		fileRepo:     fileRepo,
		paymentRepo:  paymentRepo,
		userRepo:     userRepo,
		storage:      storage,
		cache:        cache,
	}
}

func (s *propertyService) validate(property *models.Property) error {
	if property.ParcelID == "" {
		return fmt.Errorf("%w: parcel_id", ErrMissingRequiredField)
	}
	if property.Status == "" {
		return fmt.Errorf("%w: status", ErrMissingRequiredField)
	}
	if !models.ValidPropertyStatus(property.Status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, property.Status)
	}
	return nil
}

func (s *propertyService) Create(ctx context.Context, property *models.Property) error {
	if property.ID == uuid.Nil {
		property.ID = uuid.New()
	}
	if err := s.validate(property); err != nil {
		return err
	}

	taken, err := s.propertyRepo.ParcelIDTaken(ctx, property.ParcelID, property.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateParcelID
	}

	return s.propertyRepo.Create(ctx, property)
}

func (s *propertyService) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	if cached, err := s.cache.GetProperty(ctx, id); err == nil && cached != nil {
		return cached, nil
	}

	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.cache.SetProperty(ctx, property, propertyCacheTTL); err != nil {
		log.Printf("property cache set failed for %s: %v", id, err)
	}
	return property, nil
}

func (s *propertyService) GetDetail(ctx context.Context, id uuid.UUID) (*PropertyDetail, error) {
	property, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	assignedUsers, err := s.assignRepo.ListUsers(ctx, id)
	if err != nil {
		return nil, err
	}
	photos, err := s.fileRepo.ListPhotos(ctx, id)
	if err != nil {
		return nil, err
	}
	taxDocs, err := s.fileRepo.ListTaxDocuments(ctx, id)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.ListByParcel(ctx, property.ParcelID)
	if err != nil {
		return nil, err
	}

	return &PropertyDetail{
		Property:      property,
		AssignedUsers: assignedUsers,
		Photos:        photos,
		TaxDocuments:  taxDocs,
		Payments:      payments,
	}, nil
}

func (s *propertyService) Update(ctx context.Context, property *models.Property) error {
	existing, err := s.propertyRepo.GetByID(ctx, property.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if err := s.validate(property); err != nil {
		return err
	}

	if property.ParcelID != existing.ParcelID {
		taken, err := s.propertyRepo.ParcelIDTaken(ctx, property.ParcelID, property.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateParcelID
		}
	}

	if err := s.propertyRepo.Update(ctx, property); err != nil {
		return err
	}
	if err := s.cache.DeleteProperty(ctx, property.ID); err != nil {
		log.Printf("property cache invalidation failed for %s: %v", property.ID, err)
	}
	return nil
}

func (s *propertyService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.propertyRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	// Best-effort removal of stored objects before the cascade wipes the
	// metadata rows.
	photos, err := s.fileRepo.ListPhotos(ctx, id)
	if err == nil {
		for _, photo := range photos {
			if err := s.storage.DeleteObject(ctx, photo.FileURL); err != nil {
				log.Printf("failed to delete photo object %s: %v", photo.FileURL, err)
			}
		}
	}
	taxDocs, err := s.fileRepo.ListTaxDocuments(ctx, id)
	if err == nil {
		for _, doc := range taxDocs {
			if err := s.storage.DeleteObject(ctx, doc.FileURL); err != nil {
				log.Printf("failed to delete tax document object %s: %v", doc.FileURL, err)
			}
		}
	}

	if err := s.propertyRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.cache.DeleteProperty(ctx, id); err != nil {
		log.Printf("property cache invalidation failed for %s: %v", id, err)
	}
	return nil
}

func (s *propertyService) List(ctx context.Context, filter repositories.PropertyFilter, limit, offset int) ([]*models.Property, error) {
	return s.propertyRepo.List(ctx, filter, limit, offset)
}

func (s *propertyService) AssignUser(ctx context.Context, propertyID, userID uuid.UUID) error {
	if _, err := s.propertyRepo.GetByID(ctx, propertyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	assignment := &models.PropertyUser{
		ID:         uuid.New(),
		PropertyID: propertyID,
		UserID:     userID,
	}
	return s.assignRepo.Assign(ctx, assignment)
}

func (s *propertyService) UnassignUser(ctx context.Context, propertyID, userID uuid.UUID) error {
	return s.assignRepo.Unassign(ctx, propertyID, userID)
}

func (s *propertyService) IsAssigned(ctx context.Context, propertyID, userID uuid.UUID) (bool, error) {
	return s.assignRepo.IsAssigned(ctx, propertyID, userID)
}

func (s *propertyService) AddPhoto(ctx context.Context, propertyID uuid.UUID, fileName string, reader io.Reader, size int64, contentType string) (*models.PropertyPhoto, error) {
	if _, err := s.propertyRepo.GetByID(ctx, propertyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	photo := &models.PropertyPhoto{
		ID:         uuid.New(),
		PropertyID: propertyID,
		FileName:   fileName,
	}
	photo.FileURL = fmt.Sprintf("properties/%s/photos/%s-%s", propertyID, photo.ID, fileName)

	if err := s.storage.UploadObject(ctx, photo.FileURL, reader, size, contentType); err != nil {
		return nil, err
	}
	if err := s.fileRepo.AddPhoto(ctx, photo); err != nil {
		// Metadata insert failed; don't leave an orphaned object behind.
		if delErr := s.storage.DeleteObject(ctx, photo.FileURL); delErr != nil {
			log.Printf("failed to clean up orphaned photo object %s: %v", photo.FileURL, delErr)
		}
		return nil, err
	}
	return photo, nil
}

func (s *propertyService) DeletePhoto(ctx context.Context, photoID uuid.UUID) error {
	photo, err := s.fileRepo.GetPhoto(ctx, photoID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if err := s.storage.DeleteObject(ctx, photo.FileURL); err != nil {
		log.Printf("failed to delete photo object %s: %v", photo.FileURL, err)
	}
	return s.fileRepo.DeletePhoto(ctx, photoID)
}

func (s *propertyService) AddTaxDocument(ctx context.Context, propertyID uuid.UUID, fileName string, taxYear *string, reader io.Reader, size int64, contentType string) (*models.PropertyTaxDocument, error) {
	if _, err := s.propertyRepo.GetByID(ctx, propertyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	doc := &models.PropertyTaxDocument{
		ID:         uuid.New(),
		PropertyID: propertyID,
		FileName:   fileName,
		TaxYear:    taxYear,
	}
	doc.FileURL = fmt.Sprintf("properties/%s/tax-documents/%s-%s", propertyID, doc.ID, fileName)

	if err := s.storage.UploadObject(ctx, doc.FileURL, reader, size, contentType); err != nil {
		return nil, err
	}
	if err := s.fileRepo.AddTaxDocument(ctx, doc); err != nil {
		if delErr := s.storage.DeleteObject(ctx, doc.FileURL); delErr != nil {
			log.Printf("failed to clean up orphaned tax document object %s: %v", doc.FileURL, delErr)
		}
		return nil, err
	}
	return doc, nil
}

func (s *propertyService) DeleteTaxDocument(ctx context.Context, docID uuid.UUID) error {
	doc, err := s.fileRepo.GetTaxDocument(ctx, docID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if err := s.storage.DeleteObject(ctx, doc.FileURL); err != nil {
		log.Printf("failed to delete tax document object %s: %v", doc.FileURL, err)
	}
	return s.fileRepo.DeleteTaxDocument(ctx, docID)
}
