package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"landledger/internal/models"
	"landledger/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) Create(ctx context.Context, property *models.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) GetByParcelID(ctx context.Context, parcelID string) (*models.Property, error) {
	args := m.Called(ctx, parcelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) Update(ctx context.Context, property *models.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPropertyRepository) List(ctx context.Context, filter repositories.PropertyFilter, limit, offset int) ([]*models.Property, error) {
	args := m.Called(ctx, filter, limit, offset)
	return args.Get(0).([]*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) ParcelIDTaken(ctx context.Context, parcelID string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, parcelID, excludeID)
	return args.Bool(0), args.Error(1)
}

type MockPropertyUserRepository struct {
	mock.Mock
}

func (m *MockPropertyUserRepository) Assign(ctx context.Context, assignment *models.PropertyUser) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *MockPropertyUserRepository) Unassign(ctx context.Context, propertyID, userID uuid.UUID) error {
	args := m.Called(ctx, propertyID, userID)
	return args.Error(0)
}

func (m *MockPropertyUserRepository) ListUsers(ctx context.Context, propertyID uuid.UUID) ([]*models.AssignedUser, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).([]*models.AssignedUser), args.Error(1)
}

func (m *MockPropertyUserRepository) IsAssigned(ctx context.Context, propertyID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, propertyID, userID)
	return args.Bool(0), args.Error(1)
}

type MockPropertyFileRepository struct {
	mock.Mock
}

func (m *MockPropertyFileRepository) AddPhoto(ctx context.Context, photo *models.PropertyPhoto) error {
	args := m.Called(ctx, photo)
	return args.Error(0)
}

func (m *MockPropertyFileRepository) GetPhoto(ctx context.Context, id uuid.UUID) (*models.PropertyPhoto, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PropertyPhoto), args.Error(1)
}

func (m *MockPropertyFileRepository) ListPhotos(ctx context.Context, propertyID uuid.UUID) ([]*models.PropertyPhoto, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).([]*models.PropertyPhoto), args.Error(1)
}

func (m *MockPropertyFileRepository) DeletePhoto(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPropertyFileRepository) AddTaxDocument(ctx context.Context, doc *models.PropertyTaxDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockPropertyFileRepository) GetTaxDocument(ctx context.Context, id uuid.UUID) (*models.PropertyTaxDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PropertyTaxDocument), args.Error(1)
}

func (m *MockPropertyFileRepository) ListTaxDocuments(ctx context.Context, propertyID uuid.UUID) ([]*models.PropertyTaxDocument, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).([]*models.PropertyTaxDocument), args.Error(1)
}

func (m *MockPropertyFileRepository) DeleteTaxDocument(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockStorageService struct {
	mock.Mock
}

func (m *MockStorageService) UploadObject(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	args := m.Called(ctx, objectName, reader, objectSize, contentType)
	return args.Error(0)
}

func (m *MockStorageService) GetPresignedURL(objectName string, expiry time.Duration) (string, error) {
	args := m.Called(objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockStorageService) DeleteObject(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

func (m *MockStorageService) EnsureBucketExists(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockPropertyCache struct {
	mock.Mock
}

func (m *MockPropertyCache) GetProperty(ctx context.Context, propertyID uuid.UUID) (*models.Property, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyCache) SetProperty(ctx context.Context, property *models.Property, ttl time.Duration) error {
	args := m.Called(ctx, property, ttl)
	return args.Error(0)
}

func (m *MockPropertyCache) DeleteProperty(ctx context.Context, propertyID uuid.UUID) error {
	args := m.Called(ctx, propertyID)
	return args.Error(0)
}

func (m *MockPropertyCache) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockPropertyCache) IncrementRateLimit(ctx context.Context, key string, window time.Duration) error {
	args := m.Called(ctx, key, window)
	return args.Error(0)
}

func (m *MockPropertyCache) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockPropertyCache) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockPropertyCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockPropertyCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type PropertyServiceTestSuite struct {
	suite.Suite
	mockPropertyRepo *MockPropertyRepository
	mockAssignRepo   *MockPropertyUserRepository
	mockFileRepo     *MockPropertyFileRepository
	mockPaymentRepo  *MockPaymentRepository
	mockUserRepo     *MockUserRepository
	mockStorage      *MockStorageService
	mockCache        *MockPropertyCache
	service          PropertyService
}

func (suite *PropertyServiceTestSuite) SetupTest() {
	suite.mockPropertyRepo = &MockPropertyRepository{}
	suite.mockAssignRepo = &MockPropertyUserRepository{}
	suite.mockFileRepo = &MockPropertyFileRepository{}
	suite.mockPaymentRepo = &MockPaymentRepository{}
	suite.mockUserRepo = &MockUserRepository{}
	suite.mockStorage = &MockStorageService{}
	suite.mockCache = &MockPropertyCache{}
	suite.service = NewPropertyService(suite.mockPropertyRepo, suite.mockAssignRepo,
		suite.mockFileRepo, suite.mockPaymentRepo, suite.mockUserRepo, suite.mockStorage, suite.mockCache)
}

func (suite *PropertyServiceTestSuite) TearDownTest() {
	suite.mockPropertyRepo.AssertExpectations(suite.T())
	suite.mockAssignRepo.AssertExpectations(suite.T())
	suite.mockFileRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockStorage.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func TestPropertyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PropertyServiceTestSuite))
}

func (suite *PropertyServiceTestSuite) TestCreate_Success() {
	property := &models.Property{
		Status:   models.PropertyStatusAvailable,
		ParcelID: "07-18-04-0-001-002.000",
	}

	suite.mockPropertyRepo.On("ParcelIDTaken", mock.Anything, property.ParcelID, mock.Anything).
		Return(false, nil).Once()
	suite.mockPropertyRepo.On("Create", mock.Anything, property).Return(nil).Once()

	err := suite.service.Create(context.Background(), property)

	assert.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), uuid.Nil, property.ID)
}

func (suite *PropertyServiceTestSuite) TestCreate_DuplicateParcelID() {
	property := &models.Property{
		Status:   models.PropertyStatusAvailable,
		ParcelID: "07-18-04-0-001-002.000",
	}

	suite.mockPropertyRepo.On("ParcelIDTaken", mock.Anything, property.ParcelID, mock.Anything).
		Return(true, nil).Once()

	err := suite.service.Create(context.Background(), property)

	assert.ErrorIs(suite.T(), err, ErrDuplicateParcelID)
}

func (suite *PropertyServiceTestSuite) TestCreate_InvalidStatus() {
	property := &models.Property{
		Status:   "Pending",
		ParcelID: "07-18-04-0-001-002.000",
	}

	err := suite.service.Create(context.Background(), property)

	assert.ErrorIs(suite.T(), err, ErrInvalidStatus)
}

func (suite *PropertyServiceTestSuite) TestGetByID_CacheHit() {
	id := uuid.New()
	cached := &models.Property{ID: id, Status: models.PropertyStatusAvailable, ParcelID: "x"}

	suite.mockCache.On("GetProperty", mock.Anything, id).Return(cached, nil).Once()

	result, err := suite.service.GetByID(context.Background(), id)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), cached, result)
	suite.mockPropertyRepo.AssertNotCalled(suite.T(), "GetByID")
}

func (suite *PropertyServiceTestSuite) TestGetByID_CacheMissFillsCache() {
	id := uuid.New()
	stored := &models.Property{ID: id, Status: models.PropertyStatusSold, ParcelID: "x"}

	suite.mockCache.On("GetProperty", mock.Anything, id).Return(nil, nil).Once()
	suite.mockPropertyRepo.On("GetByID", mock.Anything, id).Return(stored, nil).Once()
	suite.mockCache.On("SetProperty", mock.Anything, stored, propertyCacheTTL).Return(nil).Once()

	result, err := suite.service.GetByID(context.Background(), id)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), stored, result)
}

func (suite *PropertyServiceTestSuite) TestGetByID_NotFound() {
	id := uuid.New()

	suite.mockCache.On("GetProperty", mock.Anything, id).Return(nil, nil).Once()
	suite.mockPropertyRepo.On("GetByID", mock.Anything, id).Return(nil, pgx.ErrNoRows).Once()

	_, err := suite.service.GetByID(context.Background(), id)

	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *PropertyServiceTestSuite) TestUpdate_InvalidatesCache() {
	id := uuid.New()
	existing := &models.Property{ID: id, Status: models.PropertyStatusAvailable, ParcelID: "x"}
	updated := &models.Property{ID: id, Status: models.PropertyStatusFinancing, ParcelID: "x"}

	suite.mockPropertyRepo.On("GetByID", mock.Anything, id).Return(existing, nil).Once()
	suite.mockPropertyRepo.On("Update", mock.Anything, updated).Return(nil).Once()
	suite.mockCache.On("DeleteProperty", mock.Anything, id).Return(nil).Once()

	err := suite.service.Update(context.Background(), updated)

	assert.NoError(suite.T(), err)
}

func (suite *PropertyServiceTestSuite) TestUpdate_ParcelChangeChecksUniqueness() {
	id := uuid.New()
	existing := &models.Property{ID: id, Status: models.PropertyStatusAvailable, ParcelID: "old"}
	updated := &models.Property{ID: id, Status: models.PropertyStatusAvailable, ParcelID: "new"}

	suite.mockPropertyRepo.On("GetByID", mock.Anything, id).Return(existing, nil).Once()
	suite.mockPropertyRepo.On("ParcelIDTaken", mock.Anything, "new", id).Return(true, nil).Once()

	err := suite.service.Update(context.Background(), updated)

	assert.ErrorIs(suite.T(), err, ErrDuplicateParcelID)
}

func (suite *PropertyServiceTestSuite) TestAddPhoto_CleansUpOrphanOnMetadataFailure() {
	propertyID := uuid.New()
	property := &models.Property{ID: propertyID, Status: models.PropertyStatusAvailable, ParcelID: "x"}

	suite.mockPropertyRepo.On("GetByID", mock.Anything, propertyID).Return(property, nil).Once()
	suite.mockStorage.On("UploadObject", mock.Anything, mock.AnythingOfType("string"),
		mock.Anything, int64(4), "image/png").Return(nil).Once()
	suite.mockFileRepo.On("AddPhoto", mock.Anything, mock.Anything).
		Return(errors.New("insert failed")).Once()
	suite.mockStorage.On("DeleteObject", mock.Anything, mock.AnythingOfType("string")).
		Return(nil).Once()

	_, err := suite.service.AddPhoto(context.Background(), propertyID, "lot.png",
		bytes.NewReader([]byte("data")), 4, "image/png")

	assert.Error(suite.T(), err)
}

func (suite *PropertyServiceTestSuite) TestAddPhoto_UnknownProperty() {
	propertyID := uuid.New()

	suite.mockPropertyRepo.On("GetByID", mock.Anything, propertyID).Return(nil, pgx.ErrNoRows).Once()

	_, err := suite.service.AddPhoto(context.Background(), propertyID, "lot.png",
		bytes.NewReader(nil), 0, "image/png")

	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *PropertyServiceTestSuite) TestAssignUser_UnknownUser() {
	propertyID := uuid.New()
	userID := uuid.New()
	property := &models.Property{ID: propertyID, Status: models.PropertyStatusAvailable, ParcelID: "x"}

	suite.mockPropertyRepo.On("GetByID", mock.Anything, propertyID).Return(property, nil).Once()
	suite.mockUserRepo.On("GetByID", mock.Anything, userID).Return(nil, pgx.ErrNoRows).Once()

	err := suite.service.AssignUser(context.Background(), propertyID, userID)

	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *PropertyServiceTestSuite) TestDelete_RemovesObjectsAndInvalidates() {
	id := uuid.New()
	property := &models.Property{ID: id, Status: models.PropertyStatusAvailable, ParcelID: "x"}
	photos := []*models.PropertyPhoto{{ID: uuid.New(), PropertyID: id, FileURL: "properties/x/photos/a.png"}}
	taxDocs := []*models.PropertyTaxDocument{}

	suite.mockPropertyRepo.On("GetByID", mock.Anything, id).Return(property, nil).Once()
	suite.mockFileRepo.On("ListPhotos", mock.Anything, id).Return(photos, nil).Once()
	suite.mockFileRepo.On("ListTaxDocuments", mock.Anything, id).Return(taxDocs, nil).Once()
	suite.mockStorage.On("DeleteObject", mock.Anything, photos[0].FileURL).Return(nil).Once()
	suite.mockPropertyRepo.On("Delete", mock.Anything, id).Return(nil).Once()
	suite.mockCache.On("DeleteProperty", mock.Anything, id).Return(nil).Once()

	err := suite.service.Delete(context.Background(), id)

	assert.NoError(suite.T(), err)
}
