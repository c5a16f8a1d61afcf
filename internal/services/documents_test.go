package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"landledger/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Document, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]*models.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListAll(ctx context.Context, limit, offset int) ([]*models.Document, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Document), args.Error(1)
}

type DocumentServiceTestSuite struct {
	suite.Suite
	mockDocumentRepo *MockDocumentRepository
	mockUserRepo     *MockUserRepository
	mockStorage      *MockStorageService
	service          DocumentService
}

func (suite *DocumentServiceTestSuite) SetupTest() {
	suite.mockDocumentRepo = &MockDocumentRepository{}
	suite.mockUserRepo = &MockUserRepository{}
	suite.mockStorage = &MockStorageService{}
	suite.service = NewDocumentService(suite.mockDocumentRepo, suite.mockUserRepo, suite.mockStorage)
}

func (suite *DocumentServiceTestSuite) TearDownTest() {
	suite.mockDocumentRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockStorage.AssertExpectations(suite.T())
}

func TestDocumentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DocumentServiceTestSuite))
}

func (suite *DocumentServiceTestSuite) TestUpload_Success() {
	userID := uuid.New()
	owner := &models.User{ID: userID, Role: models.RoleCustomer}

	suite.mockUserRepo.On("GetByID", mock.Anything, userID).Return(owner, nil).Once()
	suite.mockStorage.On("UploadObject", mock.Anything, mock.AnythingOfType("string"),
		mock.Anything, int64(9), "application/pdf").Return(nil).Once()
	suite.mockDocumentRepo.On("Create", mock.Anything, mock.MatchedBy(func(doc *models.Document) bool {
		return doc.UserID == userID && doc.FileName == "deed.pdf" && doc.FileURL != ""
	})).Return(nil).Once()

	doc, err := suite.service.Upload(context.Background(), userID, "deed.pdf",
		bytes.NewReader([]byte("some pdf!")), 9, "application/pdf")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "deed.pdf", doc.FileName)
	assert.Contains(suite.T(), doc.FileURL, userID.String())
}

func (suite *DocumentServiceTestSuite) TestUpload_UnknownUser() {
	userID := uuid.New()

	suite.mockUserRepo.On("GetByID", mock.Anything, userID).Return(nil, pgx.ErrNoRows).Once()

	_, err := suite.service.Upload(context.Background(), userID, "deed.pdf",
		bytes.NewReader(nil), 0, "application/pdf")

	assert.ErrorIs(suite.T(), err, ErrNotFound)
	suite.mockStorage.AssertNotCalled(suite.T(), "UploadObject")
}

func (suite *DocumentServiceTestSuite) TestUpload_MissingFileName() {
	_, err := suite.service.Upload(context.Background(), uuid.New(), "",
		bytes.NewReader(nil), 0, "application/pdf")

	assert.ErrorIs(suite.T(), err, ErrMissingRequiredField)
}

func (suite *DocumentServiceTestSuite) TestUpload_CleansUpOrphanOnMetadataFailure() {
	userID := uuid.New()
	owner := &models.User{ID: userID, Role: models.RoleCustomer}

	suite.mockUserRepo.On("GetByID", mock.Anything, userID).Return(owner, nil).Once()
	suite.mockStorage.On("UploadObject", mock.Anything, mock.AnythingOfType("string"),
		mock.Anything, int64(4), "application/pdf").Return(nil).Once()
	suite.mockDocumentRepo.On("Create", mock.Anything, mock.Anything).
		Return(errors.New("insert failed")).Once()
	suite.mockStorage.On("DeleteObject", mock.Anything, mock.AnythingOfType("string")).
		Return(nil).Once()

	_, err := suite.service.Upload(context.Background(), userID, "deed.pdf",
		bytes.NewReader([]byte("data")), 4, "application/pdf")

	assert.Error(suite.T(), err)
}

func (suite *DocumentServiceTestSuite) TestDownloadURL_Presigns() {
	docID := uuid.New()
	doc := &models.Document{ID: docID, UserID: uuid.New(), FileURL: "documents/x/deed.pdf", FileName: "deed.pdf"}

	suite.mockDocumentRepo.On("GetByID", mock.Anything, docID).Return(doc, nil).Once()
	suite.mockStorage.On("GetPresignedURL", doc.FileURL, presignExpiry).
		Return("https://storage.example.com/signed", nil).Once()

	url, err := suite.service.DownloadURL(context.Background(), docID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "https://storage.example.com/signed", url)
}

func (suite *DocumentServiceTestSuite) TestDownloadURL_NotFound() {
	docID := uuid.New()

	suite.mockDocumentRepo.On("GetByID", mock.Anything, docID).Return(nil, pgx.ErrNoRows).Once()

	_, err := suite.service.DownloadURL(context.Background(), docID)

	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *DocumentServiceTestSuite) TestDelete_RemovesObjectFirst() {
	docID := uuid.New()
	doc := &models.Document{ID: docID, UserID: uuid.New(), FileURL: "documents/x/deed.pdf", FileName: "deed.pdf"}

	suite.mockDocumentRepo.On("GetByID", mock.Anything, docID).Return(doc, nil).Once()
	suite.mockStorage.On("DeleteObject", mock.Anything, doc.FileURL).Return(nil).Once()
	suite.mockDocumentRepo.On("Delete", mock.Anything, docID).Return(nil).Once()

	err := suite.service.Delete(context.Background(), docID)

	assert.NoError(suite.T(), err)
}
