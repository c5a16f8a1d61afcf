package handlers

import (
	"errors"
	"log"
	"net/http"

	"landledger/internal/common"
	"landledger/internal/models"
	"landledger/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// DocumentHandlers handles document upload, listing, download, and
// deletion. Admins see everything and may upload on behalf of any user;
// customers are scoped to their own documents.
type DocumentHandlers struct {
	documentService services.DocumentService
}

func NewDocumentHandlers(documentService services.DocumentService) *DocumentHandlers {
	return &DocumentHandlers{documentService: documentService}
}

// ListDocumentsRequest represents query parameters for listing documents
type ListDocumentsRequest struct {
	UserID string `query:"user_id"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

func (h *DocumentHandlers) ListDocuments(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := common.GetCurrentUser(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req ListDocumentsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	var (
		documents []*models.Document
		err       error
	)
	switch {
	case user.Role != models.RoleAdmin:
		documents, err = h.documentService.ListByUser(ctx, user.ID, limit, offset)
	case req.UserID != "":
		var userID uuid.UUID
		userID, err = common.ValidateUUID(req.UserID, "user_id")
		if err != nil {
			return common.SendValidationError(c, "user_id", err.Error())
		}
		documents, err = h.documentService.ListByUser(ctx, userID, limit, offset)
	default:
		documents, err = h.documentService.ListAll(ctx, limit, offset)
	}
	if err != nil {
		log.Printf("document list failed: %v", err)
		return common.SendServerError(c, "Failed to list documents")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"documents": documents,
		"limit":     limit,
		"offset":    offset,
	})
}

// UploadDocument accepts a multipart "file" part. Admins may set user_id
// as a form value to upload on another user's behalf; customers always
// upload to their own account.
func (h *DocumentHandlers) UploadDocument(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := common.GetCurrentUser(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ownerID := user.ID
	if user.Role == models.RoleAdmin {
		if target := c.FormValue("user_id"); target != "" {
			id, err := common.ValidateUUID(target, "user_id")
			if err != nil {
				return common.SendValidationError(c, "user_id", err.Error())
			}
			ownerID = id
		}
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return common.SendClientError(c, "File is required")
	}

	src, err := fileHeader.Open()
	if err != nil {
		log.Printf("document open failed: %v", err)
		return common.SendServerError(c, "Failed to read upload")
	}
	defer src.Close()

	doc, err := h.documentService.Upload(ctx, ownerID, fileHeader.Filename, src,
		fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return common.SendNotFoundError(c, "User")
		case errors.Is(err, services.ErrMissingRequiredField):
			return common.SendClientError(c, "File name is required")
		}
		log.Printf("document upload failed: %v", err)
		return common.SendServerError(c, "Failed to upload document")
	}

	return c.JSON(http.StatusCreated, doc)
}

// DownloadDocument returns a short-lived presigned URL for the document
// object.
func (h *DocumentHandlers) DownloadDocument(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := common.GetCurrentUser(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	doc, err := h.documentService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "Document")
		}
		log.Printf("document fetch failed: %v", err)
		return common.SendServerError(c, "Failed to fetch document")
	}

	if user.Role != models.RoleAdmin && doc.UserID != user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "Not your document")
	}

	url, err := h.documentService.DownloadURL(ctx, id)
	if err != nil {
		log.Printf("presigned URL failed for document %s: %v", id, err)
		return common.SendServerError(c, "Failed to generate download URL")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"url":       url,
		"file_name": doc.FileName,
	})
}

// DeleteDocument removes the metadata row and the stored object.
// Customers may only delete their own documents.
func (h *DocumentHandlers) DeleteDocument(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := common.GetCurrentUser(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	doc, err := h.documentService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "Document")
		}
		log.Printf("document fetch failed: %v", err)
		return common.SendServerError(c, "Failed to delete document")
	}

	if user.Role != models.RoleAdmin && doc.UserID != user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "Not your document")
	}

	if err := h.documentService.Delete(ctx, id); err != nil {
		log.Printf("document delete failed: %v", err)
		return common.SendServerError(c, "Failed to delete document")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Document deleted successfully"})
}
