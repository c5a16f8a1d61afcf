package handlers

import (
	"errors"
	"log"
	"net/http"

	"landledger/internal/common"
	"landledger/internal/models"
	"landledger/internal/repositories"
	"landledger/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// PropertyHandlers handles parcel CRUD, user assignment, and the photo
// and tax-document uploads.
type PropertyHandlers struct {
	propertyService services.PropertyService
}

func NewPropertyHandlers(propertyService services.PropertyService) *PropertyHandlers {
	return &PropertyHandlers{propertyService: propertyService}
}

// ListPropertiesRequest represents query parameters for listing properties
type ListPropertiesRequest struct {
	ParcelID string `query:"parcel_id"`
	Status   string `query:"status"`
	UserID   string `query:"user_id"`
	Limit    int    `query:"limit"`
	Offset   int    `query:"offset"`
}

// ListProperties lists parcels. Admins may filter freely; customers are
// always scoped to their own assignments regardless of query parameters.
func (h *PropertyHandlers) ListProperties(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := common.GetCurrentUser(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req ListPropertiesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	filter := repositories.PropertyFilter{
		ParcelID: req.ParcelID,
		Status:   req.Status,
	}
	if user.Role == models.RoleAdmin {
		if req.UserID != "" {
			userID, err := common.ValidateUUID(req.UserID, "user_id")
			if err != nil {
				return common.SendValidationError(c, "user_id", err.Error())
			}
			filter.UserID = userID
		}
	} else {
		filter.UserID = user.ID
	}

	properties, err := h.propertyService.List(ctx, filter, limit, offset)
	if err != nil {
		log.Printf("property list failed: %v", err)
		return common.SendServerError(c, "Failed to list properties")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"properties": properties,
		"limit":      limit,
		"offset":     offset,
	})
}

// GetProperty returns the aggregate detail view. Customers may only see
// parcels they are assigned to.
func (h *PropertyHandlers) GetProperty(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := common.GetCurrentUser(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if user.Role != models.RoleAdmin {
		assigned, err := h.propertyService.IsAssigned(ctx, id, user.ID)
		if err != nil {
			log.Printf("assignment check failed: %v", err)
			return common.SendServerError(c, "Failed to fetch property")
		}
		if !assigned {
			return echo.NewHTTPError(http.StatusForbidden, "Not assigned to this property")
		}
	}

	detail, err := h.propertyService.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "Property")
		}
		log.Printf("property detail failed: %v", err)
		return common.SendServerError(c, "Failed to fetch property")
	}

	return c.JSON(http.StatusOK, detail)
}

// PropertyRequest represents the property create/update payload
type PropertyRequest struct {
	Status         string  `json:"status"`
	ParcelID       string  `json:"parcel_id"`
	PPIN           *string `json:"ppin"`
	LotSize        *string `json:"lot_size"`
	LotSF          *string `json:"lot_sf"`
	LotAcres       *string `json:"lot_acres"`
	StreetNumber   *string `json:"street_number"`
	StreetName     *string `json:"street_name"`
	CrossStreets   *string `json:"cross_streets"`
	City           *string `json:"city"`
	State          *string `json:"state"`
	Zip            *string `json:"zip"`
	County         *string `json:"county"`
	GPSCoordinates *string `json:"gps_coordinates"`
	GoogleMapsLink *string `json:"google_maps_link"`
}

func (req *PropertyRequest) toModel(id uuid.UUID) *models.Property {
	return &models.Property{
		ID:             id,
		Status:         req.Status,
		ParcelID:       req.ParcelID,
		PPIN:           req.PPIN,
		LotSize:        req.LotSize,
		LotSF:          req.LotSF,
		LotAcres:       req.LotAcres,
		StreetNumber:   req.StreetNumber,
		StreetName:     req.StreetName,
		CrossStreets:   req.CrossStreets,
		City:           req.City,
		State:          req.State,
		Zip:            req.Zip,
		County:         req.County,
		GPSCoordinates: req.GPSCoordinates,
		GoogleMapsLink: req.GoogleMapsLink,
	}
}

func (h *PropertyHandlers) CreateProperty(c echo.Context) error {
	ctx := c.Request().Context()

	var req PropertyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	property := req.toModel(uuid.New())
	if err := h.propertyService.Create(ctx, property); err != nil {
		switch {
		case errors.Is(err, services.ErrMissingRequiredField):
			return common.SendClientError(c, "Parcel ID and status are required")
		case errors.Is(err, services.ErrInvalidStatus):
			return common.SendValidationError(c, "status", "unknown property status")
		case errors.Is(err, services.ErrDuplicateParcelID):
			return common.SendConflictError(c, "Property with this Parcel ID already exists")
		}
		log.Printf("property create failed: %v", err)
		return common.SendServerError(c, "Failed to create property")
	}

	return c.JSON(http.StatusCreated, property)
}

func (h *PropertyHandlers) UpdateProperty(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req PropertyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	property := req.toModel(id)
	if err := h.propertyService.Update(ctx, property); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return common.SendNotFoundError(c, "Property")
		case errors.Is(err, services.ErrMissingRequiredField):
			return common.SendClientError(c, "Parcel ID and status are required")
		case errors.Is(err, services.ErrInvalidStatus):
			return common.SendValidationError(c, "status", "unknown property status")
		case errors.Is(err, services.ErrDuplicateParcelID):
			return common.SendConflictError(c, "Another property with this Parcel ID already exists")
		}
		log.Printf("property update failed: %v", err)
		return common.SendServerError(c, "Failed to update property")
	}

	return c.JSON(http.StatusOK, property)
}

func (h *PropertyHandlers) DeleteProperty(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.propertyService.Delete(ctx, id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "Property")
		}
		log.Printf("property delete failed: %v", err)
		return common.SendServerError(c, "Failed to delete property")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Property deleted successfully"})
}

// AssignUserRequest represents the assignment payload
type AssignUserRequest struct {
	UserID string `json:"user_id"`
}

func (h *PropertyHandlers) AssignUser(c echo.Context) error {
	ctx := c.Request().Context()

	propertyID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req AssignUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	userID, err := common.ValidateUUID(req.UserID, "user_id")
	if err != nil {
		return common.SendValidationError(c, "user_id", err.Error())
	}

	if err := h.propertyService.AssignUser(ctx, propertyID, userID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "Property or user")
		}
		log.Printf("assignment failed: %v", err)
		return common.SendServerError(c, "Failed to assign user")
	}

	return c.JSON(http.StatusCreated, map[string]string{"message": "User assigned successfully"})
}

func (h *PropertyHandlers) UnassignUser(c echo.Context) error {
	ctx := c.Request().Context()

	propertyID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}
	userID, err := common.ValidateUUID(c.Param("userId"), "userId")
	if err != nil {
		return common.SendValidationError(c, "userId", err.Error())
	}

	if err := h.propertyService.UnassignUser(ctx, propertyID, userID); err != nil {
		log.Printf("unassignment failed: %v", err)
		return common.SendServerError(c, "Failed to unassign user")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "User unassigned successfully"})
}

// UploadPhoto accepts a multipart "file" part and stores it against the parcel.
func (h *PropertyHandlers) UploadPhoto(c echo.Context) error {
	ctx := c.Request().Context()

	propertyID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return common.SendClientError(c, "File is required")
	}

	src, err := fileHeader.Open()
	if err != nil {
		log.Printf("photo open failed: %v", err)
		return common.SendServerError(c, "Failed to read upload")
	}
	defer src.Close()

	photo, err := h.propertyService.AddPhoto(ctx, propertyID, fileHeader.Filename, src,
		fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "Property")
		}
		log.Printf("photo upload failed: %v", err)
		return common.SendServerError(c, "Failed to upload photo")
	}

	return c.JSON(http.StatusCreated, photo)
}

func (h *PropertyHandlers) DeletePhoto(c echo.Context) error {
	ctx := c.Request().Context()

	photoID, err := common.ValidateUUID(c.Param("photoId"), "photoId")
	if err != nil {
		return common.SendValidationError(c, "photoId", err.Error())
	}

	if err := h.propertyService.DeletePhoto(ctx, photoID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "Photo")
		}
		log.Printf("photo delete failed: %v", err)
		return common.SendServerError(c, "Failed to delete photo")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Photo deleted successfully"})
}

// UploadTaxDocument accepts a multipart "file" part plus an optional
// "tax_year" form value.
func (h *PropertyHandlers) UploadTaxDocument(c echo.Context) error {
	ctx := c.Request().Context()

	propertyID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return common.SendClientError(c, "File is required")
	}

	var taxYear *string
	if year := c.FormValue("tax_year"); year != "" {
		taxYear = &year
	}

	src, err := fileHeader.Open()
	if err != nil {
		log.Printf("tax document open failed: %v", err)
		return common.SendServerError(c, "Failed to read upload")
	}
	defer src.Close()

	doc, err := h.propertyService.AddTaxDocument(ctx, propertyID, fileHeader.Filename, taxYear, src,
		fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "Property")
		}
		log.Printf("tax document upload failed: %v", err)
		return common.SendServerError(c, "Failed to upload tax document")
	}

	return c.JSON(http.StatusCreated, doc)
}

func (h *PropertyHandlers) DeleteTaxDocument(c echo.Context) error {
	ctx := c.Request().Context()

	docID, err := common.ValidateUUID(c.Param("docId"), "docId")
	if err != nil {
		return common.SendValidationError(c, "docId", err.Error())
	}

	if err := h.propertyService.DeleteTaxDocument(ctx, docID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "Tax document")
		}
		log.Printf("tax document delete failed: %v", err)
		return common.SendServerError(c, "Failed to delete tax document")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Tax document deleted successfully"})
}
