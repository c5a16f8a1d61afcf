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
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// UserHandlers handles the admin-gated user CRUD endpoints.
type UserHandlers struct {
	userRepo    repositories.UserRepository
	credentials services.CredentialService
}

func NewUserHandlers(userRepo repositories.UserRepository, credentials services.CredentialService) *UserHandlers {
	return &UserHandlers{
		userRepo:    userRepo,
		credentials: credentials,
	}
}

// ListUsersRequest represents query parameters for listing users
type ListUsersRequest struct {
	Role   string `query:"role"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

func (h *UserHandlers) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListUsersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	if req.Role != "" && !models.ValidRole(req.Role) {
		return common.SendValidationError(c, "role", "role must be admin or customer")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	users, err := h.userRepo.List(ctx, req.Role, limit, offset)
	if err != nil {
		log.Printf("user list failed: %v", err)
		return common.SendServerError(c, "Failed to list users")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"users":  users,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *UserHandlers) GetUser(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	user, err := h.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "User")
		}
		log.Printf("user fetch failed: %v", err)
		return common.SendServerError(c, "Failed to fetch user")
	}

	return c.JSON(http.StatusOK, user)
}

// CreateUserRequest represents the user creation request payload
type CreateUserRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
	Address  *string `json:"address"`
	City     *string `json:"city"`
	State    *string `json:"state"`
	Zip      *string `json:"zip"`
}

func (h *UserHandlers) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return common.SendClientError(c, "Missing required fields")
	}
	if req.Role == "" {
		req.Role = models.RoleCustomer
	}
	if !models.ValidRole(req.Role) {
		return common.SendValidationError(c, "role", "role must be admin or customer")
	}

	taken, err := h.userRepo.EmailTaken(ctx, req.Email, uuid.Nil)
	if err != nil {
		log.Printf("email uniqueness check failed: %v", err)
		return common.SendServerError(c, "Failed to create user")
	}
	if taken {
		return common.SendConflictError(c, "User already exists")
	}

	hash, err := h.credentials.HashPassword(req.Password)
	if err != nil {
		log.Printf("password hash failed: %v", err)
		return common.SendServerError(c, "Failed to create user")
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		Zip:          req.Zip,
	}

	if err := h.userRepo.Create(ctx, user); err != nil {
		log.Printf("user create failed: %v", err)
		return common.SendServerError(c, "Failed to create user")
	}

	return c.JSON(http.StatusCreated, user)
}

// UpdateUserRequest represents the user update request payload. An empty
// password leaves the stored hash untouched.
type UpdateUserRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
	Address  *string `json:"address"`
	City     *string `json:"city"`
	State    *string `json:"state"`
	Zip      *string `json:"zip"`
}

func (h *UserHandlers) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Name == "" || req.Email == "" {
		return common.SendClientError(c, "Missing required fields")
	}
	if req.Role != "" && !models.ValidRole(req.Role) {
		return common.SendValidationError(c, "role", "role must be admin or customer")
	}

	user, err := h.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "User")
		}
		log.Printf("user fetch failed: %v", err)
		return common.SendServerError(c, "Failed to update user")
	}

	taken, err := h.userRepo.EmailTaken(ctx, req.Email, id)
	if err != nil {
		log.Printf("email uniqueness check failed: %v", err)
		return common.SendServerError(c, "Failed to update user")
	}
	if taken {
		return common.SendConflictError(c, "Email already in use by another user")
	}

	user.Name = req.Name
	user.Email = req.Email
	if req.Role != "" {
		user.Role = req.Role
	}
	user.Address = req.Address
	user.City = req.City
	user.State = req.State
	user.Zip = req.Zip

	if err := h.userRepo.Update(ctx, user); err != nil {
		log.Printf("user update failed: %v", err)
		return common.SendServerError(c, "Failed to update user")
	}

	if req.Password != "" {
		hash, err := h.credentials.HashPassword(req.Password)
		if err != nil {
			log.Printf("password hash failed: %v", err)
			return common.SendServerError(c, "Failed to update user")
		}
		if err := h.userRepo.UpdatePassword(ctx, id, hash); err != nil {
			log.Printf("password update failed: %v", err)
			return common.SendServerError(c, "Failed to update user")
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "User updated successfully"})
}

// DeleteUser removes a user. Documents, payments, and property
// assignments cascade in the schema.
func (h *UserHandlers) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if _, err := h.userRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "User")
		}
		log.Printf("user fetch failed: %v", err)
		return common.SendServerError(c, "Failed to delete user")
	}

	if err := h.userRepo.Delete(ctx, id); err != nil {
		log.Printf("user delete failed: %v", err)
		return common.SendServerError(c, "Failed to delete user")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "User deleted successfully"})
}
