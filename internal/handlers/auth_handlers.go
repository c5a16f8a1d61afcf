package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"landledger/internal/caching"
	"landledger/internal/common"
	"landledger/internal/repositories"
	"landledger/internal/services"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// forgotPasswordMessage is returned for every forgot-password request,
// existing email or not, so the endpoint cannot be used to enumerate
// accounts. Do not branch on the lookup result when writing the response.
const forgotPasswordMessage = "If your email exists in our system, you will receive a reset link"

const (
	forgotPasswordRateLimit  = 5
	forgotPasswordRateWindow = 15 * time.Minute
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	userRepo    repositories.UserRepository
	credentials services.CredentialService
	sessions    services.SessionService
	cache       caching.CacheService
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(userRepo repositories.UserRepository, credentials services.CredentialService, sessions services.SessionService, cache caching.CacheService) *AuthHandlers {
	return &AuthHandlers{
		userRepo:    userRepo,
		credentials: credentials,
		sessions:    sessions,
		cache:       cache,
	}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

// Login handles user login with email and password. Failures are
// deliberately generic: no distinction between an unknown email and a
// wrong password.
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
		}
		log.Printf("login lookup failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Login failed")
	}

	if !h.credentials.VerifyPassword(req.Password, user.PasswordHash) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.sessions.Issue(user)
	if err != nil {
		log.Printf("session issue failed for user %s: %v", user.ID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Login failed")
	}

	return c.JSON(http.StatusOK, LoginResponse{Token: token, User: user})
}

// Me returns the authenticated user's profile, as re-fetched from storage
// by the session middleware.
func (h *AuthHandlers) Me(c echo.Context) error {
	user, ok := common.GetCurrentUser(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return c.JSON(http.StatusOK, user)
}

// ForgotPasswordRequest represents the forgot-password request payload
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword issues a reset token and emails the reset link. The
// response is identical whether or not the email exists.
func (h *AuthHandlers) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()

	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email is required")
	}

	rateKey := "forgot-password:" + c.RealIP()
	if limited, err := h.cache.IsRateLimited(ctx, rateKey, forgotPasswordRateLimit, forgotPasswordRateWindow); err == nil && limited {
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests, try again later")
	}
	if err := h.cache.IncrementRateLimit(ctx, rateKey, forgotPasswordRateWindow); err != nil {
		log.Printf("rate limit increment failed: %v", err)
	}

	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Printf("forgot-password lookup failed: %v", err)
		}
		// Unknown email gets the same response as a known one.
		return c.JSON(http.StatusOK, map[string]string{"message": forgotPasswordMessage})
	}

	// ErrDeliveryFailure means the token committed but the email failed;
	// the service already logged it and the uniform response still goes out.
	if _, err := h.credentials.IssueResetToken(ctx, user); err != nil && !errors.Is(err, services.ErrDeliveryFailure) {
		log.Printf("reset token issuance failed for user %s: %v", user.ID, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": forgotPasswordMessage})
}

// VerifyResetToken reports whether a reset token is live. Wrong token and
// expired token are the same answer.
func (h *AuthHandlers) VerifyResetToken(c echo.Context) error {
	ctx := c.Request().Context()

	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Token is required")
	}

	if _, err := h.credentials.ValidateResetToken(ctx, token); err != nil {
		if errors.Is(err, services.ErrTokenInvalidOrExpired) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid or expired token")
		}
		log.Printf("reset token verification failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Token verification failed")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Token is valid"})
}

// ResetPasswordRequest represents the reset-password request payload
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword consumes a reset token and installs the new password.
func (h *AuthHandlers) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()

	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Token == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Token and password are required")
	}

	if err := h.credentials.ConsumeResetToken(ctx, req.Token, req.Password); err != nil {
		if errors.Is(err, services.ErrTokenInvalidOrExpired) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid or expired token")
		}
		log.Printf("password reset failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Password reset failed")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Password reset successful"})
}
