package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"landledger/internal/models"
	"landledger/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the cost the stored hashes were created with.
const bcryptCost = 10

// resetTokenTTL is the lifetime of a password-reset token.
const resetTokenTTL = time.Hour

// CredentialService verifies and mutates password credentials and manages
// the reset-token lifecycle.
type CredentialService interface {
	HashPassword(plaintext string) (string, error)
	VerifyPassword(plaintext, storedHash string) bool
	// IssueResetToken creates a fresh single-use token for the user,
	// superseding any existing one, and emails the reset link. The token
	// row is committed before the email is attempted; a delivery failure
	// returns the token together with ErrDeliveryFailure.
	IssueResetToken(ctx context.Context, user *models.User) (string, error)
	// ValidateResetToken resolves a live token to its owning user ID. A
	// missing token and an expired token are indistinguishable to the caller.
	ValidateResetToken(ctx context.Context, token string) (uuid.UUID, error)
	// ConsumeResetToken re-validates the token, re-hashes the password,
	// and deletes the token row so it cannot be used twice.
	ConsumeResetToken(ctx context.Context, token, newPassword string) error
}

type credentialService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.ResetTokenRepository
	mailer    Mailer
	baseURL   string
}

func NewCredentialService(userRepo repositories.UserRepository, tokenRepo repositories.ResetTokenRepository, mailer Mailer, baseURL string) CredentialService {
	return &credentialService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		mailer:    mailer,
		baseURL:   baseURL,
	}
}

func (s *credentialService) HashPassword(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (s *credentialService) VerifyPassword(plaintext, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
}

func (s *credentialService) IssueResetToken(ctx context.Context, user *models.User) (string, error) {
	token, err := generateResetToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	row := &models.PasswordResetToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(resetTokenTTL),
	}
	if err := s.tokenRepo.Replace(ctx, row); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	resetLink := fmt.Sprintf("%s/auth/reset-password?token=%s", s.baseURL, token)
	body := fmt.Sprintf("Click the following link to reset your password: %s", resetLink)
	if err := s.mailer.SendEmail(ctx, user.Email, "Password Reset Request", body); err != nil {
		// The token is already committed. Delivery is best-effort; the
		// failure is operator-visible but must not undo the token.
		log.Printf("reset email to user %s failed: %v", user.ID, err)
		return token, ErrDeliveryFailure
	}

	return token, nil
}

func (s *credentialService) ValidateResetToken(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, ErrTokenInvalidOrExpired
	}

	row, err := s.tokenRepo.GetValid(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrTokenInvalidOrExpired
		}
		return uuid.Nil, err
	}
	return row.UserID, nil
}

func (s *credentialService) ConsumeResetToken(ctx context.Context, token, newPassword string) error {
	userID, err := s.ValidateResetToken(ctx, token)
	if err != nil {
		return err
	}

	hashed, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashed); err != nil {
		return err
	}

	// Delete-after-use: the token must not validate a second time.
	return s.tokenRepo.DeleteByToken(ctx, token)
}

// generateResetToken returns 32 crypto-random bytes hex-encoded (256 bits
// of entropy).
func generateResetToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
