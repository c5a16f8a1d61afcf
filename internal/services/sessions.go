package services

import (
	"time"

	"landledger/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// sessionTTL is the session lifetime. Profile claims in the token are a
// cache only; authorization always re-reads the users row.
const sessionTTL = 30 * 24 * time.Hour

// SessionClaims is the signed session payload. Subject carries the user ID.
type SessionClaims struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	jwt.RegisteredClaims
}

// SessionService issues and verifies signed session tokens.
type SessionService interface {
	Issue(user *models.User) (string, error)
	// Verify checks signature and expiry and returns the claims. It never
	// consults storage; callers needing authoritative identity must
	// re-fetch the user row by claims.Subject.
	Verify(token string) (*SessionClaims, error)
}

type sessionService struct {
	secret []byte
	issuer string
}

func NewSessionService(secret, issuer string) SessionService {
	return &sessionService{secret: []byte(secret), issuer: issuer}
}

func safeClaim(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *sessionService) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Name:    user.Name,
		Email:   user.Email,
		Role:    user.Role,
		Address: safeClaim(user.Address),
		City:    safeClaim(user.City),
		State:   safeClaim(user.State),
		Zip:     safeClaim(user.Zip),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *sessionService) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrTokenInvalidOrExpired
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalidOrExpired
	}

	return claims, nil
}
