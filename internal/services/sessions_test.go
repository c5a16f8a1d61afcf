package services

import (
	"testing"

	"landledger/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *models.User {
	address := "100 Main St"
	return &models.User{
		ID:      uuid.New(),
		Name:    "John Doe",
		Email:   "john@example.com",
		Role:    models.RoleCustomer,
		Address: &address,
	}
}

func TestSessionIssueAndVerify(t *testing.T) {
	svc := NewSessionService("test-secret", "landledger")
	user := testUser()

	token, err := svc.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, user.Name, claims.Name)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Role, claims.Role)
	assert.Equal(t, "100 Main St", claims.Address)
	assert.Equal(t, "landledger", claims.Issuer)
}

func TestSessionVerify_WrongSecret(t *testing.T) {
	issuer := NewSessionService("secret-a", "landledger")
	verifier := NewSessionService("secret-b", "landledger")

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalidOrExpired)
}

func TestSessionVerify_Garbage(t *testing.T) {
	svc := NewSessionService("test-secret", "landledger")

	_, err := svc.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalidOrExpired)

	_, err = svc.Verify("")
	assert.ErrorIs(t, err, ErrTokenInvalidOrExpired)
}
