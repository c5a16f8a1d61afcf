package repositories

import (
	"context"
	"testing"
	"time"

	"landledger/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type UserRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    UserRepository
	userID  uuid.UUID
	context context.Context
}

func (suite *UserRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewUserRepo(mock)
	suite.userID = uuid.New()
	suite.context = context.Background()
}

func (suite *UserRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestUserRepoTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepoTestSuite))
}

func userColumns() []string {
	return []string{"id", "name", "email", "password_hash", "role",
		"address", "city", "state", "zip", "created_at", "updated_at"}
}

func (suite *UserRepoTestSuite) TestCreate_Success() {
	user := &models.User{
		ID:           suite.userID,
		Name:         "John Doe",
		Email:        "john@example.com",
		PasswordHash: "$2a$10$hash",
		Role:         models.RoleCustomer,
	}

	suite.mock.ExpectExec(`
			INSERT INTO users \(id, name, email, password_hash, role, address, city, state, zip, created_at, updated_at\)
			VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8, \$9, NOW\(\), NOW\(\)\)
		`).WithArgs(user.ID, user.Name, user.Email, user.PasswordHash, user.Role,
		user.Address, user.City, user.State, user.Zip).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, user)
	assert.NoError(suite.T(), err)
}

func (suite *UserRepoTestSuite) TestGetByEmail_Success() {
	now := time.Now()

	suite.mock.ExpectQuery(`
			SELECT id, name, email, password_hash, role, address, city, state, zip, created_at, updated_at
			FROM users
			WHERE email = \$1
		`).WithArgs("john@example.com").
		WillReturnRows(pgxmock.NewRows(userColumns()).
			AddRow(suite.userID, "John Doe", "john@example.com", "$2a$10$hash", models.RoleCustomer,
				(*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil), now, now))

	user, err := suite.repo.GetByEmail(suite.context, "john@example.com")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.userID, user.ID)
	assert.Equal(suite.T(), models.RoleCustomer, user.Role)
}

func (suite *UserRepoTestSuite) TestGetByEmail_NotFound() {
	suite.mock.ExpectQuery(`FROM users`).
		WithArgs("nobody@example.com").
		WillReturnError(pgx.ErrNoRows)

	user, err := suite.repo.GetByEmail(suite.context, "nobody@example.com")
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
	assert.Nil(suite.T(), user)
}

func (suite *UserRepoTestSuite) TestUpdatePassword_NoSuchUser() {
	suite.mock.ExpectExec(`UPDATE users SET password_hash = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs("$2a$10$newhash", suite.userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.UpdatePassword(suite.context, suite.userID, "$2a$10$newhash")
	assert.Error(suite.T(), err)
}

func (suite *UserRepoTestSuite) TestList_RoleFilter() {
	now := time.Now()

	suite.mock.ExpectQuery(`
			SELECT id, name, email, password_hash, role, address, city, state, zip, created_at, updated_at
			FROM users
			WHERE \$1 = '' OR role = \$1
		`).WithArgs(models.RoleCustomer, 50, 0).
		WillReturnRows(pgxmock.NewRows(userColumns()).
			AddRow(uuid.New(), "John Doe", "john@example.com", "hash", models.RoleCustomer,
				(*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil), now, now).
			AddRow(uuid.New(), "Jane Smith", "jane@example.com", "hash", models.RoleCustomer,
				(*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil), now, now))

	users, err := suite.repo.List(suite.context, models.RoleCustomer, 50, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), users, 2)
}

func (suite *UserRepoTestSuite) TestEmailTaken() {
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE email = \$1 AND id != \$2`).
		WithArgs("john@example.com", uuid.Nil).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	taken, err := suite.repo.EmailTaken(suite.context, "john@example.com", uuid.Nil)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), taken)
}

func (suite *UserRepoTestSuite) TestEmailTaken_ExcludesSelf() {
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE email = \$1 AND id != \$2`).
		WithArgs("john@example.com", suite.userID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))

	taken, err := suite.repo.EmailTaken(suite.context, "john@example.com", suite.userID)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), taken)
}
