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

type PaymentRepoTestSuite struct {
	suite.Suite
	mock       pgxmock.PgxPoolIface
	repo       PaymentRepository
	customerID uuid.UUID
	context    context.Context
}

func (suite *PaymentRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewPaymentRepo(mock)
	suite.customerID = uuid.New()
	suite.context = context.Background()
}

func (suite *PaymentRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestPaymentRepoTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentRepoTestSuite))
}

func paymentColumns() []string {
	return []string{"id", "customer_id", "parcel_id", "amount_due", "amount_paid", "balance",
		"date", "paid_date", "method", "status", "notes", "created_at", "updated_at"}
}

func (suite *PaymentRepoTestSuite) TestCreate_Success() {
	parcelID := "07-18-04-0-001-002.000"
	payment := &models.Payment{
		ID:         uuid.New(),
		CustomerID: suite.customerID,
		ParcelID:   &parcelID,
		AmountDue:  100,
		AmountPaid: 40,
		Balance:    60,
		Date:       time.Now(),
		Method:     models.PaymentMethodCreditCard,
		Status:     models.PaymentStatusPartiallyPaid,
	}

	suite.mock.ExpectExec(`
			INSERT INTO payments \(id, customer_id, parcel_id, amount_due, amount_paid, balance, date,
				paid_date, method, status, notes, created_at, updated_at\)
			VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8, \$9, \$10, \$11, NOW\(\), NOW\(\)\)
		`).WithArgs(payment.ID, payment.CustomerID, payment.ParcelID, payment.AmountDue,
		payment.AmountPaid, payment.Balance, payment.Date, payment.PaidDate, payment.Method,
		payment.Status, payment.Notes).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, payment)
	assert.NoError(suite.T(), err)
}

func (suite *PaymentRepoTestSuite) TestGetByID_NotFound() {
	id := uuid.New()

	suite.mock.ExpectQuery(`
			SELECT id, customer_id, parcel_id, amount_due, amount_paid, balance, date, paid_date,
				method, status, notes, created_at, updated_at
			FROM payments
			WHERE id = \$1
		`).WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	result, err := suite.repo.GetByID(suite.context, id)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
	assert.Nil(suite.T(), result)
}

func (suite *PaymentRepoTestSuite) TestGetByID_Success() {
	id := uuid.New()
	now := time.Now()

	suite.mock.ExpectQuery(`
			SELECT id, customer_id, parcel_id, amount_due, amount_paid, balance, date, paid_date,
				method, status, notes, created_at, updated_at
			FROM payments
			WHERE id = \$1
		`).WithArgs(id).
		WillReturnRows(pgxmock.NewRows(paymentColumns()).
			AddRow(id, suite.customerID, (*string)(nil), 100.0, 100.0, 0.0, now, &now,
				models.PaymentMethodCash, models.PaymentStatusPaid, (*string)(nil), now, now))

	result, err := suite.repo.GetByID(suite.context, id)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), id, result.ID)
	assert.Equal(suite.T(), models.PaymentStatusPaid, result.Status)
	assert.Equal(suite.T(), 0.0, result.Balance)
}

func (suite *PaymentRepoTestSuite) TestList_CustomerScoped() {
	now := time.Now()
	columns := append(paymentColumns(), "customer_name")

	suite.mock.ExpectQuery(`
			SELECT p.id, p.customer_id, p.parcel_id, p.amount_due, p.amount_paid, p.balance, p.date,
				p.paid_date, p.method, p.status, p.notes, p.created_at, p.updated_at, u.name AS customer_name
			FROM payments p
			JOIN users u ON p.customer_id = u.id
		`).WithArgs(&suite.customerID, "", "", 50, 0).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow(uuid.New(), suite.customerID, (*string)(nil), 100.0, 0.0, 100.0, now, (*time.Time)(nil),
				models.PaymentMethodCheck, models.PaymentStatusNotPaid, (*string)(nil), now, now, "Test Customer"))

	result, err := suite.repo.List(suite.context, PaymentFilter{CustomerID: suite.customerID}, 50, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 1)
	assert.Equal(suite.T(), suite.customerID, result[0].CustomerID)
}

func (suite *PaymentRepoTestSuite) TestList_UnscopedPassesNullCustomer() {
	suite.mock.ExpectQuery(`FROM payments p`).
		WithArgs((*uuid.UUID)(nil), "", models.PaymentStatusPastDue, 50, 0).
		WillReturnRows(pgxmock.NewRows(append(paymentColumns(), "customer_name")))

	result, err := suite.repo.List(suite.context, PaymentFilter{Status: models.PaymentStatusPastDue}, 50, 0)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), result)
}

func (suite *PaymentRepoTestSuite) TestMarkPastDue_ReportsCount() {
	suite.mock.ExpectExec(`
			UPDATE payments
			SET status = 'past_due', updated_at = NOW\(\)
			WHERE status IN \('not_paid', 'partially_paid'\) AND date < NOW\(\) AND balance > 0
		`).WillReturnResult(pgxmock.NewResult("UPDATE", 4))

	updated, err := suite.repo.MarkPastDue(suite.context)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(4), updated)
}

func (suite *PaymentRepoTestSuite) TestDelete() {
	id := uuid.New()
	suite.mock.ExpectExec(`DELETE FROM payments WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, id)
	assert.NoError(suite.T(), err)
}
