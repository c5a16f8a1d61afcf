package repositories

import (
	"context"

	"landledger/internal/models"

	"github.com/google/uuid"
)

// PaymentFilter narrows payment listings. CustomerID scopes the listing to
// one customer; customers always list with their own ID.
type PaymentFilter struct {
	CustomerID uuid.UUID
	ParcelID   string
	Status     string
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter PaymentFilter, limit, offset int) ([]*models.PaymentWithCustomer, error)
	ListByParcel(ctx context.Context, parcelID string) ([]*models.PaymentWithCustomer, error)
	// MarkPastDue flips unpaid ledger lines whose due date has passed to
	// past_due. Returns the number of rows transitioned.
	MarkPastDue(ctx context.Context) (int64, error)
}

type paymentRepo struct {
	db DBTX
}

func NewPaymentRepo(db DBTX) PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (id, customer_id, parcel_id, amount_due, amount_paid, balance, date,
			paid_date, method, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, payment.ID, payment.CustomerID, payment.ParcelID, payment.AmountDue,
		payment.AmountPaid, payment.Balance, payment.Date, payment.PaidDate, payment.Method,
		payment.Status, payment.Notes)
	return err
}

func (r *paymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	payment := &models.Payment{}
	query := `
		SELECT id, customer_id, parcel_id, amount_due, amount_paid, balance, date, paid_date,
			method, status, notes, created_at, updated_at
		FROM payments
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&payment.ID, &payment.CustomerID, &payment.ParcelID,
		&payment.AmountDue, &payment.AmountPaid, &payment.Balance, &payment.Date, &payment.PaidDate,
		&payment.Method, &payment.Status, &payment.Notes, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *paymentRepo) Update(ctx context.Context, payment *models.Payment) error {
	query := `
		UPDATE payments
		SET customer_id = $1, parcel_id = $2, amount_due = $3, amount_paid = $4, balance = $5,
			date = $6, paid_date = $7, method = $8, status = $9, notes = $10, updated_at = NOW()
		WHERE id = $11
	`
	_, err := r.db.Exec(ctx, query, payment.CustomerID, payment.ParcelID, payment.AmountDue,
		payment.AmountPaid, payment.Balance, payment.Date, payment.PaidDate, payment.Method,
		payment.Status, payment.Notes, payment.ID)
	return err
}

func (r *paymentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM payments WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func scanPaymentWithCustomer(row interface{ Scan(dest ...any) error }) (*models.PaymentWithCustomer, error) {
	p := &models.PaymentWithCustomer{}
	err := row.Scan(&p.ID, &p.CustomerID, &p.ParcelID, &p.AmountDue, &p.AmountPaid, &p.Balance,
		&p.Date, &p.PaidDate, &p.Method, &p.Status, &p.Notes, &p.CreatedAt, &p.UpdatedAt, &p.CustomerName)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentRepo) List(ctx context.Context, filter PaymentFilter, limit, offset int) ([]*models.PaymentWithCustomer, error) {
	query := `
		SELECT p.id, p.customer_id, p.parcel_id, p.amount_due, p.amount_paid, p.balance, p.date,
			p.paid_date, p.method, p.status, p.notes, p.created_at, p.updated_at, u.name AS customer_name
		FROM payments p
		JOIN users u ON p.customer_id = u.id
		WHERE ($1::uuid IS NULL OR p.customer_id = $1)
		  AND ($2 = '' OR p.parcel_id = $2)
		  AND ($3 = '' OR p.status = $3)
		ORDER BY p.date DESC
		LIMIT $4 OFFSET $5
	`
	var customerID *uuid.UUID
	if filter.CustomerID != uuid.Nil {
		customerID = &filter.CustomerID
	}
	rows, err := r.db.Query(ctx, query, customerID, filter.ParcelID, filter.Status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.PaymentWithCustomer
	for rows.Next() {
		p, err := scanPaymentWithCustomer(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *paymentRepo) ListByParcel(ctx context.Context, parcelID string) ([]*models.PaymentWithCustomer, error) {
	query := `
		SELECT p.id, p.customer_id, p.parcel_id, p.amount_due, p.amount_paid, p.balance, p.date,
			p.paid_date, p.method, p.status, p.notes, p.created_at, p.updated_at, u.name AS customer_name
		FROM payments p
		JOIN users u ON p.customer_id = u.id
		WHERE p.parcel_id = $1
		ORDER BY p.date DESC
	`
	rows, err := r.db.Query(ctx, query, parcelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.PaymentWithCustomer
	for rows.Next() {
		p, err := scanPaymentWithCustomer(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *paymentRepo) MarkPastDue(ctx context.Context) (int64, error) {
	query := `
		UPDATE payments
		SET status = 'past_due', updated_at = NOW()
		WHERE status IN ('not_paid', 'partially_paid') AND date < NOW() AND balance > 0
	`
	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
