package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"landledger/internal/models"
	"landledger/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PaymentService keeps balance and status consistent with the amount and
// date fields on every create/update.
type PaymentService interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter repositories.PaymentFilter, limit, offset int) ([]*models.PaymentWithCustomer, error)
	MarkPastDue(ctx context.Context) (int64, error)
}

type paymentService struct {
	paymentRepo repositories.PaymentRepository
}

func NewPaymentService(paymentRepo repositories.PaymentRepository) PaymentService {
	return &paymentService{paymentRepo: paymentRepo}
}

// ComputeBalance derives the outstanding balance from the amounts due and
// paid. Rounded to cents; never negative, even on overpayment.
func ComputeBalance(amountDue, amountPaid float64) float64 {
	balance := math.Round((amountDue-amountPaid)*100) / 100
	if balance < 0 {
		return 0
	}
	return balance
}

// ValidateStatus checks the status enum and its relationship to paidDate:
// a paid ledger line must carry a paid date.
func ValidateStatus(status string, paidDate *time.Time) error {
	if !models.ValidPaymentStatus(status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if status == models.PaymentStatusPaid && paidDate == nil {
		return fmt.Errorf("%w: paid status requires a paid date", ErrInvalidStatus)
	}
	return nil
}

// reconcile validates a ledger line and recomputes its derived fields.
// Client-supplied balances are ignored; paid_date is dropped unless the
// status is paid.
func (s *paymentService) reconcile(payment *models.Payment) error {
	if payment.CustomerID == uuid.Nil {
		return fmt.Errorf("%w: customer_id", ErrMissingRequiredField)
	}
	if payment.AmountDue <= 0 {
		return fmt.Errorf("%w: amount_due", ErrMissingRequiredField)
	}
	if payment.AmountPaid < 0 {
		return fmt.Errorf("%w: amount_paid", ErrMissingRequiredField)
	}
	if payment.Method == "" {
		return fmt.Errorf("%w: method", ErrMissingRequiredField)
	}
	if !models.ValidPaymentMethod(payment.Method) {
		return fmt.Errorf("%w: %q", ErrInvalidMethod, payment.Method)
	}
	if payment.Date.IsZero() {
		return fmt.Errorf("%w: date", ErrMissingRequiredField)
	}

	if payment.Status != models.PaymentStatusPaid {
		payment.PaidDate = nil
	}
	if err := ValidateStatus(payment.Status, payment.PaidDate); err != nil {
		return err
	}

	payment.Balance = ComputeBalance(payment.AmountDue, payment.AmountPaid)
	payment.Date = payment.Date.UTC()
	if payment.PaidDate != nil {
		normalized := payment.PaidDate.UTC()
		payment.PaidDate = &normalized
	}
	return nil
}

func (s *paymentService) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	if err := s.reconcile(payment); err != nil {
		return err
	}
	return s.paymentRepo.Create(ctx, payment)
}

func (s *paymentService) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) Update(ctx context.Context, payment *models.Payment) error {
	if _, err := s.GetByID(ctx, payment.ID); err != nil {
		return err
	}
	if err := s.reconcile(payment); err != nil {
		return err
	}
	return s.paymentRepo.Update(ctx, payment)
}

func (s *paymentService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.paymentRepo.Delete(ctx, id)
}

func (s *paymentService) List(ctx context.Context, filter repositories.PaymentFilter, limit, offset int) ([]*models.PaymentWithCustomer, error) {
	return s.paymentRepo.List(ctx, filter, limit, offset)
}

func (s *paymentService) MarkPastDue(ctx context.Context) (int64, error) {
	return s.paymentRepo.MarkPastDue(ctx)
}
