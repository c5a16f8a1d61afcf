package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment statuses. Status is admin-supplied and validated, never derived
// from the balance; the only automatic transition is the daily past-due
// sweep in the background scheduler.
const (
	PaymentStatusPaid          = "paid"
	PaymentStatusPartiallyPaid = "partially_paid"
	PaymentStatusNotPaid       = "not_paid"
	PaymentStatusPastDue       = "past_due"
)

// Payment methods accepted on ledger lines.
const (
	PaymentMethodCreditCard   = "credit_card"
	PaymentMethodDebitCard    = "debit_card"
	PaymentMethodPayPal       = "paypal"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCheck        = "check"
	PaymentMethodCash         = "cash"
	PaymentMethodOther        = "other"
)

// Payment is a single ledger line tied to a customer and optionally a
// parcel. Balance is derived: max(0, amount_due - amount_paid).
type Payment struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	CustomerID uuid.UUID  `json:"customer_id" db:"customer_id"`
	ParcelID   *string    `json:"parcel_id" db:"parcel_id"`
	AmountDue  float64    `json:"amount_due" db:"amount_due"`
	AmountPaid float64    `json:"amount_paid" db:"amount_paid"`
	Balance    float64    `json:"balance" db:"balance"`
	Date       time.Time  `json:"date" db:"date"`
	PaidDate   *time.Time `json:"paid_date" db:"paid_date"`
	Method     string     `json:"method" db:"method"`
	Status     string     `json:"status" db:"status"`
	Notes      *string    `json:"notes" db:"notes"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// PaymentWithCustomer augments a ledger line with the customer's name for
// admin listings and property detail views.
type PaymentWithCustomer struct {
	Payment
	CustomerName string `json:"customer_name" db:"customer_name"`
}

func ValidPaymentStatus(status string) bool {
	switch status {
	case PaymentStatusPaid, PaymentStatusPartiallyPaid, PaymentStatusNotPaid, PaymentStatusPastDue:
		return true
	}
	return false
}

func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodPayPal,
		PaymentMethodBankTransfer, PaymentMethodCheck, PaymentMethodCash, PaymentMethodOther:
		return true
	}
	return false
}
