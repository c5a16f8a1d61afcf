package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"

	"landledger/internal/common"
	"landledger/internal/models"
	"landledger/internal/repositories"
	"landledger/internal/services"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/labstack/echo/v4"
)

// PaymentHandlers handles the payment ledger endpoints. Mutation is
// admin-only; listing and receipts are scoped to the customer's own
// ledger lines for non-admins.
type PaymentHandlers struct {
	paymentService services.PaymentService
	userRepo       repositories.UserRepository
}

func NewPaymentHandlers(paymentService services.PaymentService, userRepo repositories.UserRepository) *PaymentHandlers {
	return &PaymentHandlers{
		paymentService: paymentService,
		userRepo:       userRepo,
	}
}

// ListPaymentsRequest represents query parameters for listing payments
type ListPaymentsRequest struct {
	CustomerID string `query:"customer_id"`
	ParcelID   string `query:"parcel_id"`
	Status     string `query:"status"`
	Limit      int    `query:"limit"`
	Offset     int    `query:"offset"`
}

// ListPayments lists ledger lines. Customers always get their own lines
// only, whatever customer_id they ask for.
func (h *PaymentHandlers) ListPayments(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := common.GetCurrentUser(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req ListPaymentsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	if req.Status != "" && !models.ValidPaymentStatus(req.Status) {
		return common.SendValidationError(c, "status", "unknown payment status")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	filter := repositories.PaymentFilter{
		ParcelID: req.ParcelID,
		Status:   req.Status,
	}
	if user.Role == models.RoleAdmin {
		if req.CustomerID != "" {
			customerID, err := common.ValidateUUID(req.CustomerID, "customer_id")
			if err != nil {
				return common.SendValidationError(c, "customer_id", err.Error())
			}
			filter.CustomerID = customerID
		}
	} else {
		filter.CustomerID = user.ID
	}

	payments, err := h.paymentService.List(ctx, filter, limit, offset)
	if err != nil {
		log.Printf("payment list failed: %v", err)
		return common.SendServerError(c, "Failed to list payments")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"payments": payments,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetPayment returns a single ledger line. Customers may only read their
// own.
func (h *PaymentHandlers) GetPayment(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := common.GetCurrentUser(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	payment, err := h.paymentService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "Payment")
		}
		log.Printf("payment fetch failed: %v", err)
		return common.SendServerError(c, "Failed to fetch payment")
	}

	if user.Role != models.RoleAdmin && payment.CustomerID != user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "Not your payment")
	}

	return c.JSON(http.StatusOK, payment)
}

// PaymentRequest represents the payment create/update payload. Dates
// arrive as strings in the wire format; balance is never accepted from
// the client.
type PaymentRequest struct {
	CustomerID string  `json:"customer_id"`
	ParcelID   *string `json:"parcel_id"`
	AmountDue  float64 `json:"amount_due"`
	AmountPaid float64 `json:"amount_paid"`
	Date       string  `json:"date"`
	PaidDate   *string `json:"paid_date"`
	Method     string  `json:"method"`
	Status     string  `json:"status"`
	Notes      *string `json:"notes"`
}

// toModel converts the wire payload. The returned field names which
// input failed validation when err is non-nil.
func (req *PaymentRequest) toModel(id uuid.UUID) (*models.Payment, string, error) {
	customerID, err := common.ValidateUUID(req.CustomerID, "customer_id")
	if err != nil {
		return nil, "customer_id", err
	}
	date, err := common.ParseDate(req.Date, "date")
	if err != nil {
		return nil, "date", err
	}

	payment := &models.Payment{
		ID:         id,
		CustomerID: customerID,
		ParcelID:   req.ParcelID,
		AmountDue:  req.AmountDue,
		AmountPaid: req.AmountPaid,
		Date:       date,
		Method:     req.Method,
		Status:     req.Status,
		Notes:      req.Notes,
	}
	if req.PaidDate != nil && *req.PaidDate != "" {
		paidDate, err := common.ParseDate(*req.PaidDate, "paid_date")
		if err != nil {
			return nil, "paid_date", err
		}
		payment.PaidDate = &paidDate
	}
	return payment, "", nil
}

func (h *PaymentHandlers) sendPaymentError(c echo.Context, err error, action string) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return common.SendNotFoundError(c, "Payment")
	case errors.Is(err, services.ErrMissingRequiredField):
		return common.SendClientError(c, "Missing or invalid required fields")
	case errors.Is(err, services.ErrInvalidStatus):
		return common.SendValidationError(c, "status", err.Error())
	case errors.Is(err, services.ErrInvalidMethod):
		return common.SendValidationError(c, "method", "unknown payment method")
	}
	log.Printf("payment %s failed: %v", action, err)
	return common.SendServerError(c, "Failed to "+action+" payment")
}

func (h *PaymentHandlers) CreatePayment(c echo.Context) error {
	ctx := c.Request().Context()

	var req PaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	payment, field, err := req.toModel(uuid.New())
	if err != nil {
		return common.SendValidationError(c, field, err.Error())
	}

	if err := h.paymentService.Create(ctx, payment); err != nil {
		return h.sendPaymentError(c, err, "create")
	}

	return c.JSON(http.StatusCreated, payment)
}

func (h *PaymentHandlers) UpdatePayment(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req PaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	payment, field, err := req.toModel(id)
	if err != nil {
		return common.SendValidationError(c, field, err.Error())
	}

	if err := h.paymentService.Update(ctx, payment); err != nil {
		return h.sendPaymentError(c, err, "update")
	}

	return c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandlers) DeletePayment(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.paymentService.Delete(ctx, id); err != nil {
		return h.sendPaymentError(c, err, "delete")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Payment deleted successfully"})
}

// GetReceipt renders a PDF receipt for a ledger line. Customers may only
// pull receipts for their own payments.
func (h *PaymentHandlers) GetReceipt(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := common.GetCurrentUser(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	payment, err := h.paymentService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "Payment")
		}
		log.Printf("payment fetch failed: %v", err)
		return common.SendServerError(c, "Failed to fetch payment")
	}

	if user.Role != models.RoleAdmin && payment.CustomerID != user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "Not your payment")
	}

	customer, err := h.userRepo.GetByID(ctx, payment.CustomerID)
	if err != nil {
		log.Printf("receipt customer lookup failed: %v", err)
		return common.SendServerError(c, "Failed to generate receipt")
	}

	pdfBytes, err := generateReceiptPDF(payment, customer)
	if err != nil {
		log.Printf("receipt generation failed: %v", err)
		return common.SendServerError(c, "Failed to generate receipt")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="receipt-%s.pdf"`, payment.ID))
	return c.Blob(http.StatusOK, "application/pdf", pdfBytes)
}

func generateReceiptPDF(payment *models.Payment, customer *models.User) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetXY(marginX, marginY)
	pdf.Cell(0, 10, "PAYMENT RECEIPT")
	pdf.Ln(15)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Receipt Number: %s", payment.ID))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Payment Date: %s", payment.Date.Format("02-Jan-2006")))
	pdf.Ln(8)
	if payment.PaidDate != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Paid Date: %s", payment.PaidDate.Format("02-Jan-2006")))
		pdf.Ln(8)
	}
	if payment.ParcelID != nil && *payment.ParcelID != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Parcel ID: %s", *payment.ParcelID))
		pdf.Ln(8)
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, "RECEIVED FROM:")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, customer.Name)
	pdf.Ln(6)
	pdf.Cell(0, 6, customer.Email)
	pdf.Ln(6)
	if addr := common.SafeString(customer.Address); addr != "" {
		line := addr
		if city := common.SafeString(customer.City); city != "" {
			line += ", " + city
		}
		if state := common.SafeString(customer.State); state != "" {
			line += ", " + state
		}
		if zip := common.SafeString(customer.Zip); zip != "" {
			line += " " + zip
		}
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)

	headers := []string{"Description", "Amount"}
	colWidths := []float64{120, 50}
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(255, 255, 255)

	rows := []struct {
		label  string
		amount float64
	}{
		{"Amount Due", payment.AmountDue},
		{"Amount Paid", payment.AmountPaid},
		{"Balance", payment.Balance},
	}
	for _, row := range rows {
		pdf.CellFormat(colWidths[0], 8, row.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, fmt.Sprintf("$%.2f", row.amount), "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Payment Method: %s", payment.Method))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Status: %s", payment.Status))
	pdf.Ln(6)
	if payment.Notes != nil && *payment.Notes != "" {
		pdf.SetFont("Arial", "", 9)
		pdf.Cell(0, 6, fmt.Sprintf("Notes: %s", *payment.Notes))
		pdf.Ln(6)
	}

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.Cell(0, 5, "This is a computer generated receipt.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}
