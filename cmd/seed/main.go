package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"landledger/internal/models"
	"landledger/internal/repositories"
	"landledger/internal/services"
	"landledger/pkg/database"
)

// Seeds the database with a development admin and two sample customers
// plus a few parcels, ledger lines, and documents. Idempotent: if the
// admin user already exists, nothing is written.
func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	ctx := context.Background()

	userRepo := repositories.NewUserRepo(pool)
	propertyRepo := repositories.NewPropertyRepo(pool)
	propertyUserRepo := repositories.NewPropertyUserRepo(pool)
	paymentRepo := repositories.NewPaymentRepo(pool)
	documentRepo := repositories.NewDocumentRepo(pool)

	if _, err := userRepo.GetByEmail(ctx, "admin@example.com"); err == nil {
		log.Println("Admin user already exists, skipping sample data creation")
		return
	} else if !errors.Is(err, pgx.ErrNoRows) {
		log.Fatalf("Failed to check for admin user: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	admin := &models.User{
		ID:           uuid.New(),
		Name:         "Admin User",
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	john := &models.User{
		ID:           uuid.New(),
		Name:         "John Doe",
		Email:        "john@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleCustomer,
		Address:      ptr("100 Main St"),
		City:         ptr("Huntsville"),
		State:        ptr("AL"),
		Zip:          ptr("35801"),
	}
	jane := &models.User{
		ID:           uuid.New(),
		Name:         "Jane Smith",
		Email:        "jane@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleCustomer,
	}
	for _, u := range []*models.User{admin, john, jane} {
		if err := userRepo.Create(ctx, u); err != nil {
			log.Fatalf("Failed to create user %s: %v", u.Email, err)
		}
	}
	log.Println("Seed users created")

	parcel := &models.Property{
		ID:           uuid.New(),
		Status:       models.PropertyStatusFinancing,
		ParcelID:     "07-18-04-0-001-002.000",
		PPIN:         ptr("45210"),
		LotAcres:     ptr("2.5"),
		StreetName:   ptr("County Road 12"),
		City:         ptr("Huntsville"),
		State:        ptr("AL"),
		County:       ptr("Madison"),
	}
	soldParcel := &models.Property{
		ID:       uuid.New(),
		Status:   models.PropertyStatusSold,
		ParcelID: "07-18-04-0-001-003.000",
		City:     ptr("Huntsville"),
		State:    ptr("AL"),
		County:   ptr("Madison"),
	}
	for _, p := range []*models.Property{parcel, soldParcel} {
		if err := propertyRepo.Create(ctx, p); err != nil {
			log.Fatalf("Failed to create property %s: %v", p.ParcelID, err)
		}
	}
	assignments := []*models.PropertyUser{
		{ID: uuid.New(), PropertyID: parcel.ID, UserID: john.ID},
		{ID: uuid.New(), PropertyID: soldParcel.ID, UserID: jane.ID},
	}
	for _, a := range assignments {
		if err := propertyUserRepo.Assign(ctx, a); err != nil {
			log.Fatalf("Failed to assign parcel: %v", err)
		}
	}
	log.Println("Seed properties created")

	payments := []*models.Payment{
		{
			CustomerID: john.ID,
			ParcelID:   &parcel.ParcelID,
			AmountDue:  99.99,
			AmountPaid: 99.99,
			Date:       date(2023, 1, 15),
			PaidDate:   ptrTime(date(2023, 1, 15)),
			Method:     models.PaymentMethodCreditCard,
			Status:     models.PaymentStatusPaid,
		},
		{
			CustomerID: john.ID,
			ParcelID:   &parcel.ParcelID,
			AmountDue:  149.99,
			AmountPaid: 149.99,
			Date:       date(2023, 2, 20),
			PaidDate:   ptrTime(date(2023, 2, 20)),
			Method:     models.PaymentMethodPayPal,
			Status:     models.PaymentStatusPaid,
		},
		{
			CustomerID: jane.ID,
			ParcelID:   &soldParcel.ParcelID,
			AmountDue:  199.99,
			Date:       date(2023, 3, 10),
			Method:     models.PaymentMethodCreditCard,
			Status:     models.PaymentStatusNotPaid,
		},
		{
			CustomerID: jane.ID,
			ParcelID:   &soldParcel.ParcelID,
			AmountDue:  49.99,
			AmountPaid: 25.00,
			Date:       date(2023, 4, 5),
			Method:     models.PaymentMethodBankTransfer,
			Status:     models.PaymentStatusPartiallyPaid,
		},
	}
	paymentSvc := services.NewPaymentService(paymentRepo)
	for _, p := range payments {
		if err := paymentSvc.Create(ctx, p); err != nil {
			log.Fatalf("Failed to create payment: %v", err)
		}
	}
	log.Println("Seed payments created")

	documents := []*models.Document{
		{ID: uuid.New(), UserID: john.ID, FileURL: "documents/seed/invoice-jan-2023.pdf", FileName: "invoice-jan-2023.pdf"},
		{ID: uuid.New(), UserID: john.ID, FileURL: "documents/seed/contract-2023.pdf", FileName: "contract-2023.pdf"},
		{ID: uuid.New(), UserID: jane.ID, FileURL: "documents/seed/receipt-march-2023.pdf", FileName: "receipt-march-2023.pdf"},
		{ID: uuid.New(), UserID: jane.ID, FileURL: "documents/seed/agreement-2023.pdf", FileName: "agreement-2023.pdf"},
	}
	for _, d := range documents {
		if err := documentRepo.Create(ctx, d); err != nil {
			log.Fatalf("Failed to create document: %v", err)
		}
	}
	log.Println("Seed documents created")

	log.Println("Database seeding completed successfully")
}

func ptr(s string) *string { return &s }

func ptrTime(t time.Time) *time.Time { return &t }

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
