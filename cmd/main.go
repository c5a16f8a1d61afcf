package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"landledger/internal/caching"
	"landledger/internal/handlers"
	"landledger/internal/jobs/background"
	"landledger/internal/middleware"
	"landledger/internal/repositories"
	"landledger/internal/services"
	"landledger/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: JWT_SECRET not set, using a generated secret; sessions will not survive a restart")
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	minioBucket := os.Getenv("MINIO_BUCKET")
	if minioBucket == "" {
		minioBucket = "landledger"
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	storage, err := services.NewMinioStorage(minioEndpoint, minioAccessKey, minioSecretKey, minioBucket, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	// Base URL for links embedded in outbound email
	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	// Mailer: real SMTP when configured, log transport otherwise
	var mailer services.Mailer
	if smtpHost := os.Getenv("SMTP_HOST"); smtpHost != "" {
		smtpPort := os.Getenv("SMTP_PORT")
		if smtpPort == "" {
			smtpPort = "587"
		}
		mailer = services.NewSMTPMailer(services.SMTPConfig{
			Host:     smtpHost,
			Port:     smtpPort,
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		})
	} else {
		log.Printf("SMTP_HOST not set, outbound email will be logged only")
		mailer = services.NewLogMailer()
	}

	// Create repositories
	userRepo := repositories.NewUserRepo(pool)
	tokenRepo := repositories.NewResetTokenRepo(pool)
	propertyRepo := repositories.NewPropertyRepo(pool)
	propertyUserRepo := repositories.NewPropertyUserRepo(pool)
	propertyFileRepo := repositories.NewPropertyFileRepo(pool)
	paymentRepo := repositories.NewPaymentRepo(pool)
	documentRepo := repositories.NewDocumentRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	credentialSvc := services.NewCredentialService(userRepo, tokenRepo, mailer, baseURL)
	sessionSvc := services.NewSessionService(jwtSecret, "landledger")
	paymentSvc := services.NewPaymentService(paymentRepo)
	propertySvc := services.NewPropertyService(propertyRepo, propertyUserRepo, propertyFileRepo,
		paymentRepo, userRepo, storage, cacheSvc)
	documentSvc := services.NewDocumentService(documentRepo, userRepo, storage)

	// Create handlers
	authHandlers := handlers.NewAuthHandlers(userRepo, credentialSvc, sessionSvc, cacheSvc)
	userHandlers := handlers.NewUserHandlers(userRepo, credentialSvc)
	propertyHandlers := handlers.NewPropertyHandlers(propertySvc)
	paymentHandlers := handlers.NewPaymentHandlers(paymentSvc, userRepo)
	documentHandlers := handlers.NewDocumentHandlers(documentSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, storage)

	// Background jobs
	scheduler := background.NewJobScheduler(tokenRepo, paymentSvc)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/detailed", healthHandlers.DetailedHealthCheck)

	// API routes
	v1 := e.Group("/v1")

	// Authentication routes (no session required)
	auth := v1.Group("/auth")
	auth.POST("/login", authHandlers.Login)
	auth.POST("/forgot-password", authHandlers.ForgotPassword)
	auth.GET("/verify-reset-token", authHandlers.VerifyResetToken)
	auth.POST("/reset-password", authHandlers.ResetPassword)

	// Protected routes: the session middleware re-fetches the user from
	// the database on every request
	protected := v1.Group("")
	protected.Use(middleware.Session(userRepo, sessionSvc))

	protected.GET("/me", authHandlers.Me)

	// User routes (admin only)
	admin := middleware.RequireAdmin()
	protected.GET("/users", userHandlers.ListUsers, admin)
	protected.POST("/users", userHandlers.CreateUser, admin)
	protected.GET("/users/:id", userHandlers.GetUser, admin)
	protected.PUT("/users/:id", userHandlers.UpdateUser, admin)
	protected.DELETE("/users/:id", userHandlers.DeleteUser, admin)

	// Property routes: reads are role-scoped inside the handlers,
	// mutation is admin only
	protected.GET("/properties", propertyHandlers.ListProperties)
	protected.GET("/properties/:id", propertyHandlers.GetProperty)
	protected.POST("/properties", propertyHandlers.CreateProperty, admin)
	protected.PUT("/properties/:id", propertyHandlers.UpdateProperty, admin)
	protected.DELETE("/properties/:id", propertyHandlers.DeleteProperty, admin)
	protected.POST("/properties/:id/users", propertyHandlers.AssignUser, admin)
	protected.DELETE("/properties/:id/users/:userId", propertyHandlers.UnassignUser, admin)
	protected.POST("/properties/:id/photos", propertyHandlers.UploadPhoto, admin)
	protected.DELETE("/properties/:id/photos/:photoId", propertyHandlers.DeletePhoto, admin)
	protected.POST("/properties/:id/tax-documents", propertyHandlers.UploadTaxDocument, admin)
	protected.DELETE("/properties/:id/tax-documents/:docId", propertyHandlers.DeleteTaxDocument, admin)

	// Payment routes
	protected.GET("/payments", paymentHandlers.ListPayments)
	protected.GET("/payments/:id", paymentHandlers.GetPayment)
	protected.GET("/payments/:id/receipt", paymentHandlers.GetReceipt)
	protected.POST("/payments", paymentHandlers.CreatePayment, admin)
	protected.PUT("/payments/:id", paymentHandlers.UpdatePayment, admin)
	protected.DELETE("/payments/:id", paymentHandlers.DeletePayment, admin)

	// Document routes
	protected.GET("/documents", documentHandlers.ListDocuments)
	protected.POST("/documents", documentHandlers.UploadDocument)
	protected.GET("/documents/:id/download", documentHandlers.DownloadDocument)
	protected.DELETE("/documents/:id", documentHandlers.DeleteDocument)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Landledger server v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
