package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	_ "github.com/lib/pq"

	httpapi "driveshare-backend/internal/api/http"
	"driveshare-backend/internal/commission"
	"driveshare-backend/internal/config"
	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/payments"
	"driveshare-backend/internal/repository/postgres"
	"driveshare-backend/internal/security"
	"driveshare-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting DriveShare Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)
	authMiddleware := httpapi.NewAuthMiddleware(tokenManager)

	// Initialize payment processor
	provider, err := payments.NewStripeProvider(payments.StripeConfig{
		APIKey:                    cfg.Stripe.APIKey,
		SigningSecret:             cfg.Stripe.SigningSecret,
		InsecureSkipWebhookVerify: cfg.Stripe.InsecureSkipWebhookVerify,
	})
	if err != nil {
		logger.Error("Failed to initialize payment provider", "error", err)
		log.Fatalf("Failed to initialize payment provider: %v", err)
	}

	// Initialize Services
	emailSvc := service.NewEmailService(
		cfg.SendGrid.APIKey,
		cfg.SendGrid.FromEmail,
		cfg.SendGrid.FromName,
	)

	calc := commission.NewCalculator(cfg.CommissionRate(), cfg.CommissionFixedFee())

	paymentSvc := service.NewPaymentService(
		store,
		store.CarRepository,
		store.UserRepository,
		store.RentalRepository,
		store.PaymentRepository,
		store.OwnerProfileRepository,
		store.NotificationRepository,
		provider,
		calc,
		cfg.Stripe.Currency,
		emailSvc,
	)
	webhookSvc := service.NewWebhookService(
		store,
		provider,
		paymentSvc,
		store.RentalRepository,
		store.PaymentRepository,
		store.OwnerProfileRepository,
		store.WithdrawalRepository,
	)
	ledgerSvc := service.NewLedgerService(
		store,
		store.OwnerProfileRepository,
		store.PaymentRepository,
		store.WithdrawalRepository,
		store.UserRepository,
		provider,
		cfg.Stripe.Currency,
		emailSvc,
	)
	ownerSvc := service.NewOwnerService(
		store.OwnerProfileRepository,
		store.UserRepository,
		provider,
		cfg.Server.BaseURL,
	)
	carSvc := service.NewCarService(store.CarRepository)
	rentalSvc := service.NewRentalService(
		store.RentalRepository,
		store.CarRepository,
		store.NotificationRepository,
	)
	reviewSvc := service.NewReviewService(
		store.ReviewRepository,
		store.RentalRepository,
		store.CarRepository,
		store.UserRepository,
		store.NotificationRepository,
		emailSvc,
	)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// Initialize HTTP handlers and router
	router := httpapi.NewRouter(httpapi.Handlers{
		Payments:      httpapi.NewPaymentHandler(paymentSvc, webhookSvc),
		Owners:        httpapi.NewOwnerHandler(ledgerSvc, ownerSvc),
		Admin:         httpapi.NewAdminHandler(ledgerSvc),
		Cars:          httpapi.NewCarHandler(carSvc),
		Rentals:       httpapi.NewRentalHandler(rentalSvc),
		Reviews:       httpapi.NewReviewHandler(reviewSvc),
		Notifications: httpapi.NewNotificationHandler(noteSvc),
		Auth:          authMiddleware,
	})

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
