package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"driveshare-backend/internal/config"
	"driveshare-backend/internal/jobs"
	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/payments"
	"driveshare-backend/internal/repository/postgres"
	"driveshare-backend/internal/scheduler"
	"driveshare-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'reconcile-balances', 'refresh-accounts', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting DriveShare Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	jobServices := &jobs.Services{
		Ledger: ledgerSvc,
		Owner:  ownerSvc,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(store, jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	cronScheduler.Stop()
}

func runJobOnce(jobRunner *jobs.JobRunner, job string) {
	switch job {
	case "reconcile-balances":
		jobRunner.ReconcileOwnerBalances()
	case "refresh-accounts":
		jobRunner.RefreshStaleAccounts()
	case "all":
		jobRunner.RunAllJobs()
	default:
		logger.Error("Unknown job", "job", job)
		os.Exit(1)
	}
}
