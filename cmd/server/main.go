package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	httpapi "partnerledger-backend/internal/api/http"
	"partnerledger-backend/internal/config"
	"partnerledger-backend/internal/importer"
	"partnerledger-backend/internal/jobs"
	"partnerledger-backend/internal/logger"
	"partnerledger-backend/internal/repository/postgres"
	"partnerledger-backend/internal/scheduler"
	"partnerledger-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	withScheduler := flag.Bool("scheduler", false, "Run the cron scheduler inside the server process")
	flag.Parse()

	// Optional .env for local development; environment wins over the file
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Partner Ledger Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Ledger configuration", "reporting_currency", cfg.Ledger.ReportingCurrency, "validation_tolerance", cfg.Ledger.ValidationTolerance)

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

	// Initialize Services
	ledgerSvc := service.NewLedgerService(
		store.TransactionRepository,
		store.StoreRepository,
		cfg.Ledger.ReportingCurrency,
	)
	balanceSvc := service.NewBalanceService(store.TransactionRepository, store.StoreRepository)
	partnershipSvc := service.NewPartnershipService(
		store.PartnershipRepository,
		store.SettlementRepository,
		store.StoreRepository,
		balanceSvc,
		cfg.Ledger.ReportingCurrency,
	)
	settlementSvc := service.NewSettlementService(
		store.SettlementRepository,
		store.PartnershipRepository,
		store.StoreRepository,
		cfg.Ledger.ReportingCurrency,
	)
	validationSvc := service.NewValidationService(
		store.AccountRepository,
		store.ValidationRunRepository,
		balanceSvc,
		ledgerSvc,
		cfg.Ledger.ReportingCurrency,
		cfg.Tolerance(),
	)
	importSvc := importer.NewService(
		store.ImportBatchRepository,
		store.StoreRepository,
		ledgerSvc,
		cfg.Import.MaxBatchRows,
	)

	// Initialize HTTP handlers
	router := httpapi.NewRouter(httpapi.Handlers{
		Transactions: httpapi.NewTransactionHandler(ledgerSvc, balanceSvc),
		Partnerships: httpapi.NewPartnershipHandler(partnershipSvc),
		Settlements:  httpapi.NewSettlementHandler(settlementSvc),
		Validation:   httpapi.NewValidationHandler(validationSvc),
		Imports:      httpapi.NewImportHandler(importSvc),
	})

	// Optionally run scheduled jobs in-process (single-binary deployments)
	if *withScheduler {
		jobRunner := jobs.NewJobRunner(store, &jobs.Services{
			Validation: validationSvc,
			Importer:   importSvc,
		}, cfg)
		cronScheduler := scheduler.NewScheduler(jobRunner)
		cronScheduler.Start()
		defer cronScheduler.Stop()
	}

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
