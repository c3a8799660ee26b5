package jobs

import (
	"context"
	"time"

	"partnerledger-backend/internal/config"
	"partnerledger-backend/internal/domain"
	"partnerledger-backend/internal/importer"
	"partnerledger-backend/internal/logger"
	"partnerledger-backend/internal/repository/postgres"
	"partnerledger-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	store    *postgres.Store
	services *Services
	config   *config.Config
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Validation service.ValidationService
	Importer   importer.Service
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(store *postgres.Store, services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		store:    store,
		services: services,
		config:   cfg,
	}
}

// Config exposes the runner's configuration to the scheduler.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAll runs every job once (for manual execution).
func (jr *JobRunner) RunAll() {
	jr.ValidateCompanyBalances()
	jr.RetryFailedImports()
}

// ValidateCompanyBalances reconciles each configured company's ledger
// balance against its real-money accounts and records the result. The
// validation itself is read-only; discrepancies are logged for review.
func (jr *JobRunner) ValidateCompanyBalances() {
	jr.runWithRecovery("ValidateCompanyBalances", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		for _, companyID := range jr.config.Scheduler.ValidatedCompanyIDs {
			scope := domain.Scope{CompanyID: companyID, Role: "system"}
			result, err := jr.services.Validation.Validate(ctx, scope)
			if err != nil {
				logger.Error("Scheduled balance validation failed", "company_id", companyID, "error", err)
				continue
			}
			if !result.IsValid {
				logger.Warn("Scheduled balance validation found discrepancy",
					"company_id", companyID, "difference", result.Difference)
			}
		}
	})
}

// RetryFailedImports re-runs failed batches that are flagged reprocessable.
// Fingerprint dedup keeps rows committed by earlier attempts from posting
// twice.
func (jr *JobRunner) RetryFailedImports() {
	jr.runWithRecovery("RetryFailedImports", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		batches, err := jr.store.ImportBatchRepository.ListReprocessable(ctx, 50)
		if err != nil {
			logger.Error("Failed to list reprocessable batches", "error", err)
			return
		}
		for _, batch := range batches {
			scope := domain.Scope{UserID: batch.InitiatedBy, CompanyID: batch.CompanyID, Role: "system"}
			if _, err := jr.services.Importer.Reprocess(ctx, scope, batch.ID); err != nil {
				logger.Error("Batch reprocess failed", "batch_id", batch.ID, "error", err)
			}
		}
	})
}
