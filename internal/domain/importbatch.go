package domain

import (
	"time"

	"github.com/google/uuid"
)

type ImportSourceType string

const (
	SourceBankExport      ImportSourceType = "BANK_EXPORT"
	SourceProcessorExport ImportSourceType = "PROCESSOR_EXPORT"
	SourceGenericCSV      ImportSourceType = "GENERIC_CSV"
)

type ImportType string

const (
	ImportTypeFile   ImportType = "FILE"
	ImportTypeAPI    ImportType = "API"
	ImportTypeManual ImportType = "MANUAL"
)

type ImportBatchStatus string

const (
	BatchStatusPending    ImportBatchStatus = "PENDING"
	BatchStatusProcessing ImportBatchStatus = "PROCESSING"
	BatchStatusCompleted  ImportBatchStatus = "COMPLETED"
	BatchStatusFailed     ImportBatchStatus = "FAILED"
	BatchStatusCancelled  ImportBatchStatus = "CANCELLED"
)

// RowError records a single failed row without aborting its batch.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportBatch tracks one bulk ingestion run. Partial success is still a
// COMPLETED batch; FAILED is reserved for batch-level faults such as an
// unreadable source.
type ImportBatch struct {
	ID                uuid.UUID         `json:"id"`
	CompanyID         int64             `json:"company_id"`
	StoreID           int64             `json:"store_id"`
	SourceType        ImportSourceType  `json:"source_type"`
	ImportType        ImportType        `json:"import_type"`
	FileName          string            `json:"file_name,omitempty"`
	FileSize          int64             `json:"file_size,omitempty"`
	Status            ImportBatchStatus `json:"status"`
	TotalRecords      int32             `json:"total_records"`
	SuccessfulRecords int32             `json:"successful_records"`
	FailedRecords     int32             `json:"failed_records"`
	DuplicateRecords  int32             `json:"duplicate_records"`
	ErrorDetail       string            `json:"error_detail,omitempty"`
	RowErrors         []RowError        `json:"row_errors,omitempty"` // JSONB stored column
	NeedsReview       bool              `json:"needs_review"`
	Reprocessable     bool              `json:"reprocessable"`
	Payload           []byte            `json:"-"` // original source bytes, kept for reprocessing
	InitiatedBy       int64             `json:"initiated_by"`
	StartedAt         *time.Time        `json:"started_at,omitempty"`
	CompletedAt       *time.Time        `json:"completed_at,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// Terminal reports whether the batch has reached a final state.
func (b *ImportBatch) Terminal() bool {
	switch b.Status {
	case BatchStatusCompleted, BatchStatusFailed, BatchStatusCancelled:
		return true
	}
	return false
}
