// Package importer ingests bulk transaction batches from external sources.
// Source adapters normalize heterogeneous formats into a shared row shape;
// the pipeline validates and commits rows independently so one bad row
// never aborts a batch.
package importer

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"partnerledger-backend/internal/domain"
)

// Row is the normalized form every adapter produces. Amount keeps the
// source's sign: positive is money in, negative is money out.
type Row struct {
	Line         int // 1-based position in the source, for error reporting
	Date         time.Time
	Amount       decimal.Decimal
	Currency     string
	ExchangeRate decimal.Decimal // zero when the source supplies none
	Description  string
	ExternalRef  string
	CategoryHint string
}

// SourceAdapter parses one external format into normalized rows. Parse
// returning an error is a batch-level fault; per-row problems are reported
// through the Err field of ParsedRow instead.
type SourceAdapter interface {
	Parse(payload []byte) ([]ParsedRow, error)
}

// ParsedRow is either a usable row or a row-level parse failure.
type ParsedRow struct {
	Row Row
	Err error
}

// ForSource returns the adapter for a batch's source type.
func ForSource(source domain.ImportSourceType) (SourceAdapter, error) {
	switch source {
	case domain.SourceBankExport:
		return &bankExportAdapter{}, nil
	case domain.SourceProcessorExport:
		return &processorExportAdapter{}, nil
	case domain.SourceGenericCSV:
		return &genericCSVAdapter{}, nil
	}
	return nil, fmt.Errorf("no adapter for source type %q", source)
}
