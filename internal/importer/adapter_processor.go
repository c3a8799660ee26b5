package importer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// processorExportAdapter parses payment-processor payout exports:
//
//	TransactionID,Date,Type,Gross,Fee,Currency
//
// Each line yields an income row for the gross amount and, when the fee is
// non-zero, a companion expense row so processor fees land in the ledger.
type processorExportAdapter struct{}

func (a *processorExportAdapter) Parse(payload []byte) ([]ParsedRow, error) {
	records, err := readCSV(payload)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("processor export is empty")
	}

	var rows []ParsedRow
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) < 6 {
			rows = append(rows, ParsedRow{Row: Row{Line: line},
				Err: fmt.Errorf("line %d: expected 6 columns, got %d", line, len(rec))})
			continue
		}
		ref := strings.TrimSpace(rec[0])
		date, err := parseDate(rec[1])
		if err != nil {
			rows = append(rows, ParsedRow{Row: Row{Line: line}, Err: fmt.Errorf("line %d: %w", line, err)})
			continue
		}
		gross, err := decimal.NewFromString(strings.TrimSpace(rec[3]))
		if err != nil {
			rows = append(rows, ParsedRow{Row: Row{Line: line},
				Err: fmt.Errorf("line %d: bad gross amount %q", line, rec[3])})
			continue
		}
		fee, err := decimal.NewFromString(strings.TrimSpace(rec[4]))
		if err != nil {
			rows = append(rows, ParsedRow{Row: Row{Line: line},
				Err: fmt.Errorf("line %d: bad fee %q", line, rec[4])})
			continue
		}
		currency := strings.ToUpper(strings.TrimSpace(rec[5]))
		kind := strings.ToLower(strings.TrimSpace(rec[2]))

		amount := gross
		if kind == "refund" || kind == "chargeback" {
			amount = gross.Abs().Neg()
		}
		rows = append(rows, ParsedRow{Row: Row{
			Line:         line,
			Date:         date,
			Amount:       amount,
			Currency:     currency,
			Description:  fmt.Sprintf("processor %s %s", kind, ref),
			ExternalRef:  ref,
			CategoryHint: kind,
		}})
		if !fee.IsZero() {
			rows = append(rows, ParsedRow{Row: Row{
				Line:         line,
				Date:         date,
				Amount:       fee.Abs().Neg(),
				Currency:     currency,
				Description:  fmt.Sprintf("processor fee for %s", ref),
				ExternalRef:  ref + ":fee",
				CategoryHint: "fee",
			}})
		}
	}
	return rows, nil
}
