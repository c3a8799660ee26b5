package importer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// genericCSVAdapter parses the neutral interchange layout used for manual
// bulk entry:
//
//	Date,Amount,Currency,ExchangeRate,Category,Description,Reference
//
// ExchangeRate may be empty for reporting-currency rows.
type genericCSVAdapter struct{}

func (a *genericCSVAdapter) Parse(payload []byte) ([]ParsedRow, error) {
	records, err := readCSV(payload)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv source is empty")
	}

	var rows []ParsedRow
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) < 7 {
			rows = append(rows, ParsedRow{Row: Row{Line: line},
				Err: fmt.Errorf("line %d: expected 7 columns, got %d", line, len(rec))})
			continue
		}
		date, err := parseDate(rec[0])
		if err != nil {
			rows = append(rows, ParsedRow{Row: Row{Line: line}, Err: fmt.Errorf("line %d: %w", line, err)})
			continue
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(rec[1]))
		if err != nil {
			rows = append(rows, ParsedRow{Row: Row{Line: line},
				Err: fmt.Errorf("line %d: bad amount %q", line, rec[1])})
			continue
		}
		var rate decimal.Decimal
		if raw := strings.TrimSpace(rec[3]); raw != "" {
			rate, err = decimal.NewFromString(raw)
			if err != nil {
				rows = append(rows, ParsedRow{Row: Row{Line: line},
					Err: fmt.Errorf("line %d: bad exchange rate %q", line, rec[3])})
				continue
			}
		}
		rows = append(rows, ParsedRow{Row: Row{
			Line:         line,
			Date:         date,
			Amount:       amount,
			Currency:     strings.ToUpper(strings.TrimSpace(rec[2])),
			ExchangeRate: rate,
			CategoryHint: strings.TrimSpace(rec[4]),
			Description:  strings.TrimSpace(rec[5]),
			ExternalRef:  strings.TrimSpace(rec[6]),
		}})
	}
	return rows, nil
}
