package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// bankExportAdapter parses the common bank statement layout:
//
//	Date,Description,Amount,Currency,Reference
//
// with a header line and signed amounts (debits negative).
type bankExportAdapter struct{}

func (a *bankExportAdapter) Parse(payload []byte) ([]ParsedRow, error) {
	records, err := readCSV(payload)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("bank export is empty")
	}

	var rows []ParsedRow
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) < 5 {
			rows = append(rows, ParsedRow{Row: Row{Line: line},
				Err: fmt.Errorf("line %d: expected 5 columns, got %d", line, len(rec))})
			continue
		}
		date, err := parseDate(rec[0])
		if err != nil {
			rows = append(rows, ParsedRow{Row: Row{Line: line}, Err: fmt.Errorf("line %d: %w", line, err)})
			continue
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(rec[2]))
		if err != nil {
			rows = append(rows, ParsedRow{Row: Row{Line: line},
				Err: fmt.Errorf("line %d: bad amount %q", line, rec[2])})
			continue
		}
		rows = append(rows, ParsedRow{Row: Row{
			Line:        line,
			Date:        date,
			Amount:      amount,
			Currency:    strings.ToUpper(strings.TrimSpace(rec[3])),
			Description: strings.TrimSpace(rec[1]),
			ExternalRef: strings.TrimSpace(rec[4]),
		}})
	}
	return rows, nil
}

func readCSV(payload []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(payload))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unreadable source: %w", err)
	}
	return records, nil
}

var dateLayouts = []string{"2006-01-02", "01/02/2006", "02.01.2006", time.RFC3339}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("bad date %q", s)
}
