// Package money implements fixed-point monetary arithmetic and
// currency-aware validation for the ledger. All amounts are
// shopspring decimals; binary floating point never enters an
// aggregation path.
package money

import (
	"fmt"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"partnerledger-backend/internal/domain"
)

// ReportingScale is the fractional precision of every reporting-currency
// amount. Conversion results are rounded half-up to this scale once, at
// transaction creation, and never recomputed.
const ReportingScale = 2

// Convert computes the reporting-currency amount for a native amount and
// exchange rate, rounded half-up (half away from zero) to two decimal places.
func Convert(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(ReportingScale)
}

// RequireValidRate validates the exchange rate for a transaction currency
// against the reporting currency. A reporting-currency transaction always
// gets rate 1 regardless of input; any other currency needs a positive rate.
func RequireValidRate(currency, reportingCurrency string, rate decimal.Decimal) (decimal.Decimal, error) {
	if currency == reportingCurrency {
		return decimal.NewFromInt(1), nil
	}
	if !rate.IsPositive() {
		return decimal.Decimal{}, &domain.InvalidExchangeRateError{Currency: currency, Rate: rate}
	}
	return rate, nil
}

// Precision returns a currency's natural fraction digits (0 for JPY, 3 for
// BHD) from the go-money currency table. Unknown codes fall back to 2.
func Precision(code string) int32 {
	cur := gomoney.GetCurrency(code)
	if cur == nil {
		return 2
	}
	return int32(cur.Fraction)
}

// ValidatePrecision rejects amounts carrying more fractional digits than the
// currency supports.
func ValidatePrecision(amount decimal.Decimal, currency string) error {
	p := Precision(currency)
	if amount.Round(p).Equal(amount) {
		return nil
	}
	return fmt.Errorf("amount %s has more than %d fractional digits for %s", amount, p, currency)
}

// Sum accumulates decimals without intermediate rounding.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
