package statement

import (
	"github.com/shopspring/decimal"

	"revolut-sepa-converter/internal/domain"
)

// Totals folds the entries into per-direction counts and sums. Entries with a
// negative signed amount are debits, all others (zero included) are credits.
func Totals(entries []domain.StatementEntry) domain.TotalsSummary {
	sum := domain.TotalsSummary{
		CreditSum: decimal.Zero,
		DebitSum:  decimal.Zero,
	}
	for _, e := range entries {
		if e.SignedAmount.IsNegative() {
			sum.DebitCount++
			sum.DebitSum = sum.DebitSum.Add(e.SignedAmount.Abs())
		} else {
			sum.CreditCount++
			sum.CreditSum = sum.CreditSum.Add(e.SignedAmount)
		}
	}
	return sum
}
