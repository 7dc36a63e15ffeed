// Package statement reconstructs a bank-to-customer statement from a
// newest-first transaction ledger.
package statement

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"revolut-sepa-converter/internal/domain"
	"revolut-sepa-converter/internal/normalize"
)

// Period is the span of the ledger: the oldest row's value date to the newest
// row's booking date.
type Period struct {
	Start time.Time
	End   time.Time
}

// SingleMonth reports whether start and end fall in the same calendar month.
func (p Period) SingleMonth() bool {
	return p.Start.Year() == p.End.Year() && p.Start.Month() == p.End.Month()
}

type Balances struct {
	Opening domain.Balance
	Closing domain.Balance
	Period  Period
}

// ReconstructBalances derives the opening and closing balances from the
// running-balance column. rows must be newest-first.
//
// The closing balance is the newest row's balance. The opening balance is
// what the account held before the oldest row posted: its balance minus its
// amount and fee.
func ReconstructBalances(rows []domain.TransactionRow, currency string) (Balances, error) {
	if len(rows) == 0 {
		return Balances{}, fmt.Errorf("%w: unable to process empty statement", domain.ErrEmptyInput)
	}
	newest := rows[0]
	oldest := rows[len(rows)-1]
	for _, r := range []domain.TransactionRow{newest, oldest} {
		if !r.Balance.Valid {
			return Balances{}, fmt.Errorf("line %d, column \"Balance\": %w: running balance is required on the newest and oldest rows",
				r.Line, domain.ErrFieldParse)
		}
	}

	period := Period{Start: oldest.Started, End: newest.Completed}

	openingAmount := oldest.Balance.Decimal.Sub(oldest.Amount.Add(oldest.Fee))
	closingAmount := newest.Balance.Decimal

	return Balances{
		Opening: domain.Balance{
			Type:      domain.OpeningBooked,
			Amount:    openingAmount,
			Currency:  currency,
			Direction: balanceDirection(openingAmount),
			Date:      normalize.LastDayOfPreviousMonth(period.Start),
		},
		Closing: domain.Balance{
			Type:      domain.ClosingBooked,
			Amount:    closingAmount,
			Currency:  currency,
			Direction: balanceDirection(closingAmount),
			Date:      normalize.LastDayOfMonth(period.End),
		},
		Period: period,
	}, nil
}

// A zero balance is reported as debit.
func balanceDirection(amount decimal.Decimal) domain.Direction {
	if amount.IsPositive() {
		return domain.Credit
	}
	return domain.Debit
}
