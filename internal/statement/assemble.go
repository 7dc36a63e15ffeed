package statement

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"revolut-sepa-converter/internal/domain"
	"revolut-sepa-converter/internal/normalize"
)

const (
	messageIDPrefix   = "MSGSTMT"
	statementIDPrefix = "REVOLUTSTMT"
)

type Options struct {
	Currency string
	Location *time.Location
	// Now supplies the creation timestamp; time.Now when nil.
	Now func() time.Time
	// StrictPeriod rejects ledgers whose period spans more than one month
	// instead of logging a warning.
	StrictPeriod bool
	Logger       *log.Logger
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}

// Assemble builds the statement for rows, which must be newest-first.
func Assemble(rows []domain.TransactionRow, account domain.Account, opts Options) (*domain.Statement, error) {
	logger := opts.logger()
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	balances, err := ReconstructBalances(rows, opts.Currency)
	if err != nil {
		return nil, err
	}

	period := balances.Period
	if !period.SingleMonth() {
		if opts.StrictPeriod {
			return nil, fmt.Errorf("%w: %s to %s", domain.ErrPeriodSpansMonths,
				normalize.FormatDate(period.Start), normalize.FormatDate(period.End))
		}
		logger.Warn("ledger spans more than one month; statement id follows the start month",
			"start", normalize.FormatDate(period.Start),
			"end", normalize.FormatDate(period.End))
	}

	seq, err := normalize.YearMonth(period.Start)
	if err != nil {
		return nil, err
	}

	entries := MapEntries(rows, opts.Currency)
	totals := Totals(entries)
	created := opts.now().In(loc)

	stmt := &domain.Statement{
		MessageID:      MessageID(created),
		ID:             fmt.Sprintf("%s%d/%d-%s", statementIDPrefix, int(period.Start.Month()), period.Start.Year(), opts.Currency),
		LegalSeqNumber: seq,
		CreatedAt:      created,
		Currency:       opts.Currency,
		PeriodStart:    period.Start,
		PeriodEnd:      period.End,
		Account:        account,
		Opening:        balances.Opening,
		Closing:        balances.Closing,
		Entries:        entries,
		Totals:         totals,
	}

	logger.Debug("statement assembled",
		"id", stmt.ID,
		"entries", len(entries),
		"opening", balances.Opening.Amount.String(),
		"closing", balances.Closing.Amount.String())

	return stmt, nil
}

// MessageID is the group-header message id for a statement created at t.
func MessageID(t time.Time) string {
	return fmt.Sprintf("%s%s%03d", messageIDPrefix, t.Format("20060102150405"), t.Nanosecond()/int(time.Millisecond))
}
