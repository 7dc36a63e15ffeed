// Package ledger loads the provider's transaction-history CSV export.
package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"revolut-sepa-converter/internal/domain"
	"revolut-sepa-converter/internal/normalize"
)

const (
	ColAmount      = "Amount"
	ColFee         = "Fee"
	ColBalance     = "Balance"
	ColReference   = "Reference"
	ColID          = "ID"
	ColDescription = "Description"
)

const utf8BOM = "\ufeff"

// StartedColumn is the value-date column header for the export's time zone.
func StartedColumn(zone string) string {
	return "Date started (" + zone + ")"
}

// CompletedColumn is the booking-date column header for the export's time zone.
func CompletedColumn(zone string) string {
	return "Date completed (" + zone + ")"
}

// Columns lists every header the loader requires.
func Columns(zone string) []string {
	return []string{
		ColAmount,
		ColFee,
		ColBalance,
		ColReference,
		ColID,
		ColDescription,
		StartedColumn(zone),
		CompletedColumn(zone),
	}
}

type Loader struct {
	zone string
	loc  *time.Location
}

// NewLoader creates a loader for exports whose date columns are qualified with zone.
func NewLoader(zone string, loc *time.Location) *Loader {
	return &Loader{zone: zone, loc: loc}
}

// LoadFile reads the export at path.
func (l *Loader) LoadFile(path string) ([]domain.TransactionRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open ledger: %w", domain.ErrIO, err)
	}
	defer f.Close()

	return l.Load(f)
}

// Load reads an export into rows, keeping the source's newest-first order.
func (l *Loader) Load(r io.Reader) ([]domain.TransactionRow, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: ledger has no header row", domain.ErrInputFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read ledger header: %w", domain.ErrInputFormat, err)
	}

	index, err := l.indexColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []domain.TransactionRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read ledger: %w", domain.ErrInputFormat, err)
		}
		line, _ := reader.FieldPos(0)

		row, err := l.parseRow(record, index, line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: unable to process empty statement", domain.ErrEmptyInput)
	}
	return rows, nil
}

func (l *Loader) indexColumns(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range Columns(l.zone) {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: ledger is missing required column(s) %q", domain.ErrInputFormat, missing)
	}
	return index, nil
}

func (l *Loader) parseRow(record []string, index map[string]int, line int) (domain.TransactionRow, error) {
	get := func(col string) string {
		return record[index[col]]
	}
	fieldErr := func(col string, err error) error {
		return fmt.Errorf("line %d, column %q: %w", line, col, err)
	}
	amount := func(col string) (decimal.Decimal, error) {
		v, err := normalize.ParseAmount(get(col))
		if err != nil {
			return decimal.Zero, fieldErr(col, err)
		}
		return v, nil
	}
	day := func(col string) (time.Time, error) {
		v, err := normalize.ParseDay(get(col), l.loc)
		if err != nil {
			return time.Time{}, fieldErr(col, err)
		}
		return v, nil
	}

	row := domain.TransactionRow{
		ID:          strings.TrimSpace(get(ColID)),
		Reference:   get(ColReference),
		Description: get(ColDescription),
		Line:        line,
	}
	if row.ID == "" {
		return row, fieldErr(ColID, fmt.Errorf("%w: empty transaction id", domain.ErrFieldParse))
	}

	var err error
	if row.Amount, err = amount(ColAmount); err != nil {
		return row, err
	}
	// Only the newest and oldest balances are read, so blanks are allowed here.
	if strings.TrimSpace(get(ColBalance)) != "" {
		balance, err := amount(ColBalance)
		if err != nil {
			return row, err
		}
		row.Balance = decimal.NewNullDecimal(balance)
	}
	// A blank fee means no fee was charged.
	if strings.TrimSpace(get(ColFee)) == "" {
		row.Fee = decimal.Zero
	} else if row.Fee, err = amount(ColFee); err != nil {
		return row, err
	}
	if row.Started, err = day(StartedColumn(l.zone)); err != nil {
		return row, err
	}
	if row.Completed, err = day(CompletedColumn(l.zone)); err != nil {
		return row, err
	}

	return row, nil
}
