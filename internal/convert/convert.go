// Package convert runs the two conversions end to end: read, transform, and
// write the result atomically.
package convert

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"revolut-sepa-converter/internal/camt053"
	"revolut-sepa-converter/internal/domain"
	"revolut-sepa-converter/internal/ledger"
	"revolut-sepa-converter/internal/output"
	"revolut-sepa-converter/internal/pain001"
	"revolut-sepa-converter/internal/payments"
	"revolut-sepa-converter/internal/settings"
	"revolut-sepa-converter/internal/statement"
)

type Converter struct {
	settings settings.Settings
	log      *log.Logger
	now      func() time.Time
}

type Option func(*Converter)

// WithClock overrides the clock used for statement creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) { c.now = now }
}

func New(s settings.Settings, logger *log.Logger, opts ...Option) *Converter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := &Converter{settings: s, log: logger, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatementResult summarises a written statement.
type StatementResult struct {
	Path    string
	ID      string
	Entries int
	Opening domain.Balance
	Closing domain.Balance
}

// Statement converts the ledger export at src into a camt.053 statement at dst.
func (c *Converter) Statement(ctx context.Context, src, dst string) (*StatementResult, error) {
	logger := c.log.With("run_id", uuid.NewString(), "source", src)

	if err := c.settings.Validate(); err != nil {
		return nil, err
	}
	loc, err := c.settings.Location()
	if err != nil {
		return nil, err
	}

	logger.Info("loading ledger", "zone", c.settings.TimeZone)
	rows, err := ledger.NewLoader(c.settings.TimeZone, loc).LoadFile(src)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	logger.Debug("ledger loaded", "rows", len(rows))

	stmt, err := statement.Assemble(rows, c.settings.Account(), statement.Options{
		Currency:     c.settings.Currency,
		Location:     loc,
		Now:          c.now,
		StrictPeriod: c.settings.StrictPeriod,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assemble statement: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	err = output.WriteAtomic(dst, func(w io.Writer) error {
		return camt053.Encode(w, stmt)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write statement: %w", err)
	}

	logger.Info("statement written",
		"path", dst,
		"id", stmt.ID,
		"entries", len(stmt.Entries))

	return &StatementResult{
		Path:    dst,
		ID:      stmt.ID,
		Entries: len(stmt.Entries),
		Opening: stmt.Opening,
		Closing: stmt.Closing,
	}, nil
}

// PaymentsResult summarises a written payment batch.
type PaymentsResult struct {
	Path string
	Rows int
}

// Payments converts the pain.001 document at src into a payment-batch CSV at dst.
func (c *Converter) Payments(ctx context.Context, src, dst string) (*PaymentsResult, error) {
	logger := c.log.With("run_id", uuid.NewString(), "source", src)

	if err := c.settings.ValidatePayments(); err != nil {
		return nil, err
	}

	logger.Info("reading payment instructions")
	ccti, err := pain001.DecodeFile(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read payment instructions: %w", err)
	}

	rows, err := payments.NewMapper(c.settings.PersonalIBANs, logger).Map(ccti)
	if err != nil {
		return nil, fmt.Errorf("failed to map payments: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	err = output.WriteAtomic(dst, func(w io.Writer) error {
		return payments.WriteCSV(w, rows)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write payment batch: %w", err)
	}

	logger.Info("payment batch written", "path", dst, "rows", len(rows))

	return &PaymentsResult{Path: dst, Rows: len(rows)}, nil
}
