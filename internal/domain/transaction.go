package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Direction int

const (
	Credit Direction = iota
	Debit
)

// Code returns the ISO20022 CreditDebitCode for the direction.
func (d Direction) Code() string {
	if d == Debit {
		return "DBIT"
	}
	return "CRDT"
}

func (d Direction) String() string {
	return d.Code()
}

// TransactionRow is one line of the provider's transaction export.
type TransactionRow struct {
	ID          string
	Amount      decimal.Decimal
	Fee         decimal.Decimal
	Balance     decimal.NullDecimal // running balance after posting; may be blank
	Started     time.Time           // value date, start of day in the export's zone
	Completed   time.Time           // booking date, start of day in the export's zone
	Reference   string
	Description string
	// Line is the 1-based line in the source file, for error messages.
	Line int
}

type BalanceType int

const (
	OpeningBooked BalanceType = iota
	ClosingBooked
)

// Code returns the ISO20022 BalanceType12Code.
func (t BalanceType) Code() string {
	if t == ClosingBooked {
		return "CLBD"
	}
	return "OPBD"
}

type Balance struct {
	Type      BalanceType
	Amount    decimal.Decimal // signed
	Currency  string
	Direction Direction
	Date      time.Time
}

// Remittance holds unstructured remittance text. A nil *Remittance means none.
type Remittance struct {
	Unstructured string
}

type StatementEntry struct {
	Amount       decimal.Decimal // absolute value
	SignedAmount decimal.Decimal
	Currency     string
	Direction    Direction
	BookingDate  time.Time
	ValueDate    time.Time
	EntryRef     string // empty when the source reference is blank
	AcctSvcrRef  string
	TxCode       string
	EndToEndID   string
	Remittance   *Remittance
}

// Status is always booked for reconstructed statements.
func (StatementEntry) Status() string {
	return "BOOK"
}

type TotalsSummary struct {
	CreditCount int
	CreditSum   decimal.Decimal
	DebitCount  int
	DebitSum    decimal.Decimal
}

// EntryCount is the number of entries the summary was folded from.
func (t TotalsSummary) EntryCount() int {
	return t.CreditCount + t.DebitCount
}

type PostalAddress struct {
	Country string
	Lines   []string
}

type Party struct {
	Name    string
	Address PostalAddress
}

type Branch struct {
	BIC     string
	Name    string
	Country string
}

type Account struct {
	IBAN     string
	Owner    Party
	Servicer Branch
}

type Statement struct {
	MessageID      string
	ID             string
	LegalSeqNumber int64
	CreatedAt      time.Time
	Currency       string
	PeriodStart    time.Time
	PeriodEnd      time.Time
	Account        Account
	Opening        Balance
	Closing        Balance
	Entries        []StatementEntry
	Totals         TotalsSummary
}

// Balances returns the opening and closing balances in document order.
func (s *Statement) Balances() []Balance {
	return []Balance{s.Opening, s.Closing}
}
