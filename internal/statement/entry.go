package statement

import (
	"strings"

	"revolut-sepa-converter/internal/domain"
)

const (
	max35Text  = 35
	max140Text = 140

	// EndToEndNotProvided is the placeholder end-to-end id for every entry.
	EndToEndNotProvided = "NOTPROVIDED"
)

// MapEntry converts one ledger row into a booked statement entry.
func MapEntry(row domain.TransactionRow, currency string) domain.StatementEntry {
	entry := domain.StatementEntry{
		Amount:       row.Amount.Abs(),
		SignedAmount: row.Amount,
		Currency:     currency,
		Direction:    entryDirection(row),
		BookingDate:  row.Completed,
		ValueDate:    row.Started,
		TxCode:       TransactionCode(row.ID),
		EndToEndID:   EndToEndNotProvided,
	}

	if !isBlank(row.Reference) {
		ref := truncate(row.Reference, max35Text)
		entry.EntryRef = ref
		entry.AcctSvcrRef = ref
	}

	if !isBlank(row.Description) {
		entry.Remittance = &domain.Remittance{
			Unstructured: truncate(row.Description, max140Text),
		}
	}

	return entry
}

// MapEntries maps every row, preserving order.
func MapEntries(rows []domain.TransactionRow, currency string) []domain.StatementEntry {
	entries := make([]domain.StatementEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, MapEntry(row, currency))
	}
	return entries
}

// TransactionCode strips dashes from the provider id so it fits Max35Text.
func TransactionCode(id string) string {
	return strings.ReplaceAll(id, "-", "")
}

// A zero amount is reported as credit.
func entryDirection(row domain.TransactionRow) domain.Direction {
	if row.Amount.IsNegative() {
		return domain.Debit
	}
	return domain.Credit
}

// truncate keeps text of up to limit characters as is; longer text is cut to
// limit-1 characters.
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) > limit {
		return string(runes[:limit-1])
	}
	return text
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
