// Package payments projects credit-transfer instructions into the provider's
// bulk-payment CSV.
package payments

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"revolut-sepa-converter/internal/domain"
	"revolut-sepa-converter/internal/normalize"
	"revolut-sepa-converter/internal/pain001"
)

const (
	RecipientIndividual = "Individual"
	RecipientCompany    = "Company"
)

// Header is the fixed first line of the payment-batch CSV.
var Header = []string{
	"Name",
	"Recipient type",
	"IBAN",
	"BIC",
	"Recipient bank country",
	"Currency",
	"Amount",
	"Payment reference",
}

type Row struct {
	Name          string
	RecipientType string
	IBAN          string
	BIC           string
	Country       string
	Currency      string
	Amount        string
	Reference     string
}

func (r Row) record() []string {
	return []string{r.Name, r.RecipientType, r.IBAN, r.BIC, r.Country, r.Currency, r.Amount, r.Reference}
}

type Mapper struct {
	personal map[string]struct{}
	log      *log.Logger
}

// NewMapper creates a mapper that classifies creditors whose IBAN is in
// personalIBANs as individuals. IBANs are compared upper-cased.
func NewMapper(personalIBANs []string, logger *log.Logger) *Mapper {
	personal := make(map[string]struct{}, len(personalIBANs))
	for _, iban := range personalIBANs {
		personal[strings.ToUpper(strings.TrimSpace(iban))] = struct{}{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Mapper{personal: personal, log: logger}
}

// Map emits one row per payment instruction. Only the first credit transfer of
// each instruction is used; the rest are dropped with a warning.
func (m *Mapper) Map(ccti *pain001.CustomerCreditTransferInitiationV03) ([]Row, error) {
	rows := make([]Row, 0, len(ccti.PmtInf))
	for i, pii := range ccti.PmtInf {
		if len(pii.CdtTrfTxInf) == 0 {
			return nil, fmt.Errorf("%w: payment instruction %d (%s) has no credit transfer",
				domain.ErrInputFormat, i+1, pii.PmtInfId)
		}
		if extra := len(pii.CdtTrfTxInf) - 1; extra > 0 {
			m.log.Warn("payment instruction has more than one credit transfer; only the first is exported",
				"pmt_inf_id", pii.PmtInfId, "dropped", extra)
		}

		row, err := m.mapTransfer(pii.CdtTrfTxInf[0])
		if err != nil {
			return nil, fmt.Errorf("payment instruction %d (%s): %w", i+1, pii.PmtInfId, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (m *Mapper) mapTransfer(ctti pain001.CreditTransferTransactionInformation10) (Row, error) {
	iban := strings.ToUpper(strings.TrimSpace(ctti.CdtrAcct.Id.IBAN))
	if len(iban) < 2 {
		return Row{}, fmt.Errorf("%w: creditor IBAN %q is too short", domain.ErrInputFormat, iban)
	}

	if ctti.RmtInf == nil || len(ctti.RmtInf.Strd) == 0 || ctti.RmtInf.Strd[0].CdtrRefInf == nil {
		return Row{}, fmt.Errorf("%w: structured remittance information with creditor reference is required", domain.ErrInputFormat)
	}
	if len(ctti.RmtInf.Strd) > 1 {
		m.log.Warn("credit transfer has more than one structured remittance block; only the first is exported",
			"end_to_end_id", ctti.PmtId.EndToEndId, "dropped", len(ctti.RmtInf.Strd)-1)
	}

	// The amount is validated, then exported as written.
	amount := strings.TrimSpace(ctti.Amt.InstdAmt.Value)
	if strings.Contains(amount, ",") {
		return Row{}, fmt.Errorf("%w: instructed amount %q has a grouping separator", domain.ErrFieldParse, amount)
	}
	if _, err := normalize.ParseAmount(amount); err != nil {
		return Row{}, fmt.Errorf("instructed amount: %w", err)
	}

	recipientType := RecipientCompany
	if _, ok := m.personal[iban]; ok {
		recipientType = RecipientIndividual
	}

	return Row{
		Name:          ctti.Cdtr.Nm,
		RecipientType: recipientType,
		IBAN:          iban,
		BIC:           ctti.CdtrAgt.FinInstnId.BIC,
		Country:       iban[:2],
		Currency:      ctti.Amt.InstdAmt.Ccy,
		Amount:        amount,
		Reference:     ctti.RmtInf.Strd[0].CdtrRefInf.Ref,
	}, nil
}

// WriteCSV writes the header and rows with RFC 4180 line endings.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("%w: failed to write csv header: %w", domain.ErrSerialization, err)
	}
	for _, r := range rows {
		if err := cw.Write(r.record()); err != nil {
			return fmt.Errorf("%w: failed to write csv row: %w", domain.ErrSerialization, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: failed to flush csv: %w", domain.ErrSerialization, err)
	}
	return nil
}

// ParseIBANList splits a comma-separated IBAN list, dropping blanks.
func ParseIBANList(list string) []string {
	var ibans []string
	for _, part := range strings.Split(list, ",") {
		if iban := strings.TrimSpace(part); iban != "" {
			ibans = append(ibans, iban)
		}
	}
	return ibans
}
