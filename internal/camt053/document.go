// Package camt053 holds the camt.053.001.02 bank-to-customer statement wire
// types and their XML encoding.
package camt053

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"time"

	"revolut-sepa-converter/internal/domain"
	"revolut-sepa-converter/internal/normalize"
)

const Namespace = "urn:iso:std:iso:20022:tech:xsd:camt.053.001.02"

const dateTimeLayout = "2006-01-02T15:04:05.000Z07:00"

type Document struct {
	XMLName       xml.Name                   `xml:"urn:iso:std:iso:20022:tech:xsd:camt.053.001.02 Document"`
	BkToCstmrStmt BankToCustomerStatementV02 `xml:"BkToCstmrStmt"`
}

type BankToCustomerStatementV02 struct {
	GrpHdr GroupHeader42       `xml:"GrpHdr"`
	Stmt   []AccountStatement2 `xml:"Stmt"`
}

type GroupHeader42 struct {
	MsgId   string `xml:"MsgId"`
	CreDtTm string `xml:"CreDtTm"`
}

type AccountStatement2 struct {
	Id        string              `xml:"Id"`
	LglSeqNb  string              `xml:"LglSeqNb"`
	CreDtTm   string              `xml:"CreDtTm"`
	Acct      CashAccount20       `xml:"Acct"`
	Bal       []CashBalance3      `xml:"Bal"`
	TxsSummry *TotalTransactions2 `xml:"TxsSummry,omitempty"`
	Ntry      []ReportEntry2      `xml:"Ntry"`
}

type CashAccount20 struct {
	Id   AccountIdentification4Choice                  `xml:"Id"`
	Ownr *PartyIdentification32                        `xml:"Ownr,omitempty"`
	Svcr *BranchAndFinancialInstitutionIdentification4 `xml:"Svcr,omitempty"`
}

type AccountIdentification4Choice struct {
	IBAN string `xml:"IBAN"`
}

type PartyIdentification32 struct {
	Nm      string          `xml:"Nm,omitempty"`
	PstlAdr *PostalAddress6 `xml:"PstlAdr,omitempty"`
}

type PostalAddress6 struct {
	Ctry    string   `xml:"Ctry,omitempty"`
	AdrLine []string `xml:"AdrLine,omitempty"`
}

type BranchAndFinancialInstitutionIdentification4 struct {
	FinInstnId FinancialInstitutionIdentification7 `xml:"FinInstnId"`
}

type FinancialInstitutionIdentification7 struct {
	BIC     string          `xml:"BIC,omitempty"`
	Nm      string          `xml:"Nm,omitempty"`
	PstlAdr *PostalAddress6 `xml:"PstlAdr,omitempty"`
}

type CashBalance3 struct {
	Tp        BalanceType12                     `xml:"Tp"`
	Amt       ActiveOrHistoricCurrencyAndAmount `xml:"Amt"`
	CdtDbtInd string                            `xml:"CdtDbtInd"`
	Dt        DateAndDateTimeChoice             `xml:"Dt"`
}

type BalanceType12 struct {
	CdOrPrtry BalanceType5Choice `xml:"CdOrPrtry"`
}

// BalanceType5Choice carries exactly one of Cd or Prtry.
type BalanceType5Choice struct {
	Cd    string `xml:"Cd,omitempty"`
	Prtry string `xml:"Prtry,omitempty"`
}

func BalanceCode(code string) BalanceType5Choice {
	return BalanceType5Choice{Cd: code}
}

func BalanceProprietary(p string) BalanceType5Choice {
	return BalanceType5Choice{Prtry: p}
}

// DateAndDateTimeChoice carries exactly one of Dt or DtTm.
type DateAndDateTimeChoice struct {
	Dt   string `xml:"Dt,omitempty"`
	DtTm string `xml:"DtTm,omitempty"`
}

func OnDate(t time.Time) DateAndDateTimeChoice {
	return DateAndDateTimeChoice{Dt: normalize.FormatDate(t)}
}

func AtDateTime(t time.Time) DateAndDateTimeChoice {
	return DateAndDateTimeChoice{DtTm: t.Format(dateTimeLayout)}
}

type ActiveOrHistoricCurrencyAndAmount struct {
	Ccy   string `xml:"Ccy,attr"`
	Value string `xml:",chardata"`
}

type TotalTransactions2 struct {
	TtlCdtNtries NumberAndSumOfTransactions1 `xml:"TtlCdtNtries"`
	TtlDbtNtries NumberAndSumOfTransactions1 `xml:"TtlDbtNtries"`
}

type NumberAndSumOfTransactions1 struct {
	NbOfNtries string `xml:"NbOfNtries"`
	Sum        string `xml:"Sum"`
}

type ReportEntry2 struct {
	NtryRef     string                            `xml:"NtryRef,omitempty"`
	Amt         ActiveOrHistoricCurrencyAndAmount `xml:"Amt"`
	CdtDbtInd   string                            `xml:"CdtDbtInd"`
	Sts         string                            `xml:"Sts"`
	BookgDt     DateAndDateTimeChoice             `xml:"BookgDt"`
	ValDt       DateAndDateTimeChoice             `xml:"ValDt"`
	AcctSvcrRef string                            `xml:"AcctSvcrRef,omitempty"`
	BkTxCd      BankTransactionCodeStructure4     `xml:"BkTxCd"`
	NtryDtls    []EntryDetails1                   `xml:"NtryDtls"`
}

type BankTransactionCodeStructure4 struct {
	Prtry ProprietaryBankTransactionCodeStructure1 `xml:"Prtry"`
}

type ProprietaryBankTransactionCodeStructure1 struct {
	Cd string `xml:"Cd"`
}

type EntryDetails1 struct {
	TxDtls []EntryTransaction2 `xml:"TxDtls"`
}

type EntryTransaction2 struct {
	Refs   TransactionReferences2  `xml:"Refs"`
	RmtInf *RemittanceInformation5 `xml:"RmtInf,omitempty"`
}

type TransactionReferences2 struct {
	EndToEndId string `xml:"EndToEndId"`
	TxId       string `xml:"TxId"`
}

type RemittanceInformation5 struct {
	Ustrd []string `xml:"Ustrd"`
}

// FromStatement converts an assembled statement into its wire document.
func FromStatement(s *domain.Statement) *Document {
	stmt := AccountStatement2{
		Id:       s.ID,
		LglSeqNb: strconv.FormatInt(s.LegalSeqNumber, 10),
		CreDtTm:  s.CreatedAt.Format(dateTimeLayout),
		Acct:     cashAccount(s.Account),
		TxsSummry: &TotalTransactions2{
			TtlCdtNtries: NumberAndSumOfTransactions1{
				NbOfNtries: strconv.Itoa(s.Totals.CreditCount),
				Sum:        normalize.FormatAmount(s.Totals.CreditSum),
			},
			TtlDbtNtries: NumberAndSumOfTransactions1{
				NbOfNtries: strconv.Itoa(s.Totals.DebitCount),
				Sum:        normalize.FormatAmount(s.Totals.DebitSum),
			},
		},
	}

	for _, b := range s.Balances() {
		stmt.Bal = append(stmt.Bal, CashBalance3{
			Tp: BalanceType12{CdOrPrtry: BalanceCode(b.Type.Code())},
			Amt: ActiveOrHistoricCurrencyAndAmount{
				Ccy:   b.Currency,
				Value: normalize.FormatAmount(b.Amount.Abs()),
			},
			CdtDbtInd: b.Direction.Code(),
			Dt:        OnDate(b.Date),
		})
	}

	for _, e := range s.Entries {
		stmt.Ntry = append(stmt.Ntry, reportEntry(e))
	}

	return &Document{
		BkToCstmrStmt: BankToCustomerStatementV02{
			GrpHdr: GroupHeader42{
				MsgId:   s.MessageID,
				CreDtTm: s.CreatedAt.Format(dateTimeLayout),
			},
			Stmt: []AccountStatement2{stmt},
		},
	}
}

func cashAccount(a domain.Account) CashAccount20 {
	return CashAccount20{
		Id: AccountIdentification4Choice{IBAN: a.IBAN},
		Ownr: &PartyIdentification32{
			Nm: a.Owner.Name,
			PstlAdr: &PostalAddress6{
				Ctry:    a.Owner.Address.Country,
				AdrLine: a.Owner.Address.Lines,
			},
		},
		Svcr: &BranchAndFinancialInstitutionIdentification4{
			FinInstnId: FinancialInstitutionIdentification7{
				BIC:     a.Servicer.BIC,
				Nm:      a.Servicer.Name,
				PstlAdr: &PostalAddress6{Ctry: a.Servicer.Country},
			},
		},
	}
}

func reportEntry(e domain.StatementEntry) ReportEntry2 {
	tx := EntryTransaction2{
		Refs: TransactionReferences2{
			EndToEndId: e.EndToEndID,
			TxId:       e.TxCode,
		},
	}
	if e.Remittance != nil {
		tx.RmtInf = &RemittanceInformation5{Ustrd: []string{e.Remittance.Unstructured}}
	}

	return ReportEntry2{
		NtryRef: e.EntryRef,
		Amt: ActiveOrHistoricCurrencyAndAmount{
			Ccy:   e.Currency,
			Value: normalize.FormatAmount(e.Amount),
		},
		CdtDbtInd:   e.Direction.Code(),
		Sts:         e.Status(),
		BookgDt:     OnDate(e.BookingDate),
		ValDt:       OnDate(e.ValueDate),
		AcctSvcrRef: e.AcctSvcrRef,
		BkTxCd: BankTransactionCodeStructure4{
			Prtry: ProprietaryBankTransactionCodeStructure1{Cd: e.TxCode},
		},
		NtryDtls: []EntryDetails1{{TxDtls: []EntryTransaction2{tx}}},
	}
}

// Encode writes the statement as indented UTF-8 XML.
func Encode(w io.Writer, s *domain.Statement) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("%w: failed to write xml header: %w", domain.ErrSerialization, err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(FromStatement(s)); err != nil {
		return fmt.Errorf("%w: failed to encode statement: %w", domain.ErrSerialization, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: failed to flush statement: %w", domain.ErrSerialization, err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("%w: failed to write statement: %w", domain.ErrSerialization, err)
	}
	return nil
}
