// Package pain001 decodes pain.001.001.03 customer credit-transfer initiation
// documents.
package pain001

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"revolut-sepa-converter/internal/domain"
)

const Namespace = "urn:iso:std:iso:20022:tech:xsd:pain.001.001.03"

type Document struct {
	XMLName          xml.Name                             `xml:"Document"`
	CstmrCdtTrfInitn *CustomerCreditTransferInitiationV03 `xml:"CstmrCdtTrfInitn"`
}

type CustomerCreditTransferInitiationV03 struct {
	GrpHdr GroupHeader32                    `xml:"GrpHdr"`
	PmtInf []PaymentInstructionInformation3 `xml:"PmtInf"`
}

type GroupHeader32 struct {
	MsgId    string                `xml:"MsgId"`
	CreDtTm  string                `xml:"CreDtTm"`
	NbOfTxs  string                `xml:"NbOfTxs"`
	CtrlSum  string                `xml:"CtrlSum"`
	InitgPty PartyIdentification32 `xml:"InitgPty"`
}

type PaymentInstructionInformation3 struct {
	PmtInfId    string                                       `xml:"PmtInfId"`
	PmtMtd      string                                       `xml:"PmtMtd"`
	ReqdExctnDt string                                       `xml:"ReqdExctnDt"`
	Dbtr        PartyIdentification32                        `xml:"Dbtr"`
	DbtrAcct    CashAccount16                                `xml:"DbtrAcct"`
	DbtrAgt     BranchAndFinancialInstitutionIdentification4 `xml:"DbtrAgt"`
	CdtTrfTxInf []CreditTransferTransactionInformation10     `xml:"CdtTrfTxInf"`
}

type CreditTransferTransactionInformation10 struct {
	PmtId    PaymentIdentification1                       `xml:"PmtId"`
	Amt      AmountType3Choice                            `xml:"Amt"`
	CdtrAgt  BranchAndFinancialInstitutionIdentification4 `xml:"CdtrAgt"`
	Cdtr     PartyIdentification32                        `xml:"Cdtr"`
	CdtrAcct CashAccount16                                `xml:"CdtrAcct"`
	RmtInf   *RemittanceInformation5                      `xml:"RmtInf"`
}

type PaymentIdentification1 struct {
	InstrId    string `xml:"InstrId"`
	EndToEndId string `xml:"EndToEndId"`
}

type AmountType3Choice struct {
	InstdAmt ActiveOrHistoricCurrencyAndAmount `xml:"InstdAmt"`
}

type ActiveOrHistoricCurrencyAndAmount struct {
	Ccy   string `xml:"Ccy,attr"`
	Value string `xml:",chardata"`
}

type BranchAndFinancialInstitutionIdentification4 struct {
	FinInstnId FinancialInstitutionIdentification7 `xml:"FinInstnId"`
}

type FinancialInstitutionIdentification7 struct {
	BIC string `xml:"BIC"`
}

type PartyIdentification32 struct {
	Nm string `xml:"Nm"`
}

type CashAccount16 struct {
	Id AccountIdentification4Choice `xml:"Id"`
}

type AccountIdentification4Choice struct {
	IBAN string `xml:"IBAN"`
}

type RemittanceInformation5 struct {
	Ustrd []string                           `xml:"Ustrd"`
	Strd  []StructuredRemittanceInformation7 `xml:"Strd"`
}

type StructuredRemittanceInformation7 struct {
	CdtrRefInf *CreditorReferenceInformation2 `xml:"CdtrRefInf"`
}

type CreditorReferenceInformation2 struct {
	Ref string `xml:"Ref"`
}

// Decode reads a pain.001.001.03 document. A document without a
// CstmrCdtTrfInitn element is rejected.
func Decode(r io.Reader) (*CustomerCreditTransferInitiationV03, error) {
	var doc Document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: failed to decode pain.001.001.03: %w", domain.ErrInputFormat, err)
	}
	if doc.CstmrCdtTrfInitn == nil {
		return nil, fmt.Errorf("%w: wrong pain.001.001.03 format, CstmrCdtTrfInitn not found", domain.ErrInputFormat)
	}
	return doc.CstmrCdtTrfInitn, nil
}

// DecodeFile reads the document at path.
func DecodeFile(path string) (*CustomerCreditTransferInitiationV03, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open payment instructions: %w", domain.ErrIO, err)
	}
	defer f.Close()

	return Decode(f)
}
