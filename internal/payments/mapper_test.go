package payments

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"revolut-sepa-converter/internal/domain"
	"revolut-sepa-converter/internal/pain001"
)

func transfer(name, iban, bic, ccy, amount, ref string) string {
	return `
      <CdtTrfTxInf>
        <PmtId><EndToEndId>E2E-` + name + `</EndToEndId></PmtId>
        <Amt><InstdAmt Ccy="` + ccy + `">` + amount + `</InstdAmt></Amt>
        <CdtrAgt><FinInstnId><BIC>` + bic + `</BIC></FinInstnId></CdtrAgt>
        <Cdtr><Nm>` + name + `</Nm></Cdtr>
        <CdtrAcct><Id><IBAN>` + iban + `</IBAN></Id></CdtrAcct>
        <RmtInf><Strd><CdtrRefInf><Ref>` + ref + `</Ref></CdtrRefInf></Strd></RmtInf>
      </CdtTrfTxInf>`
}

func document(instructions ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="` + pain001.Namespace + `">
  <CstmrCdtTrfInitn>
    <GrpHdr><MsgId>MSG-1</MsgId><NbOfTxs>2</NbOfTxs></GrpHdr>` + strings.Join(instructions, "") + `
  </CstmrCdtTrfInitn>
</Document>`
}

func instruction(id string, transfers ...string) string {
	return `
    <PmtInf>
      <PmtInfId>` + id + `</PmtInfId>
      <PmtMtd>TRF</PmtMtd>` + strings.Join(transfers, "") + `
    </PmtInf>`
}

func decode(t *testing.T, xml string) *pain001.CustomerCreditTransferInitiationV03 {
	t.Helper()
	ccti, err := pain001.Decode(strings.NewReader(xml))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return ccti
}

func TestMap(t *testing.T) {
	ccti := decode(t, document(
		instruction("P1", transfer("Jane Doe", "si56 1910 0000 0123 438", "BAKOSI2X", "EUR", "100.5", "SI00 123")),
		instruction("P2", transfer("Acme d.o.o.", "DE89370400440532013000", "COBADEFFXXX", "EUR", "1234.56", "RF18539007547034")),
	))

	rows, err := NewMapper([]string{"SI56 1910 0000 0123 438"}, nil).Map(ccti)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	want := Row{
		Name:          "Jane Doe",
		RecipientType: RecipientIndividual,
		IBAN:          "SI56 1910 0000 0123 438",
		BIC:           "BAKOSI2X",
		Country:       "SI",
		Currency:      "EUR",
		Amount:        "100.5",
		Reference:     "SI00 123",
	}
	if rows[0] != want {
		t.Errorf("row 0 = %+v, want %+v", rows[0], want)
	}
	if rows[1].RecipientType != RecipientCompany {
		t.Errorf("row 1 recipient type = %q, want Company", rows[1].RecipientType)
	}
	if rows[1].Country != "DE" {
		t.Errorf("row 1 country = %q, want DE", rows[1].Country)
	}
}

func TestMap_PersonalIBANCaseInsensitive(t *testing.T) {
	ccti := decode(t, document(
		instruction("P1", transfer("Jane", "SI56191000000123438", "BAKOSI2X", "EUR", "1", "R")),
	))
	rows, err := NewMapper([]string{" si56191000000123438 "}, nil).Map(ccti)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if rows[0].RecipientType != RecipientIndividual {
		t.Errorf("recipient type = %q, want Individual", rows[0].RecipientType)
	}
}

func TestMap_OnlyFirstTransferIsExported(t *testing.T) {
	ccti := decode(t, document(
		instruction("P1",
			transfer("First", "SI56191000000123438", "BAKOSI2X", "EUR", "1", "R1"),
			transfer("Second", "SI56191000000123439", "BAKOSI2X", "EUR", "2", "R2"),
		),
	))

	var buf bytes.Buffer
	rows, err := NewMapper(nil, log.New(&buf)).Map(ccti)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "First" {
		t.Fatalf("rows = %+v, want only the first transfer", rows)
	}
	if !strings.Contains(buf.String(), "only the first is exported") {
		t.Errorf("expected dropped-transfer warning, got %q", buf.String())
	}
}

func TestMap_Errors(t *testing.T) {
	noStrd := strings.Replace(
		transfer("Jane", "SI56191000000123438", "BAKOSI2X", "EUR", "1", "R"),
		"<RmtInf><Strd><CdtrRefInf><Ref>R</Ref></CdtrRefInf></Strd></RmtInf>",
		"<RmtInf><Ustrd>free text</Ustrd></RmtInf>", 1)
	noRmtInf := strings.Replace(
		transfer("Jane", "SI56191000000123438", "BAKOSI2X", "EUR", "1", "R"),
		"<RmtInf><Strd><CdtrRefInf><Ref>R</Ref></CdtrRefInf></Strd></RmtInf>",
		"", 1)

	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"missing structured remittance", document(instruction("P1", noStrd)), domain.ErrInputFormat},
		{"missing remittance", document(instruction("P1", noRmtInf)), domain.ErrInputFormat},
		{"instruction without transfers", document(instruction("P1")), domain.ErrInputFormat},
		{"bad amount", document(instruction("P1", transfer("J", "SI56191000000123438", "B", "EUR", "ten", "R"))), domain.ErrFieldParse},
		{"grouped amount", document(instruction("P1", transfer("J", "SI56191000000123438", "B", "EUR", "1,000.00", "R"))), domain.ErrFieldParse},
		{"short iban", document(instruction("P1", transfer("J", "S", "B", "EUR", "1", "R"))), domain.ErrInputFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMapper(nil, nil).Map(decode(t, tt.doc))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !strings.Contains(err.Error(), "P1") {
				t.Errorf("expected error to name the instruction, got %q", err)
			}
		})
	}
}

func TestWriteCSV(t *testing.T) {
	rows := []Row{
		{"Jane Doe", RecipientIndividual, "SI56191000000123438", "BAKOSI2X", "SI", "EUR", "100.50", "SI00 123"},
		{"Acme, d.o.o.", RecipientCompany, "DE89370400440532013000", "COBADEFFXXX", "DE", "EUR", "1.00", "RF18"},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	want := "Name,Recipient type,IBAN,BIC,Recipient bank country,Currency,Amount,Payment reference\r\n" +
		"Jane Doe,Individual,SI56191000000123438,BAKOSI2X,SI,EUR,100.50,SI00 123\r\n" +
		"\"Acme, d.o.o.\",Company,DE89370400440532013000,COBADEFFXXX,DE,EUR,1.00,RF18\r\n"
	if buf.String() != want {
		t.Errorf("WriteCSV output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestParseIBANList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"SI56191000000123438", []string{"SI56191000000123438"}},
		{" a , b,,c ", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		got := ParseIBANList(tt.input)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
			t.Errorf("ParseIBANList(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
