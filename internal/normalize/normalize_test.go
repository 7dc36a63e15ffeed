package normalize

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"revolut-sepa-converter/internal/domain"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"10.00", "10"},
		{"-10.00", "-10"},
		{"1,234.56", "1234.56"},
		{"-1,234,567.891", "-1234567.891"},
		{" 0.50 ", "0.5"},
		{"0", "0"},
		{"100.50", "100.5"},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.input)
		if err != nil {
			t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.input, err)
		}
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "1.2.3", "1e5", "12,x"} {
		_, err := ParseAmount(input)
		if err == nil {
			t.Errorf("ParseAmount(%q) expected error", input)
			continue
		}
		if !errors.Is(err, domain.ErrFieldParse) {
			t.Errorf("ParseAmount(%q) error = %v, want ErrFieldParse", input, err)
		}
	}
}

func TestParseAmount_KeepsPrecision(t *testing.T) {
	a, _ := ParseAmount("0.10")
	b, _ := ParseAmount("0.20")
	if !a.Add(b).Equal(decimal.RequireFromString("0.3")) {
		t.Errorf("expected exact 0.3, got %s", a.Add(b))
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input           string
		year, month, dd int32
	}{
		{"2024-03-05", 2024, 3, 5},
		{"2024-03-05 10:11:12", 2024, 3, 5},
		{"2024-12-31T23:59:59", 2024, 12, 31},
		{" 2023-02-28 ", 2023, 2, 28},
	}
	for _, tt := range tests {
		d, err := ParseDate(tt.input)
		if err != nil {
			t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
		}
		if d.GetYear() != tt.year || d.GetMonth() != tt.month || d.GetDay() != tt.dd {
			t.Errorf("ParseDate(%q) = %d-%d-%d", tt.input, d.GetYear(), d.GetMonth(), d.GetDay())
		}
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, input := range []string{"", "05.03.2024", "2024-13-01", "2024-02-30", "yesterday"} {
		if _, err := ParseDate(input); !errors.Is(err, domain.ErrFieldParse) {
			t.Errorf("ParseDate(%q) error = %v, want ErrFieldParse", input, err)
		}
	}
}

func TestParseDay_StartOfDayInZone(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Ljubljana")
	if err != nil {
		t.Skipf("time zone data unavailable: %v", err)
	}
	got, err := ParseDay("2024-03-05", loc)
	if err != nil {
		t.Fatalf("ParseDay: %v", err)
	}
	want := time.Date(2024, time.March, 5, 0, 0, 0, 0, loc)
	if !got.Equal(want) || got.Location() != loc {
		t.Errorf("ParseDay = %v, want %v", got, want)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"10", "10.00"},
		{"10.5", "10.50"},
		{"0.125", "0.125"},
		{"1234.56", "1234.56"},
		{"0", "0.00"},
	}
	for _, tt := range tests {
		got := FormatAmount(decimal.RequireFromString(tt.input))
		if got != tt.want {
			t.Errorf("FormatAmount(%s) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMonthBoundaries(t *testing.T) {
	tests := []struct {
		in        time.Time
		last      string
		prevLast  string
		yearMonth int64
	}{
		{time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), "2024-03-31", "2024-02-29", 20243},
		{time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), "2024-01-31", "2023-12-31", 20241},
		{time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC), "2023-12-31", "2023-11-30", 202312},
	}
	for _, tt := range tests {
		if got := FormatDate(LastDayOfMonth(tt.in)); got != tt.last {
			t.Errorf("LastDayOfMonth(%v) = %s, want %s", tt.in, got, tt.last)
		}
		if got := FormatDate(LastDayOfPreviousMonth(tt.in)); got != tt.prevLast {
			t.Errorf("LastDayOfPreviousMonth(%v) = %s, want %s", tt.in, got, tt.prevLast)
		}
		got, err := YearMonth(tt.in)
		if err != nil {
			t.Fatalf("YearMonth: %v", err)
		}
		if got != tt.yearMonth {
			t.Errorf("YearMonth(%v) = %d, want %d", tt.in, got, tt.yearMonth)
		}
	}
}
