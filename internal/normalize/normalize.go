// Package normalize turns the text fields of provider exports into exact
// decimal amounts and calendar dates.
package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/genproto/googleapis/type/date"

	"revolut-sepa-converter/internal/domain"
)

const (
	groupingSeparator = ","
	isoDateLayout     = "2006-01-02"
)

// ParseAmount parses a decimal that uses ',' for grouping and '.' as the
// decimal separator, e.g. "-1,234.50".
func ParseAmount(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty amount", domain.ErrFieldParse)
	}
	s = strings.ReplaceAll(s, groupingSeparator, "")
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, fmt.Errorf("%w: invalid amount %q", domain.ErrFieldParse, text)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid amount %q", domain.ErrFieldParse, text)
	}
	return d, nil
}

// ParseDate parses an ISO calendar date. A trailing time part ("2024-03-05 10:11:12"
// or "2024-03-05T10:11:12") is ignored.
func ParseDate(text string) (*date.Date, error) {
	s := strings.TrimSpace(text)
	if len(s) > len(isoDateLayout) {
		switch s[len(isoDateLayout)] {
		case 'T', ' ':
			s = s[:len(isoDateLayout)]
		}
	}
	t, err := time.Parse(isoDateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", domain.ErrFieldParse, text)
	}
	return &date.Date{
		Year:  int32(t.Year()),
		Month: int32(t.Month()),
		Day:   int32(t.Day()),
	}, nil
}

// StartOfDay places a calendar date at midnight in loc.
func StartOfDay(d *date.Date, loc *time.Location) time.Time {
	return time.Date(int(d.GetYear()), time.Month(d.GetMonth()), int(d.GetDay()), 0, 0, 0, 0, loc)
}

// ParseDay is ParseDate followed by StartOfDay.
func ParseDay(text string, loc *time.Location) (time.Time, error) {
	d, err := ParseDate(text)
	if err != nil {
		return time.Time{}, err
	}
	return StartOfDay(d, loc), nil
}

// FormatAmount renders an amount with at least two fraction digits and never
// fewer than the value carries.
func FormatAmount(d decimal.Decimal) string {
	places := int32(2)
	if exp := -d.Exponent(); exp > places {
		places = exp
	}
	return d.StringFixed(places)
}

func FormatDate(t time.Time) string {
	return t.Format(isoDateLayout)
}

// LastDayOfMonth returns the last calendar day of t's month, at start of day.
func LastDayOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
}

// LastDayOfPreviousMonth returns the last calendar day of the month before t's.
func LastDayOfPreviousMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 0, 0, 0, 0, 0, t.Location())
}

// YearMonth concatenates year and month without zero padding, e.g. 2024-03 -> 20243.
func YearMonth(t time.Time) (int64, error) {
	n, err := strconv.ParseInt(strconv.Itoa(t.Year())+strconv.Itoa(int(t.Month())), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to build sequence number: %w", err)
	}
	return n, nil
}
