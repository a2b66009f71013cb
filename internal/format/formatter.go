// Package format renders amounts, dates and free text for invoice documents.
//
// Every function here is total: no input makes it panic or return an empty
// string, so the result can always be placed into a PDF text node.
package format

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholder is shown wherever a value is missing or unusable
const Placeholder = "—"

const (
	DateLayout     = "02/01/2006"
	DateTimeLayout = "02/01/2006 15:04"
)

// Amounts always use Latin digits with "," grouping, even in Arabic documents
var printer = message.NewPrinter(language.English)

var inputLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Currency formats amount with two fraction digits and thousands grouping.
// NaN and infinities render as "0.00".
func Currency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "0.00"
	}
	return printer.Sprintf("%.2f", amount)
}

// largest whole part that can be grouped exactly through int64
var maxGrouped = decimal.NewFromInt(math.MaxInt64)

// Amount formats a decimal amount the same way as Currency, without going
// through float64, so its digits always match Fixed.
func Amount(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign, d = "-", d.Neg()
	}

	whole := d.Truncate(0)
	frac := d.Sub(whole).StringFixed(2)[1:]
	if whole.GreaterThan(maxGrouped) {
		return sign + whole.String() + frac
	}
	return sign + printer.Sprintf("%d", whole.IntPart()) + frac
}

// Money formats a decimal amount followed by its currency code
func Money(d decimal.Decimal, code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return Amount(d)
	}
	return Amount(d) + " " + code
}

// Percent formats a percentage rate such as 15 or 2.5
func Percent(d decimal.Decimal) string {
	return d.Round(2).String() + "%"
}

// ParseTime parses the timestamp layouts the upstream store produces
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Date renders an ISO-8601 string as dd/mm/yyyy, or Placeholder
func Date(s string) string {
	t, ok := ParseTime(s)
	if !ok {
		return Placeholder
	}
	return t.Format(DateLayout)
}

// DateTime renders an ISO-8601 string as dd/mm/yyyy HH:MM, or Placeholder
func DateTime(s string) string {
	t, ok := ParseTime(s)
	if !ok {
		return Placeholder
	}
	return t.Format(DateTimeLayout)
}

// SafeText returns the trimmed value, or Placeholder when nothing is left
func SafeText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Placeholder
	}
	return s
}

// Join concatenates the non-empty parts with sep, or returns Placeholder
func Join(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return SafeText(strings.Join(kept, sep))
}
