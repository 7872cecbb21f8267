// Package money holds the single parsing and rounding boundary for draft
// amounts. Quantities, unit prices and tax rates arrive as user-typed text;
// everything downstream works on decimal.Decimal.
package money

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the VAT percentage applied when the draft carries no usable rate.
const DefaultTaxRate = 14

// Scale is the number of decimal places kept for monetary values.
const Scale = 2

// maxDigits bounds the length of accepted amount text and the digits and
// exponent of any decimal a draft will hold. Rounding cost grows with the
// exponent, so anything larger is treated as unreadable.
const maxDigits = 32

var (
	defaultTaxRate = decimal.NewFromInt(DefaultTaxRate)

	// plainDecimal is an optionally signed number without exponent notation.
	plainDecimal = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)
)

// ParseAmount parses a quantity or price entered as text.
// Empty, malformed and negative input all yield zero.
func ParseAmount(s string) decimal.Decimal {
	d, ok := parse(s)
	if !ok || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// NonNegative clamps negative and out-of-range amounts to zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() || !bounded(d) {
		return decimal.Zero
	}
	return d
}

// ParseTaxRate parses a tax percentage entered as text.
// Absent, empty, malformed or negative input yields DefaultTaxRate.
func ParseTaxRate(s string) decimal.Decimal {
	d, ok := parse(s)
	if !ok || d.IsNegative() {
		return defaultTaxRate
	}
	return d
}

// AmountFromJSON decodes a JSON number or string into a non-negative amount.
// Anything it cannot read becomes zero.
func AmountFromJSON(raw json.RawMessage) decimal.Decimal {
	return ParseAmount(TextFromJSON(raw))
}

// TextFromJSON returns the text form of a JSON string or number.
// null, objects and arrays come back empty.
func TextFromJSON(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}
	if raw[0] == '{' || raw[0] == '[' {
		return ""
	}
	return string(raw)
}

// Round rounds half away from zero to two places, which is half-up for the
// non-negative values a draft can hold.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// LineTotal returns round(quantity × unitPrice, 2).
func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return Round(quantity.Mul(unitPrice))
}

// Format renders an amount with exactly two decimal places.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}

func parse(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	// Accept grouped input such as "1,250.50".
	s = strings.ReplaceAll(s, ",", "")
	if len(s) > maxDigits || !plainDecimal.MatchString(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !bounded(d) {
		return decimal.Zero, false
	}
	return d, true
}

func bounded(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= -maxDigits && exp <= maxDigits && d.NumDigits() <= maxDigits
}
