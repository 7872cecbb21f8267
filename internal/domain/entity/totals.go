package entity

import "github.com/shopspring/decimal"

// Totals are the monetary figures derived from a Draft. They are never set
// directly.
type Totals struct {
	Lines     []LineTotal     `json:"lines"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
}

// LineTotal is the derived total of the line item at Position (1-based).
type LineTotal struct {
	Position int             `json:"position"`
	Total    decimal.Decimal `json:"total"`
}

// Equal reports whether two Totals carry the same figures.
func (t Totals) Equal(o Totals) bool {
	if len(t.Lines) != len(o.Lines) {
		return false
	}
	for i := range t.Lines {
		if t.Lines[i].Position != o.Lines[i].Position || !t.Lines[i].Total.Equal(o.Lines[i].Total) {
			return false
		}
	}
	return t.Subtotal.Equal(o.Subtotal) &&
		t.TaxRate.Equal(o.TaxRate) &&
		t.TaxAmount.Equal(o.TaxAmount) &&
		t.Total.Equal(o.Total)
}
