package service

import (
	"github.com/sangkips/po-composer/internal/domain/entity"
	"github.com/sangkips/po-composer/pkg/money"
	"github.com/shopspring/decimal"
)

// ComputeTotals maps a draft to its derived monetary figures.
// Each line is rounded before it is summed, so the subtotal always equals the
// sum of the displayed line totals.
func ComputeTotals(d entity.Draft) entity.Totals {
	lines := make([]entity.LineTotal, len(d.Items))
	subtotal := decimal.Zero
	for i, item := range d.Items {
		lineTotal := item.Total()
		lines[i] = entity.LineTotal{Position: i + 1, Total: lineTotal}
		subtotal = subtotal.Add(lineTotal)
	}

	rate := money.ParseTaxRate(d.TaxRate)
	tax := money.Round(subtotal.Mul(rate).Shift(-2))

	return entity.Totals{
		Lines:     lines,
		Subtotal:  subtotal,
		TaxRate:   rate,
		TaxAmount: tax,
		Total:     subtotal.Add(tax),
	}
}
