package entity

import (
	"encoding/json"

	"github.com/sangkips/po-composer/pkg/money"
	"github.com/shopspring/decimal"
)

// Draft is the purchase order being composed in a browser session.
// Its JSON form is also the persisted snapshot layout.
type Draft struct {
	PONumber         string     `json:"po_number"`
	PODate           string     `json:"po_date"`
	CompanyTaxID     string     `json:"company_tax_id"`
	CommercialReg    string     `json:"commercial_reg"`
	SupplierID       string     `json:"supplier_id" validate:"notblank"`
	DeliveryPeriod   string     `json:"delivery_period"`
	DeliveryLocation string     `json:"delivery_location"`
	PaymentTerms     string     `json:"payment_terms"`
	Notes            string     `json:"notes"`
	TaxRate          string     `json:"tax_rate"` // as typed; see money.ParseTaxRate
	Items            []LineItem `json:"items" validate:"min=1,dive"`
}

// UnmarshalJSON accepts supplier_id and tax_rate as either strings or numbers,
// the way a browser form or an older snapshot may have stored them.
func (d *Draft) UnmarshalJSON(data []byte) error {
	type draftAlias Draft
	aux := struct {
		*draftAlias
		SupplierID json.RawMessage `json:"supplier_id"`
		TaxRate    json.RawMessage `json:"tax_rate"`
	}{draftAlias: (*draftAlias)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.SupplierID = money.TextFromJSON(aux.SupplierID)
	d.TaxRate = money.TextFromJSON(aux.TaxRate)
	return nil
}

// Clone returns a copy that shares no mutable state with d.
func (d Draft) Clone() Draft {
	out := d
	out.Items = make([]LineItem, len(d.Items))
	copy(out.Items, d.Items)
	return out
}

// HasSupplier reports whether a supplier is selected.
func (d Draft) HasSupplier() bool {
	return d.SupplierID != ""
}

// LineItem is one priced product or service row in a Draft.
// Its row number is its index + 1 and is never stored.
type LineItem struct {
	ProductID   string          `json:"product_id,omitempty"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name" validate:"notblank"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// NewLineItem returns the blank row a new draft starts with.
func NewLineItem() LineItem {
	return LineItem{
		Quantity:  decimal.NewFromInt(1),
		UnitPrice: decimal.Zero,
	}
}

// Total is round(quantity × unit price, 2). It is always derived.
func (li LineItem) Total() decimal.Decimal {
	return money.LineTotal(li.Quantity, li.UnitPrice)
}

// UnmarshalJSON coerces quantity and unit_price leniently: strings or
// numbers, with unreadable or negative values becoming zero.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	type lineItemAlias LineItem
	aux := struct {
		*lineItemAlias
		ProductID json.RawMessage `json:"product_id"`
		Quantity  json.RawMessage `json:"quantity"`
		UnitPrice json.RawMessage `json:"unit_price"`
	}{lineItemAlias: (*lineItemAlias)(li)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	li.ProductID = money.TextFromJSON(aux.ProductID)
	li.Quantity = money.AmountFromJSON(aux.Quantity)
	li.UnitPrice = money.AmountFromJSON(aux.UnitPrice)
	return nil
}

// HeaderPatch carries header field updates; nil fields are left untouched.
type HeaderPatch struct {
	PONumber         *string `json:"po_number"`
	PODate           *string `json:"po_date"`
	CompanyTaxID     *string `json:"company_tax_id"`
	CommercialReg    *string `json:"commercial_reg"`
	SupplierID       *string `json:"supplier_id"`
	DeliveryPeriod   *string `json:"delivery_period"`
	DeliveryLocation *string `json:"delivery_location"`
	PaymentTerms     *string `json:"payment_terms"`
	Notes            *string `json:"notes"`
	TaxRate          *string `json:"tax_rate"`
}

// LineItemPatch carries line item updates; nil fields are left untouched.
// Quantity and UnitPrice are raw user input.
type LineItemPatch struct {
	ProductID   *string `json:"product_id"`
	ProductCode *string `json:"product_code"`
	ProductName *string `json:"product_name"`
	Description *string `json:"description"`
	Quantity    *string `json:"quantity"`
	UnitPrice   *string `json:"unit_price"`
}

// DraftDefaults seeds a freshly initialized draft.
type DraftDefaults struct {
	PONumber string
	PODate   string
}
