package request

import (
	"encoding/json"

	"github.com/sangkips/po-composer/internal/domain/entity"
	"github.com/sangkips/po-composer/pkg/money"
)

// UpdateHeaderRequest represents a draft header update. supplier_id and
// tax_rate may be sent as strings or numbers.
type UpdateHeaderRequest struct {
	PONumber         *string         `json:"po_number"`
	PODate           *string         `json:"po_date" binding:"omitempty,datetime=2006-01-02"`
	CompanyTaxID     *string         `json:"company_tax_id"`
	CommercialReg    *string         `json:"commercial_reg"`
	SupplierID       json.RawMessage `json:"supplier_id"`
	DeliveryPeriod   *string         `json:"delivery_period"`
	DeliveryLocation *string         `json:"delivery_location"`
	PaymentTerms     *string         `json:"payment_terms"`
	Notes            *string         `json:"notes"`
	TaxRate          json.RawMessage `json:"tax_rate"`
}

// ToPatch converts the request into a header patch
func (r *UpdateHeaderRequest) ToPatch() entity.HeaderPatch {
	return entity.HeaderPatch{
		PONumber:         r.PONumber,
		PODate:           r.PODate,
		CompanyTaxID:     r.CompanyTaxID,
		CommercialReg:    r.CommercialReg,
		SupplierID:       rawText(r.SupplierID),
		DeliveryPeriod:   r.DeliveryPeriod,
		DeliveryLocation: r.DeliveryLocation,
		PaymentTerms:     r.PaymentTerms,
		Notes:            r.Notes,
		TaxRate:          rawText(r.TaxRate),
	}
}

// UpdateLineItemRequest represents a line item update. quantity and
// unit_price are taken as typed, string or number.
type UpdateLineItemRequest struct {
	ProductID   json.RawMessage `json:"product_id"`
	ProductCode *string         `json:"product_code"`
	ProductName *string         `json:"product_name"`
	Description *string         `json:"description"`
	Quantity    json.RawMessage `json:"quantity"`
	UnitPrice   json.RawMessage `json:"unit_price"`
}

// ToPatch converts the request into a line item patch
func (r *UpdateLineItemRequest) ToPatch() entity.LineItemPatch {
	return entity.LineItemPatch{
		ProductID:   rawText(r.ProductID),
		ProductCode: r.ProductCode,
		ProductName: r.ProductName,
		Description: r.Description,
		Quantity:    rawText(r.Quantity),
		UnitPrice:   rawText(r.UnitPrice),
	}
}

// ApplyProductRequest selects a catalog product for a line item
type ApplyProductRequest struct {
	ProductID json.RawMessage `json:"product_id" binding:"required"`
}

// ID returns the product id as text
func (r *ApplyProductRequest) ID() string {
	return money.TextFromJSON(r.ProductID)
}

// rawText maps an absent field to nil and anything else to its text.
func rawText(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}
	s := money.TextFromJSON(raw)
	return &s
}
