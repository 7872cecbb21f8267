package entity

import (
	"github.com/sangkips/po-composer/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Order is an order as the backend returns it, either freshly created or listed.
type Order struct {
	ID               int64            `json:"id"`
	PONumber         string           `json:"po_number"`
	PODate           string           `json:"po_date"`
	CompanyTaxID     string           `json:"company_tax_id"`
	CommercialReg    string           `json:"company_commercial_reg"`
	Supplier         *Supplier        `json:"supplier,omitempty"`
	DeliveryPeriod   string           `json:"delivery_period"`
	DeliveryLocation string           `json:"delivery_location"`
	PaymentTerms     string           `json:"payment_terms"`
	Notes            string           `json:"notes"`
	Subtotal         decimal.Decimal  `json:"subtotal"`
	TaxAmount        decimal.Decimal  `json:"tax_amount"`
	Total            decimal.Decimal  `json:"total"`
	Status           enum.OrderStatus `json:"status"`
	Items            []OrderItem      `json:"items,omitempty"`
}

// OrderItem is a line of a backend order
type OrderItem struct {
	ID          int64           `json:"id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// OrderRequest is the finalized draft snapshot sent to the backend.
type OrderRequest struct {
	PONumber         string             `json:"po_number"`
	PODate           string             `json:"po_date"`
	CompanyTaxID     string             `json:"company_tax_id"`
	CommercialReg    string             `json:"commercial_reg"`
	SupplierID       string             `json:"supplier_id"`
	DeliveryPeriod   string             `json:"delivery_period"`
	DeliveryLocation string             `json:"delivery_location"`
	PaymentTerms     string             `json:"payment_terms"`
	Notes            string             `json:"notes"`
	TaxRate          decimal.Decimal    `json:"tax_rate"`
	Items            []OrderItemRequest `json:"items"`
	Subtotal         decimal.Decimal    `json:"subtotal"`
	TaxAmount        decimal.Decimal    `json:"tax_amount"`
	Total            decimal.Decimal    `json:"total"`
}

// OrderItemRequest is one line of an OrderRequest
type OrderItemRequest struct {
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// NewOrderRequest builds the submission payload from a draft and its totals.
func NewOrderRequest(d Draft, t Totals) *OrderRequest {
	items := make([]OrderItemRequest, len(d.Items))
	for i, li := range d.Items {
		items[i] = OrderItemRequest{
			ProductCode: li.ProductCode,
			ProductName: li.ProductName,
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			TotalPrice:  li.Total(),
		}
	}
	return &OrderRequest{
		PONumber:         d.PONumber,
		PODate:           d.PODate,
		CompanyTaxID:     d.CompanyTaxID,
		CommercialReg:    d.CommercialReg,
		SupplierID:       d.SupplierID,
		DeliveryPeriod:   d.DeliveryPeriod,
		DeliveryLocation: d.DeliveryLocation,
		PaymentTerms:     d.PaymentTerms,
		Notes:            d.Notes,
		TaxRate:          t.TaxRate,
		Items:            items,
		Subtotal:         t.Subtotal,
		TaxAmount:        t.TaxAmount,
		Total:            t.Total,
	}
}

// OrderFilter narrows the backend order listing
type OrderFilter struct {
	Search string
	Status enum.OrderStatus
}
