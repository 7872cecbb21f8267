package response

import (
	"github.com/sangkips/po-composer/internal/domain/entity"
	"github.com/sangkips/po-composer/pkg/money"
)

// SubmitResponse is returned after a successful submission. The draft has
// already been reset.
type SubmitResponse struct {
	Order *entity.Order `json:"order"`
	DraftResponse
}

// OrderSummary is one row of the orders listing
type OrderSummary struct {
	ID           int64  `json:"id"`
	PONumber     string `json:"po_number"`
	PODate       string `json:"po_date"`
	SupplierName string `json:"supplier_name"`
	Status       string `json:"status"`
	StatusLabel  string `json:"status_label"`
	Total        string `json:"total"`
}

// NewOrderSummaries renders listed orders
func NewOrderSummaries(orders []entity.Order) []OrderSummary {
	out := make([]OrderSummary, len(orders))
	for i, o := range orders {
		out[i] = OrderSummary{
			ID:          o.ID,
			PONumber:    o.PONumber,
			PODate:      o.PODate,
			Status:      string(o.Status),
			StatusLabel: o.Status.Label(),
			Total:       money.Format(o.Total),
		}
		if o.Supplier != nil {
			out[i].SupplierName = o.Supplier.Name
		}
	}
	return out
}
