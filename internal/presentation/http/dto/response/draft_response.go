package response

import (
	"github.com/google/uuid"
	"github.com/sangkips/po-composer/internal/application/service"
	"github.com/sangkips/po-composer/internal/domain/entity"
	"github.com/sangkips/po-composer/internal/domain/enum"
	"github.com/sangkips/po-composer/pkg/money"
)

// DraftResponse is a session's draft as the client renders it. Amounts are
// fixed two-place strings.
type DraftResponse struct {
	SessionID        uuid.UUID             `json:"session_id"`
	Draft            DraftData             `json:"draft"`
	Totals           TotalsData            `json:"totals"`
	PersistenceState enum.PersistenceState `json:"persistence_state"`
	RestoreAvailable bool                  `json:"restore_available"`
	SavedDraft       *DraftData            `json:"saved_draft,omitempty"`
}

// DraftData is the header and line items of a draft
type DraftData struct {
	PONumber         string         `json:"po_number"`
	PODate           string         `json:"po_date"`
	CompanyTaxID     string         `json:"company_tax_id"`
	CommercialReg    string         `json:"commercial_reg"`
	SupplierID       string         `json:"supplier_id"`
	DeliveryPeriod   string         `json:"delivery_period"`
	DeliveryLocation string         `json:"delivery_location"`
	PaymentTerms     string         `json:"payment_terms"`
	Notes            string         `json:"notes"`
	TaxRate          string         `json:"tax_rate"`
	Items            []LineItemData `json:"items"`
}

// LineItemData is one row of the draft with its derived total
type LineItemData struct {
	Position    int    `json:"position"`
	ProductID   string `json:"product_id,omitempty"`
	ProductCode string `json:"product_code"`
	ProductName string `json:"product_name"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Total       string `json:"total"`
}

// TotalsData holds the draft's derived figures
type TotalsData struct {
	Subtotal  string `json:"subtotal"`
	TaxRate   string `json:"tax_rate"`
	TaxAmount string `json:"tax_amount"`
	Total     string `json:"total"`
}

// SessionResponse is returned when a session is opened
type SessionResponse struct {
	Token string `json:"token"`
	DraftResponse
}

// ItemAddedResponse carries the new item's position with the updated draft
type ItemAddedResponse struct {
	Index    int `json:"index"`
	Position int `json:"position"`
	DraftResponse
}

// NewDraftResponse renders a draft view
func NewDraftResponse(view service.DraftView) DraftResponse {
	res := DraftResponse{
		SessionID:        view.SessionID,
		Draft:            newDraftData(view.Draft),
		Totals:           newTotalsData(view.Totals),
		PersistenceState: view.State,
		RestoreAvailable: view.RestoreAvailable,
	}
	if view.SavedDraft != nil {
		saved := newDraftData(*view.SavedDraft)
		res.SavedDraft = &saved
	}
	return res
}

func newDraftData(d entity.Draft) DraftData {
	items := make([]LineItemData, len(d.Items))
	for i, li := range d.Items {
		items[i] = LineItemData{
			Position:    i + 1,
			ProductID:   li.ProductID,
			ProductCode: li.ProductCode,
			ProductName: li.ProductName,
			Description: li.Description,
			Quantity:    li.Quantity.String(),
			UnitPrice:   money.Format(li.UnitPrice),
			Total:       money.Format(li.Total()),
		}
	}
	return DraftData{
		PONumber:         d.PONumber,
		PODate:           d.PODate,
		CompanyTaxID:     d.CompanyTaxID,
		CommercialReg:    d.CommercialReg,
		SupplierID:       d.SupplierID,
		DeliveryPeriod:   d.DeliveryPeriod,
		DeliveryLocation: d.DeliveryLocation,
		PaymentTerms:     d.PaymentTerms,
		Notes:            d.Notes,
		TaxRate:          d.TaxRate,
		Items:            items,
	}
}

func newTotalsData(t entity.Totals) TotalsData {
	return TotalsData{
		Subtotal:  money.Format(t.Subtotal),
		TaxRate:   t.TaxRate.String(),
		TaxAmount: money.Format(t.TaxAmount),
		Total:     money.Format(t.Total),
	}
}
