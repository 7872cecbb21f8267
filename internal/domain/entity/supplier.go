package entity

// Supplier is read-only catalog data owned by the backend.
type Supplier struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// SupplierInput is the payload for creating a supplier in the backend catalog
type SupplierInput struct {
	Name    string `json:"name" validate:"notblank"`
	TaxID   string `json:"tax_id"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
}

// SupplierAutofill holds the values shown alongside the selected supplier.
type SupplierAutofill struct {
	SupplierID string `json:"supplier_id"`
	Name       string `json:"name"`
	TaxID      string `json:"tax_id"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Address    string `json:"address"`
}
