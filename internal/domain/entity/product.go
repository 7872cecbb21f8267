package entity

import "github.com/shopspring/decimal"

// Product is read-only catalog data owned by the backend.
type Product struct {
	ID           int64           `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	DefaultPrice decimal.Decimal `json:"default_price"`
}

// ProductInput is the payload for creating a product in the backend catalog
type ProductInput struct {
	Code         string          `json:"code" validate:"notblank"`
	Name         string          `json:"name" validate:"notblank"`
	Description  string          `json:"description"`
	DefaultPrice decimal.Decimal `json:"default_price"`
}

// ProductAutofill holds the line item values copied from a selected product.
type ProductAutofill struct {
	ProductID    string          `json:"product_id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	DefaultPrice decimal.Decimal `json:"default_price"`
}
