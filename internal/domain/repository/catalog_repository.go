package repository

import (
	"context"

	"github.com/sangkips/po-composer/internal/domain/entity"
)

// CatalogRepository defines the backend operations that feed the catalog cache
type CatalogRepository interface {
	ListSuppliers(ctx context.Context) ([]entity.Supplier, error)
	ListProducts(ctx context.Context) ([]entity.Product, error)
	CreateSupplier(ctx context.Context, input *entity.SupplierInput) (*entity.Supplier, string, error)
	CreateProduct(ctx context.Context, input *entity.ProductInput) (*entity.Product, string, error)
}
