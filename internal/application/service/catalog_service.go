package service

import (
	"context"
	"strconv"
	"sync"

	"github.com/sangkips/po-composer/internal/domain/entity"
	"github.com/sangkips/po-composer/internal/domain/repository"
	"github.com/sangkips/po-composer/pkg/apperror"
	"github.com/sirupsen/logrus"
)

// CatalogService is a session-scoped, read-only cache of suppliers and
// products. Both lists are fetched together on first use and only ever
// replaced as a whole.
type CatalogService struct {
	catalogRepo repository.CatalogRepository
	logger      logrus.FieldLogger

	mu        sync.RWMutex
	loaded    bool
	suppliers []entity.Supplier
	products  []entity.Product
}

// NewCatalogService creates a new catalog cache
func NewCatalogService(catalogRepo repository.CatalogRepository, logger logrus.FieldLogger) *CatalogService {
	return &CatalogService{
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// Refresh fetches both lists and swaps them in. On failure the previous
// contents stay in place.
func (s *CatalogService) Refresh(ctx context.Context) error {
	suppliers, err := s.catalogRepo.ListSuppliers(ctx)
	if err != nil {
		return err
	}
	products, err := s.catalogRepo.ListProducts(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.suppliers = suppliers
	s.products = products
	s.loaded = true
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"suppliers": len(suppliers),
		"products":  len(products),
	}).Debug("catalog loaded")
	return nil
}

func (s *CatalogService) ensureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	return s.Refresh(ctx)
}

// Suppliers returns the cached suppliers
func (s *CatalogService) Suppliers(ctx context.Context) ([]entity.Supplier, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Supplier, len(s.suppliers))
	copy(out, s.suppliers)
	return out, nil
}

// Products returns the cached products
func (s *CatalogService) Products(ctx context.Context) ([]entity.Product, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

// SupplierAutofill returns the values shown for the selected supplier.
// A blank id clears them.
func (s *CatalogService) SupplierAutofill(ctx context.Context, supplierID string) (entity.SupplierAutofill, error) {
	if supplierID == "" {
		return entity.SupplierAutofill{}, nil
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return entity.SupplierAutofill{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sup := range s.suppliers {
		if strconv.FormatInt(sup.ID, 10) == supplierID {
			return entity.SupplierAutofill{
				SupplierID: supplierID,
				Name:       sup.Name,
				TaxID:      sup.TaxID,
				Phone:      sup.Phone,
				Email:      sup.Email,
				Address:    sup.Address,
			}, nil
		}
	}
	return entity.SupplierAutofill{}, apperror.NewNotFoundError("Supplier")
}

// ProductAutofill returns the line item values for a product
func (s *CatalogService) ProductAutofill(ctx context.Context, productID string) (entity.ProductAutofill, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return entity.ProductAutofill{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if strconv.FormatInt(p.ID, 10) == productID {
			return entity.ProductAutofill{
				ProductID:    productID,
				Code:         p.Code,
				Name:         p.Name,
				Description:  p.Description,
				DefaultPrice: p.DefaultPrice,
			}, nil
		}
	}
	return entity.ProductAutofill{}, apperror.NewNotFoundError("Product")
}

// CreateSupplier adds a supplier in the backend and reloads the cache.
// It returns the created supplier and the backend's message.
func (s *CatalogService) CreateSupplier(ctx context.Context, input *entity.SupplierInput) (*entity.Supplier, string, error) {
	if err := validateStruct(input); err != nil {
		return nil, "", err
	}
	supplier, message, err := s.catalogRepo.CreateSupplier(ctx, input)
	if err != nil {
		return nil, "", err
	}
	s.refreshAfterWrite(ctx)
	return supplier, message, nil
}

// CreateProduct adds a product in the backend and reloads the cache.
func (s *CatalogService) CreateProduct(ctx context.Context, input *entity.ProductInput) (*entity.Product, string, error) {
	if err := validateStruct(input); err != nil {
		return nil, "", err
	}
	product, message, err := s.catalogRepo.CreateProduct(ctx, input)
	if err != nil {
		return nil, "", err
	}
	s.refreshAfterWrite(ctx)
	return product, message, nil
}

// refreshAfterWrite reloads the cache after a catalog write. The write has
// already succeeded, so a failed reload only marks the cache stale.
func (s *CatalogService) refreshAfterWrite(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		s.mu.Lock()
		s.loaded = false
		s.mu.Unlock()
		s.logger.WithError(err).Warn("catalog refresh after write failed")
	}
}
