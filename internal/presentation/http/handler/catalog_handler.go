package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/po-composer/internal/domain/entity"
	"github.com/sangkips/po-composer/internal/presentation/http/dto/response"
)

// CatalogHandler serves the session's supplier and product cache
type CatalogHandler struct{}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// Suppliers lists the cached suppliers
func (h *CatalogHandler) Suppliers(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	suppliers, err := session.Catalog().Suppliers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Suppliers retrieved", suppliers)
}

// Products lists the cached products
func (h *CatalogHandler) Products(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	products, err := session.Catalog().Products(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Products retrieved", products)
}

// SupplierAutofill returns the details shown for a selected supplier
func (h *CatalogHandler) SupplierAutofill(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	fill, err := session.Catalog().SupplierAutofill(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Supplier details retrieved", fill)
}

// ProductAutofill returns the line item values for a product
func (h *CatalogHandler) ProductAutofill(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	fill, err := session.Catalog().ProductAutofill(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product details retrieved", fill)
}

// CreateSupplier adds a supplier to the backend catalog
func (h *CatalogHandler) CreateSupplier(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	var input entity.SupplierInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	supplier, message, err := session.Catalog().CreateSupplier(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, createdMessage(message, "Supplier created"), supplier)
}

// CreateProduct adds a product to the backend catalog
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	var input entity.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, message, err := session.Catalog().CreateProduct(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, createdMessage(message, "Product created"), product)
}

func createdMessage(backend, fallback string) string {
	if backend != "" {
		return backend
	}
	return fallback
}
