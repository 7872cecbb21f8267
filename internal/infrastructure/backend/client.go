// Package backend talks to the order backend's JSON API: catalog lists and
// creation, order creation and listing, and the next order number.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sangkips/po-composer/internal/config"
	"github.com/sangkips/po-composer/internal/domain/entity"
	"github.com/sangkips/po-composer/pkg/apperror"
	"github.com/sirupsen/logrus"
)

// maxErrorBody caps how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// Client is the HTTP client for the order backend. It implements both
// repository.CatalogRepository and repository.OrderRepository.
type Client struct {
	baseURL string
	http    *http.Client
	logger  logrus.FieldLogger
}

// NewClient creates a backend client with the configured base URL and timeout
func NewClient(cfg *config.BackendConfig, logger logrus.FieldLogger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger.WithField("module", "backend"),
	}
}

// ListSuppliers fetches every supplier, sorted by name
func (c *Client) ListSuppliers(ctx context.Context) ([]entity.Supplier, error) {
	var suppliers []entity.Supplier
	if err := c.do(ctx, "list suppliers", http.MethodGet, "/api/suppliers", nil, nil, &suppliers); err != nil {
		return nil, err
	}
	return suppliers, nil
}

// ListProducts fetches every product
func (c *Client) ListProducts(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	if err := c.do(ctx, "list products", http.MethodGet, "/api/products", nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateSupplier adds a supplier and returns it with the backend's message
func (c *Client) CreateSupplier(ctx context.Context, input *entity.SupplierInput) (*entity.Supplier, string, error) {
	var resp struct {
		Message  string           `json:"message"`
		Supplier *entity.Supplier `json:"supplier"`
	}
	if err := c.do(ctx, "create supplier", http.MethodPost, "/api/suppliers", nil, input, &resp); err != nil {
		return nil, "", err
	}
	if resp.Supplier == nil {
		return nil, "", apperror.NewNetworkError("create supplier", http.StatusOK, "Backend response is missing the supplier", nil)
	}
	return resp.Supplier, resp.Message, nil
}

// CreateProduct adds a product and returns it with the backend's message
func (c *Client) CreateProduct(ctx context.Context, input *entity.ProductInput) (*entity.Product, string, error) {
	var resp struct {
		Message string          `json:"message"`
		Product *entity.Product `json:"product"`
	}
	if err := c.do(ctx, "create product", http.MethodPost, "/api/products", nil, input, &resp); err != nil {
		return nil, "", err
	}
	if resp.Product == nil {
		return nil, "", apperror.NewNetworkError("create product", http.StatusOK, "Backend response is missing the product", nil)
	}
	return resp.Product, resp.Message, nil
}

// CreateOrder submits a finalized draft
func (c *Client) CreateOrder(ctx context.Context, req *entity.OrderRequest) (*entity.Order, error) {
	var resp struct {
		Message string        `json:"message"`
		Order   *entity.Order `json:"order"`
	}
	if err := c.do(ctx, "create order", http.MethodPost, "/api/orders", nil, req, &resp); err != nil {
		return nil, err
	}
	if resp.Order == nil {
		return nil, apperror.NewNetworkError("create order", http.StatusOK, "Backend response is missing the order", nil)
	}
	return resp.Order, nil
}

// ListOrders fetches orders matching filter, newest first
func (c *Client) ListOrders(ctx context.Context, filter entity.OrderFilter) ([]entity.Order, error) {
	query := url.Values{}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}

	var orders []entity.Order
	if err := c.do(ctx, "list orders", http.MethodGet, "/api/orders", query, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// NextPONumber asks the backend for the next free order number
func (c *Client) NextPONumber(ctx context.Context) (string, error) {
	var resp struct {
		PONumber string `json:"po_number"`
	}
	if err := c.do(ctx, "next order number", http.MethodGet, "/api/next-po-number", nil, nil, &resp); err != nil {
		return "", err
	}
	return resp.PONumber, nil
}

// errorBody is the failure shape the backend answers with
type errorBody struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("op", op).Warn("backend unreachable")
		return apperror.NewNetworkError(op, 0, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := failureMessage(resp.Body)
		c.logger.WithFields(logrus.Fields{
			"op":     op,
			"status": resp.StatusCode,
		}).Warn("backend request failed")
		return apperror.NewNetworkError(op, resp.StatusCode, message, nil)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperror.NewNetworkError(op, resp.StatusCode, "", err)
	}

	var failure errorBody
	if json.Unmarshal(raw, &failure) == nil && failure.Success != nil && !*failure.Success {
		return apperror.NewNetworkError(op, resp.StatusCode, failure.text(), nil)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return apperror.NewNetworkError(op, resp.StatusCode, "Backend returned an unreadable response", err)
		}
	}
	return nil
}

func failureMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.text()
}

func (b errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}
