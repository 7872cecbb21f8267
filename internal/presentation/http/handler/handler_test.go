package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/po-composer/internal/application/service"
	"github.com/sangkips/po-composer/internal/config"
	"github.com/sangkips/po-composer/internal/infrastructure/backend"
	"github.com/sangkips/po-composer/internal/infrastructure/repository"
	"github.com/sangkips/po-composer/internal/presentation/http/dto/response"
	"github.com/sangkips/po-composer/internal/presentation/http/handler"
	"github.com/sangkips/po-composer/internal/presentation/http/routes"
	"github.com/sangkips/po-composer/pkg/apperror"
	"github.com/sangkips/po-composer/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBackend answers the order backend's API from memory.
type stubBackend struct {
	mu        sync.Mutex
	nextPO    int
	orders    []map[string]interface{}
	failOrder bool
	products  []map[string]interface{}
}

func newStubBackend() *stubBackend {
	return &stubBackend{
		nextPO: 1,
		products: []map[string]interface{}{
			{"id": 7, "code": "P-007", "name": "Steel bolt", "description": "M8", "default_price": 12.5},
		},
	}
}

func (b *stubBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	write := func(status int, body interface{}) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/suppliers":
		write(http.StatusOK, []map[string]interface{}{
			{"id": 1, "name": "Acme Trading", "tax_id": "300-111", "phone": "0100", "email": "sales@acme.test", "address": "Cairo"},
		})
	case r.Method == http.MethodGet && r.URL.Path == "/api/products":
		write(http.StatusOK, b.products)
	case r.Method == http.MethodPost && r.URL.Path == "/api/products":
		var input map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&input)
		input["id"] = 100 + len(b.products)
		b.products = append(b.products, input)
		write(http.StatusCreated, map[string]interface{}{"message": "تم إضافة المنتج بنجاح", "product": input})
	case r.Method == http.MethodGet && r.URL.Path == "/api/next-po-number":
		write(http.StatusOK, map[string]string{"po_number": fmt.Sprintf("PO-2026-%d", b.nextPO)})
	case r.Method == http.MethodPost && r.URL.Path == "/api/orders":
		if b.failOrder {
			write(http.StatusInternalServerError, map[string]interface{}{"success": false, "error": "database is locked"})
			return
		}
		var order map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&order)
		order["id"] = len(b.orders) + 1
		order["status"] = "مسودة"
		b.orders = append(b.orders, order)
		b.nextPO++
		write(http.StatusCreated, map[string]interface{}{"message": "تم حفظ أمر الشراء بنجاح", "order": order})
	case r.Method == http.MethodGet && r.URL.Path == "/api/orders":
		write(http.StatusOK, []map[string]interface{}{
			{"id": 2, "po_number": "PO-2026-2", "po_date": "2026-10-17", "status": "مؤكد", "total": 228, "supplier": map[string]interface{}{"id": 1, "name": "Acme Trading"}},
			{"id": 1, "po_number": "PO-2026-1", "po_date": "2026-10-16", "status": "مسودة", "total": 114},
		})
	default:
		write(http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

type testServer struct {
	router   *gin.Engine
	backend  *stubBackend
	sessions *service.SessionManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stub := newStubBackend()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	logger, _ := test.NewNullLogger()
	client := backend.NewClient(&config.BackendConfig{BaseURL: srv.URL, Timeout: 2 * time.Second}, logger)
	submissions := service.NewSubmissionService(client, service.NewLocalSubmissionLatch(), logger)
	sessions := service.NewSessionManager(service.SessionConfig{KeyPrefix: "orderFormDraft"},
		repository.NewMemorySnapshotRepository(), client, client, submissions,
		utils.NewJWTManager("test-secret", time.Hour), logger)
	t.Cleanup(func() { sessions.Shutdown(context.Background()) })

	router, stop := routes.Setup(&routes.Handlers{
		Session: handler.NewSessionHandler(sessions),
		Draft:   handler.NewDraftHandler(),
		Catalog: handler.NewCatalogHandler(),
		Order:   handler.NewOrderHandler(service.NewOrderService(client)),
	}, &routes.Deps{
		Cfg:      &config.Config{App: config.AppConfig{Name: "po-composer"}},
		Sessions: sessions,
		Logger:   logger,
	})
	t.Cleanup(stop)

	return &testServer{router: router, backend: stub, sessions: sessions}
}

// envelope is the JSON wrapper every route answers with
type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Errors  []apperror.FieldError `json:"errors"`
}

// draftBody is the subset of draft responses the tests read
type draftBody struct {
	Token            string              `json:"token"`
	Index            int                 `json:"index"`
	Position         int                 `json:"position"`
	Draft            response.DraftData  `json:"draft"`
	Totals           response.TotalsData `json:"totals"`
	State            string              `json:"persistence_state"`
	RestoreAvailable bool                `json:"restore_available"`
	SavedDraft       *response.DraftData `json:"saved_draft"`
	Order            *struct {
		ID       int64  `json:"id"`
		PONumber string `json:"po_number"`
	} `json:"order"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func (s *testServer) draft(t *testing.T, method, path, token string, body interface{}) (int, draftBody) {
	t.Helper()
	rec, env := s.do(t, method, path, token, body)
	var d draftBody
	if len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, &d))
	}
	return rec.Code, d
}

func (s *testServer) open(t *testing.T) string {
	t.Helper()
	code, body := s.draft(t, http.MethodPost, "/api/v1/sessions", "", nil)
	require.Equal(t, http.StatusCreated, code)
	require.NotEmpty(t, body.Token)
	return body.Token
}

func TestOpenSession(t *testing.T) {
	s := newTestServer(t)

	code, body := s.draft(t, http.MethodPost, "/api/v1/sessions", "", nil)

	require.Equal(t, http.StatusCreated, code)
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "PO-2026-1", body.Draft.PONumber)
	assert.Equal(t, "Idle", body.State)
	assert.False(t, body.RestoreAvailable)
	require.Len(t, body.Draft.Items, 1)
	assert.Equal(t, 1, body.Draft.Items[0].Position)
	assert.Equal(t, "0.00", body.Totals.Total)
}

func TestDraftRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/v1/draft", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/draft", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEditDraftAndTotals(t *testing.T) {
	s := newTestServer(t)
	token := s.open(t)

	code, body := s.draft(t, http.MethodPatch, "/api/v1/draft/header", token, `{"supplier_id": 1, "tax_rate": "14"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "1", body.Draft.SupplierID)
	assert.Equal(t, "Dirty", body.State)

	code, body = s.draft(t, http.MethodPatch, "/api/v1/draft/items/0", token, `{"product_name": "Widget", "quantity": 2, "unit_price": "50"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "100.00", body.Draft.Items[0].Total)

	code, body = s.draft(t, http.MethodPost, "/api/v1/draft/items", token, nil)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, 1, body.Index)
	assert.Equal(t, 2, body.Position)

	code, body = s.draft(t, http.MethodPatch, "/api/v1/draft/items/1", token, `{"product_name": "Gadget", "quantity": "1", "unit_price": 100}`)
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, "200.00", body.Totals.Subtotal)
	assert.Equal(t, "28.00", body.Totals.TaxAmount)
	assert.Equal(t, "228.00", body.Totals.Total)
}

func TestUpdateItemOutOfRange(t *testing.T) {
	s := newTestServer(t)
	token := s.open(t)

	rec, _ := s.do(t, http.MethodPatch, "/api/v1/draft/items/5", token, `{"quantity": 1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodPatch, "/api/v1/draft/items/abc", token, `{"quantity": 1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveItem(t *testing.T) {
	s := newTestServer(t)
	token := s.open(t)
	s.draft(t, http.MethodPost, "/api/v1/draft/items", token, nil)

	code, body := s.draft(t, http.MethodDelete, "/api/v1/draft/items/0", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body.Draft.Items, 1)

	code, body = s.draft(t, http.MethodDelete, "/api/v1/draft/items/3", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body.Draft.Items, 1)
}

func TestInvalidHeaderDate(t *testing.T) {
	s := newTestServer(t)
	token := s.open(t)

	rec, _ := s.do(t, http.MethodPatch, "/api/v1/draft/header", token, `{"po_date": "18/10/2026"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApplyProduct(t *testing.T) {
	s := newTestServer(t)
	token := s.open(t)

	code, body := s.draft(t, http.MethodPost, "/api/v1/draft/items/0/product", token, `{"product_id": 7}`)
	require.Equal(t, http.StatusOK, code)
	item := body.Draft.Items[0]
	assert.Equal(t, "7", item.ProductID)
	assert.Equal(t, "P-007", item.ProductCode)
	assert.Equal(t, "Steel bolt", item.ProductName)
	assert.Equal(t, "12.50", item.UnitPrice)

	rec, _ := s.do(t, http.MethodPost, "/api/v1/draft/items/0/product", token, `{"product_id": 99}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitRejectsIncompleteDraft(t *testing.T) {
	s := newTestServer(t)
	token := s.open(t)

	rec, env := s.do(t, http.MethodPost, "/api/v1/draft/submit", token, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NotEmpty(t, env.Errors)
	assert.Empty(t, s.backend.orders)
}

func TestSubmitResetsDraft(t *testing.T) {
	s := newTestServer(t)
	token := s.open(t)
	s.draft(t, http.MethodPatch, "/api/v1/draft/header", token, `{"supplier_id": "1"}`)
	s.draft(t, http.MethodPatch, "/api/v1/draft/items/0", token, `{"product_name": "Widget", "quantity": 2, "unit_price": 50}`)

	code, body := s.draft(t, http.MethodPost, "/api/v1/draft/submit", token, nil)

	require.Equal(t, http.StatusCreated, code)
	require.NotNil(t, body.Order)
	assert.Equal(t, "PO-2026-1", body.Order.PONumber)
	require.Len(t, s.backend.orders, 1)
	total, err := decimal.NewFromString(fmt.Sprint(s.backend.orders[0]["total"]))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(114).Equal(total), total.String())

	assert.Equal(t, "PO-2026-2", body.Draft.PONumber)
	assert.Empty(t, body.Draft.SupplierID)
	assert.Len(t, body.Draft.Items, 1)
	assert.Equal(t, "Idle", body.State)
}

func TestSubmitBackendFailureKeepsDraft(t *testing.T) {
	s := newTestServer(t)
	token := s.open(t)
	s.draft(t, http.MethodPatch, "/api/v1/draft/header", token, `{"supplier_id": "1"}`)
	s.draft(t, http.MethodPatch, "/api/v1/draft/items/0", token, `{"product_name": "Widget", "quantity": 1, "unit_price": 10}`)
	s.backend.failOrder = true

	rec, env := s.do(t, http.MethodPost, "/api/v1/draft/submit", token, nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "database is locked", env.Message)

	_, body := s.draft(t, http.MethodGet, "/api/v1/draft", token, nil)
	assert.Equal(t, "1", body.Draft.SupplierID)
	assert.Equal(t, "Widget", body.Draft.Items[0].ProductName)
}

func TestReopenOffersRestore(t *testing.T) {
	s := newTestServer(t)
	token := s.open(t)
	s.draft(t, http.MethodPatch, "/api/v1/draft/header", token, `{"notes": "urgent"}`)

	// Opening again with the same token behaves like a page reload.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var reopened draftBody
	require.NoError(t, json.Unmarshal(env.Data, &reopened))
	assert.True(t, reopened.RestoreAvailable)
	require.NotNil(t, reopened.SavedDraft)
	assert.Equal(t, "urgent", reopened.SavedDraft.Notes)
	assert.Empty(t, reopened.Draft.Notes)

	code, body := s.draft(t, http.MethodPost, "/api/v1/draft/restore", reopened.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "urgent", body.Draft.Notes)
	assert.False(t, body.RestoreAvailable)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/draft/restore", reopened.Token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestClearDraft(t *testing.T) {
	s := newTestServer(t)
	token := s.open(t)
	s.draft(t, http.MethodPatch, "/api/v1/draft/header", token, `{"notes": "urgent", "supplier_id": 1}`)

	code, body := s.draft(t, http.MethodDelete, "/api/v1/draft", token, nil)

	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body.Draft.Notes)
	assert.Empty(t, body.Draft.SupplierID)
	assert.Equal(t, "PO-2026-1", body.Draft.PONumber)
	assert.Equal(t, "Idle", body.State)
}

func TestCatalogRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.open(t)

	rec, env := s.do(t, http.MethodGet, "/api/v1/catalog/suppliers", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "Acme Trading")

	rec, env = s.do(t, http.MethodGet, "/api/v1/catalog/suppliers/1/autofill", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "sales@acme.test")

	rec, _ = s.do(t, http.MethodGet, "/api/v1/catalog/products/42/autofill", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = s.do(t, http.MethodPost, "/api/v1/catalog/products", token, `{"code": "P-200", "name": "Washer", "default_price": "1.25"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "تم إضافة المنتج بنجاح", env.Message)

	rec, env = s.do(t, http.MethodGet, "/api/v1/catalog/products", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "Washer")
}

func TestCreateProductValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.open(t)

	rec, env := s.do(t, http.MethodPost, "/api/v1/catalog/products", token, `{"code": "  ", "name": "Washer"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NotEmpty(t, env.Errors)
}

func TestListOrders(t *testing.T) {
	s := newTestServer(t)
	token := s.open(t)

	rec, env := s.do(t, http.MethodGet, "/api/v1/orders?per_page=1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Items []response.OrderSummary `json:"items"`
		Pagination struct {
			Total      int64 `json:"total"`
			TotalPages int   `json:"total_pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "PO-2026-2", page.Items[0].PONumber)
	assert.Equal(t, "confirmed", page.Items[0].StatusLabel)
	assert.Equal(t, "Acme Trading", page.Items[0].SupplierName)
	assert.Equal(t, "228.00", page.Items[0].Total)

	rec, env = s.do(t, http.MethodGet, "/api/v1/orders?page=614891469123651722", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(2), page.Pagination.Total)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/orders?status=shipped", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	s.open(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `"sessions":1`))
}
