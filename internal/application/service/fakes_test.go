package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/sangkips/po-composer/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

var errStoreDown = errors.New("store unavailable")

// fakeSnapshotRepo is an in-memory SnapshotRepository that can be told to fail.
type fakeSnapshotRepo struct {
	mu       sync.Mutex
	data     map[string][]byte
	saves    int
	deletes  int
	failSave bool
	failLoad bool
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{data: make(map[string][]byte)}
}

func (r *fakeSnapshotRepo) Load(_ context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failLoad {
		return nil, errStoreDown
	}
	payload, ok := r.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), payload...), nil
}

func (r *fakeSnapshotRepo) Save(_ context.Context, key string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.failSave {
		return errStoreDown
	}
	r.data[key] = append([]byte(nil), payload...)
	return nil
}

func (r *fakeSnapshotRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes++
	delete(r.data, key)
	return nil
}

func (r *fakeSnapshotRepo) put(key, payload string) {
	r.mu.Lock()
	r.data[key] = []byte(payload)
	r.mu.Unlock()
}

func (r *fakeSnapshotRepo) get(key string) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payload, ok := r.data[key]
	return payload, ok
}

func (r *fakeSnapshotRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

func (r *fakeSnapshotRepo) setFailSave(fail bool) {
	r.mu.Lock()
	r.failSave = fail
	r.mu.Unlock()
}

// fakeCatalogRepo serves fixed catalog lists.
type fakeCatalogRepo struct {
	mu        sync.Mutex
	suppliers []entity.Supplier
	products  []entity.Product
	listCalls int
	err       error
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		suppliers: []entity.Supplier{
			{ID: 1, Name: "Acme Trading", TaxID: "300-111", Phone: "0100", Email: "sales@acme.test", Address: "Cairo"},
			{ID: 2, Name: "Nile Supplies", TaxID: "300-222"},
		},
		products: []entity.Product{
			{ID: 7, Code: "P-007", Name: "Steel bolt", Description: "M8", DefaultPrice: decimal.RequireFromString("12.50")},
		},
	}
}

func (r *fakeCatalogRepo) ListSuppliers(_ context.Context) ([]entity.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	if r.err != nil {
		return nil, r.err
	}
	return append([]entity.Supplier(nil), r.suppliers...), nil
}

func (r *fakeCatalogRepo) ListProducts(_ context.Context) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return append([]entity.Product(nil), r.products...), nil
}

func (r *fakeCatalogRepo) CreateSupplier(_ context.Context, input *entity.SupplierInput) (*entity.Supplier, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := entity.Supplier{ID: int64(len(r.suppliers) + 1), Name: input.Name, TaxID: input.TaxID, Email: input.Email}
	r.suppliers = append(r.suppliers, s)
	return &s, "Supplier added", nil
}

func (r *fakeCatalogRepo) CreateProduct(_ context.Context, input *entity.ProductInput) (*entity.Product, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := entity.Product{ID: int64(len(r.products) + 100), Code: input.Code, Name: input.Name, DefaultPrice: input.DefaultPrice}
	r.products = append(r.products, p)
	return &p, "Product added", nil
}

func (r *fakeCatalogRepo) listCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listCalls
}

// fakeOrderRepo records order submissions. When block is set, CreateOrder
// waits on it; numberBlock does the same for NextPONumber.
type fakeOrderRepo struct {
	mu            sync.Mutex
	created       []*entity.OrderRequest
	orders        []entity.Order
	createErr     error
	numberErr     error
	nextNumber    int
	block         chan struct{}
	entered       chan struct{}
	numberBlock   chan struct{}
	numberEntered chan struct{}
	lastFilter    entity.OrderFilter
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{nextNumber: 1}
}

func (r *fakeOrderRepo) CreateOrder(_ context.Context, req *entity.OrderRequest) (*entity.Order, error) {
	if r.entered != nil {
		r.entered <- struct{}{}
	}
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.created = append(r.created, req)
	return &entity.Order{ID: int64(len(r.created)), PONumber: req.PONumber, Total: req.Total}, nil
}

func (r *fakeOrderRepo) ListOrders(_ context.Context, filter entity.OrderFilter) ([]entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = filter
	if r.createErr != nil {
		return nil, r.createErr
	}
	return append([]entity.Order(nil), r.orders...), nil
}

func (r *fakeOrderRepo) NextPONumber(_ context.Context) (string, error) {
	if r.numberEntered != nil {
		r.numberEntered <- struct{}{}
	}
	if r.numberBlock != nil {
		<-r.numberBlock
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.numberErr != nil {
		return "", r.numberErr
	}
	n := r.nextNumber
	r.nextNumber++
	return "PO-2026-" + strconv.Itoa(n), nil
}

func (r *fakeOrderRepo) createdCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.created)
}

func nullLogger() (logrus.FieldLogger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

func strPtr(s string) *string {
	return &s
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2))
}
