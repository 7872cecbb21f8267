package repository

import (
	"context"

	"github.com/sangkips/po-composer/internal/domain/entity"
)

// OrderRepository defines the backend order operations the engine consumes
type OrderRepository interface {
	CreateOrder(ctx context.Context, req *entity.OrderRequest) (*entity.Order, error)
	ListOrders(ctx context.Context, filter entity.OrderFilter) ([]entity.Order, error)
	NextPONumber(ctx context.Context) (string, error)
}

// SubmissionLatch guards against a second submission of the same draft while
// the first one is still in flight.
type SubmissionLatch interface {
	// Acquire returns apperror.ErrSubmissionInFlight when the key is held.
	Acquire(ctx context.Context, key string) (release func(), err error)
}
