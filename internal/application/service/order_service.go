package service

import (
	"context"

	"github.com/sangkips/po-composer/internal/domain/entity"
	"github.com/sangkips/po-composer/internal/domain/repository"
	"github.com/sangkips/po-composer/pkg/pagination"
)

// OrderService is the read-only orders listing
type OrderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService creates a new order service
func NewOrderService(orderRepo repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// ListOrders fetches the backend's filtered listing and returns one page of it.
func (s *OrderService) ListOrders(ctx context.Context, filter entity.OrderFilter, params pagination.PaginationParams) (*pagination.PaginatedResult[entity.Order], error) {
	orders, err := s.orderRepo.ListOrders(ctx, filter)
	if err != nil {
		return nil, err
	}
	return pagination.Paginate(orders, params), nil
}
