package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/po-composer/internal/application/service"
	"github.com/sangkips/po-composer/internal/domain/entity"
	"github.com/sangkips/po-composer/internal/domain/enum"
	"github.com/sangkips/po-composer/internal/presentation/http/dto/request"
	"github.com/sangkips/po-composer/internal/presentation/http/dto/response"
	"github.com/sangkips/po-composer/pkg/pagination"
)

// OrderHandler serves the read-only orders listing
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List handles listing orders filtered by text and status
func (h *OrderHandler) List(c *gin.Context) {
	var req request.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	filter := entity.OrderFilter{Search: req.Search}
	if req.Status != "" {
		status, ok := enum.ParseOrderStatus(req.Status)
		if !ok {
			response.BadRequest(c, "Unknown order status")
			return
		}
		filter.Status = status
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), filter, pagination.PaginationParams{
		Page:    req.Page,
		PerPage: req.PerPage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	summaries := pagination.NewPaginatedResult(response.NewOrderSummaries(result.Items), result.Pagination)
	response.SuccessWithPagination(c, http.StatusOK, "Orders retrieved", summaries)
}
