package enum

// OrderStatus is the status label the backend stores on an order.
// The backend uses Arabic labels; the constants carry them verbatim.
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "مسودة"
	OrderStatusConfirmed OrderStatus = "مؤكد"
	OrderStatusCancelled OrderStatus = "ملغي"
)

// ParseOrderStatus accepts either the backend label or its English name.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch s {
	case string(OrderStatusDraft), "draft":
		return OrderStatusDraft, true
	case string(OrderStatusConfirmed), "confirmed":
		return OrderStatusConfirmed, true
	case string(OrderStatusCancelled), "cancelled":
		return OrderStatusCancelled, true
	}
	return "", false
}

// Label returns the English name of the status
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusDraft:
		return "draft"
	case OrderStatusConfirmed:
		return "confirmed"
	case OrderStatusCancelled:
		return "cancelled"
	}
	return string(s)
}
