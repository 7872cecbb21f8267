package request

// ListOrdersRequest represents the orders listing filters
type ListOrdersRequest struct {
	Search  string `form:"search"`
	Status  string `form:"status"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
