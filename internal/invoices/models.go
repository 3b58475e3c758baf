package invoices

import "time"

// Item is a frozen snapshot of a product line at checkout time. Later edits to
// the product do not propagate here.
type Item struct {
	ProductID  string `json:"product_id"`
	Title      string `json:"title"`
	Thumbnail  string `json:"thumbnail"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

type Invoice struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	Items      []Item    `json:"items"`
	TotalCents int64     `json:"total_cents"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Stats is the admin dashboard aggregate.
type Stats struct {
	TotalOrders  int64 `json:"total_orders"`
	Pending      int64 `json:"pending"`
	Completed    int64 `json:"completed"`
	Cancelled    int64 `json:"cancelled"`
	RevenueCents int64 `json:"revenue_cents"`
}
