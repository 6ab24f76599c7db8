package models

import (
	"time"
)

// OrderStatus is the workflow status of an order. The set is closed and
// seeded into the order_statuses table; free-text statuses are rejected
// at the boundary.
type OrderStatus string

const (
	StatusCreated   OrderStatus = "Created"
	StatusPreparing OrderStatus = "Preparing"
	StatusReady     OrderStatus = "Ready"
	StatusDelivered OrderStatus = "Delivered"
)

// StatusRow is a persisted order status (the enumeration's seed row).
type StatusRow struct {
	ID   int64       `json:"id" db:"id"`
	Name OrderStatus `json:"name" db:"name"`
}

// Order represents a customer order. ToadID is nil when the toad pool
// was exhausted at creation time; such orders never acquire a toad
// retroactively.
type Order struct {
	ID        int64       `json:"id" db:"id"`
	UserID    int64       `json:"user_id" db:"user_id"`
	ToadID    *int64      `json:"toad_id,omitempty" db:"toad_id"`
	StatusID  int64       `json:"-" db:"status_id"`
	Status    OrderStatus `json:"status" db:"status"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

// CartLine is one unit of one dish attached to one order. Quantity is
// derived by counting lines, never stored.
type CartLine struct {
	ID      int64 `json:"id" db:"id"`
	OrderID int64 `json:"order_id" db:"order_id"`
	DishID  int64 `json:"menu_item" db:"menu_item"`
}

// OrderViewItem is a dish in an order view with the derived quantity.
type OrderViewItem struct {
	Dish
	Quantity int `json:"quantity"`
}

// OrderView is the full order representation returned by the API: the
// order row joined with its status name and cart contents grouped by
// dish.
type OrderView struct {
	ID        int64           `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Status    OrderStatus     `json:"status"`
	ToadID    *int64          `json:"toad_id,omitempty"`
	Items     []OrderViewItem `json:"items"`
}

// NewOrderView assembles the API view of an order from its row and the
// flat dish-per-line cart contents. Lines for the same dish collapse
// into one item with a derived quantity; items keep first-appearance
// order.
func NewOrderView(o Order, cartDishes []Dish) OrderView {
	view := OrderView{
		ID:        o.ID,
		CreatedAt: o.CreatedAt,
		Status:    o.Status,
		ToadID:    o.ToadID,
		Items:     []OrderViewItem{},
	}
	index := make(map[int64]int)
	for _, d := range cartDishes {
		if i, ok := index[d.ID]; ok {
			view.Items[i].Quantity++
			continue
		}
		index[d.ID] = len(view.Items)
		view.Items = append(view.Items, OrderViewItem{Dish: d, Quantity: 1})
	}
	return view
}

// AddItemsRequest is the body of POST /api/cart/{orderID}.
type AddItemsRequest struct {
	MenuItems []int64 `json:"menu_items"`
}

// UpdateStatusRequest is the body of PUT /api/orders/{id}/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
