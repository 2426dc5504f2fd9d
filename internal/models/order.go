package models

import "time"

// Order statuses used by the backend.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusPreparing = "PREPARING"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

// OrderLine is a single line of a backend order.
type OrderLine struct {
	MenuItemID   string  `json:"menu_item_id"`
	Name         string  `json:"name"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	RestaurantID string  `json:"restaurant_id"`
}

// Order matches the backend order schema for POST /orders/ and the
// order history endpoints.
type Order struct {
	ID                  string      `json:"id"`
	Items               []OrderLine `json:"items"`
	TotalPrice          float64     `json:"total_price"`
	Status              string      `json:"status"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
	PaymentMethod       string      `json:"payment_method"`
	SpecialInstructions string      `json:"special_instructions"`
	RestaurantID        string      `json:"restaurant_id"`
}
