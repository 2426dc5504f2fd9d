package models

// CartLineItem is one distinct (menu item, restaurant) entry in a cart.
// The ID is a composite key derived from the restaurant and menu item,
// not a database identity.
type CartLineItem struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	RestaurantID string  `json:"restaurantId"`
	Quantity     int     `json:"quantity"`
}

// CartView is the cart representation returned to the frontend.
type CartView struct {
	Items         []CartLineItem `json:"items"`
	Total         float64        `json:"total"`
	TotalQuantity int            `json:"total_quantity"`
}
