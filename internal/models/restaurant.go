package models

// MenuItem is one entry of a restaurant menu.
type MenuItem struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	Category       string  `json:"category"`
	SpicinessLevel int     `json:"spiciness_level,omitempty"`
	IsVegetarian   bool    `json:"is_vegetarian"`
	Available      bool    `json:"available"`
}

// Restaurant matches the backend restaurant schema.
type Restaurant struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	CuisineType string     `json:"cuisine_type"`
	Rating      float64    `json:"rating"`
	Address     string     `json:"address"`
	Menu        []MenuItem `json:"menu"`
}

// RestaurantFilter narrows the restaurant listing.
type RestaurantFilter struct {
	Cuisine   string
	MinRating float64
}
