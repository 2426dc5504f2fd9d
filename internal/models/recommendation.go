package models

// RecommendationRequest is the payload sent to the menu recommendation
// microservice.
type RecommendationRequest struct {
	RestaurantMenu     []MenuItem `json:"restaurant_menu"`
	UserPreviousOrders []string   `json:"user_previous_orders"`
	UserPreference     string     `json:"user_preference,omitempty"`
}

// Recommendation is the microservice's structured answer.
type Recommendation struct {
	RecommendedItems []string `json:"recommended_items"`
	Reasoning        string   `json:"reasoning"`
}
