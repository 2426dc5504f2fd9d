package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/quickbite/storefront/internal/models"
)

// Error is a non-2xx response from an upstream service, carrying the
// backend's human-readable detail message when one was provided.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// apiError mirrors the backend's error payload.
type apiError struct {
	Detail string `json:"detail"`
}

// tokenResponse mirrors the backend's OAuth2 token endpoint response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Client talks to the food-delivery REST backend and the menu
// recommendation microservice on behalf of storefront sessions.
type Client struct {
	backendURL     string
	recommenderURL string
	httpClient     *http.Client
	log            *slog.Logger
}

// NewClient creates a client for both upstream services.
func NewClient(backendURL, recommenderURL string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		backendURL:     strings.TrimRight(backendURL, "/"),
		recommenderURL: strings.TrimRight(recommenderURL, "/"),
		httpClient:     &http.Client{Timeout: timeout},
		log:            log,
	}
}

// do performs a JSON request and decodes the response into out when
// non-nil. Non-2xx responses become *Error values.
func (c *Client) do(ctx context.Context, method, rawURL, token string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload apiError
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return &Error{StatusCode: resp.StatusCode, Detail: payload.Detail}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode upstream response: %w", err)
		}
	}
	return nil
}

// Login exchanges credentials for an upstream bearer token via the
// backend's OAuth2 password-form token endpoint.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.backendURL+"/users/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload apiError
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return "", &Error{StatusCode: resp.StatusCode, Detail: payload.Detail}
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("upstream returned an empty access token")
	}
	return tok.AccessToken, nil
}

// Register creates a new backend user.
func (c *Client) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodPost, c.backendURL+"/users/register", "", reg, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Me fetches the user owning the given bearer token.
func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodGet, c.backendURL+"/users/me", token, nil, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateMe updates the authenticated user's profile.
func (c *Client) UpdateMe(ctx context.Context, token string, update models.ProfileUpdate) (*models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodPut, c.backendURL+"/users/me", token, update, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListRestaurants fetches restaurants, optionally filtered by cuisine
// and minimum rating.
func (c *Client) ListRestaurants(ctx context.Context, filter models.RestaurantFilter) ([]models.Restaurant, error) {
	endpoint := c.backendURL + "/restaurants/"

	params := url.Values{}
	if filter.Cuisine != "" {
		params.Set("cuisine", filter.Cuisine)
	}
	if filter.MinRating > 0 {
		params.Set("min_rating", strconv.FormatFloat(filter.MinRating, 'f', -1, 64))
	}
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var restaurants []models.Restaurant
	if err := c.do(ctx, http.MethodGet, endpoint, "", nil, &restaurants); err != nil {
		return nil, err
	}
	return restaurants, nil
}

// GetRestaurant fetches a single restaurant by id.
func (c *Client) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := c.do(ctx, http.MethodGet, c.backendURL+"/restaurants/"+url.PathEscape(id), "", nil, &restaurant)
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// CreateRestaurant creates a restaurant (admin surface).
func (c *Client) CreateRestaurant(ctx context.Context, token string, r models.Restaurant) (*models.Restaurant, error) {
	var created models.Restaurant
	err := c.do(ctx, http.MethodPost, c.backendURL+"/restaurants/", token, r, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateRestaurant updates a restaurant by id (admin surface).
func (c *Client) UpdateRestaurant(ctx context.Context, token, id string, r models.Restaurant) (*models.Restaurant, error) {
	var updated models.Restaurant
	err := c.do(ctx, http.MethodPut, c.backendURL+"/restaurants/"+url.PathEscape(id), token, r, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteRestaurant removes a restaurant by id (admin surface).
func (c *Client) DeleteRestaurant(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, c.backendURL+"/restaurants/"+url.PathEscape(id), token, nil, nil)
}

// AddMenuItem appends a menu item to a restaurant. The backend keys
// menu mutations by restaurant name.
func (c *Client) AddMenuItem(ctx context.Context, token, restaurantName string, item models.MenuItem) (*models.Restaurant, error) {
	var updated models.Restaurant
	endpoint := c.backendURL + "/restaurants/" + url.PathEscape(restaurantName) + "/menu"
	if err := c.do(ctx, http.MethodPost, endpoint, token, item, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteMenuItem removes a named menu item from a restaurant.
func (c *Client) DeleteMenuItem(ctx context.Context, token, restaurantName, itemName string) error {
	endpoint := c.backendURL + "/restaurants/" + url.PathEscape(restaurantName) + "/menu/" + url.PathEscape(itemName)
	return c.do(ctx, http.MethodDelete, endpoint, token, nil, nil)
}

// CreateOrder places one order with the backend.
func (c *Client) CreateOrder(ctx context.Context, token string, order models.Order) (*models.Order, error) {
	var created models.Order
	err := c.do(ctx, http.MethodPost, c.backendURL+"/orders/", token, order, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ListOrders fetches the authenticated user's order history.
func (c *Client) ListOrders(ctx context.Context, token string) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, c.backendURL+"/orders/", token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder fetches a single order by id.
func (c *Client) GetOrder(ctx context.Context, token, id string) (*models.Order, error) {
	var order models.Order
	err := c.do(ctx, http.MethodGet, c.backendURL+"/orders/"+url.PathEscape(id), token, nil, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Recommend asks the recommendation microservice for menu suggestions.
func (c *Client) Recommend(ctx context.Context, req models.RecommendationRequest) (*models.Recommendation, error) {
	var rec models.Recommendation
	err := c.do(ctx, http.MethodPost, c.recommenderURL+"/recommend/", "", req, &rec)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
