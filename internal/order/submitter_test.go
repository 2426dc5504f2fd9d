package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/quickbite/storefront/internal/cart"
	"github.com/quickbite/storefront/internal/models"
	"github.com/quickbite/storefront/internal/session"
	"github.com/quickbite/storefront/pkg/logger"
)

// fakeCreator records submitted orders and fails the restaurants it is
// told to fail.
type fakeCreator struct {
	mu      sync.Mutex
	created []models.Order
	failFor map[string]bool
}

func (f *fakeCreator) CreateOrder(_ context.Context, _ string, order models.Order) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failFor[order.RestaurantID] {
		return nil, errors.New("backend rejected order")
	}
	f.created = append(f.created, order)
	return &order, nil
}

func (f *fakeCreator) orders() []models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Order(nil), f.created...)
}

// fakeResolver knows a fixed set of restaurant ids.
type fakeResolver struct {
	known map[string]bool
}

func (f *fakeResolver) Known(id string) bool {
	return f.known[id]
}

func newTestCart(t *testing.T, sess *session.Session, items ...models.CartLineItem) *cart.Store {
	t.Helper()
	store := cart.NewStore(nil, logger.New("error"))
	for _, item := range items {
		if err := store.AddItem(sess, item, item.Quantity); err != nil {
			t.Fatalf("failed to seed cart: %v", err)
		}
	}
	return store
}

func testSession() *session.Session {
	return &session.Session{UserID: "user-1", Email: "user@example.com", UpstreamToken: "token-1"}
}

func TestSubmitter_Submit(t *testing.T) {
	burger := models.CartLineItem{ID: "r1-burger", Name: "Classic Burger", Price: 5, RestaurantID: "r1", Quantity: 2}
	sushi := models.CartLineItem{ID: "r2-sushi", Name: "Sushi Set", Price: 10, RestaurantID: "r2", Quantity: 1}

	t.Run("one order per restaurant with per-group totals", func(t *testing.T) {
		sess := testSession()
		store := newTestCart(t, sess, burger, sushi)
		creator := &fakeCreator{}
		sub := NewSubmitter(creator, store, nil, logger.New("error"))

		result, err := sub.Submit(context.Background(), sess, "credit_card", "no onions")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(result.Orders) != 2 {
			t.Fatalf("got %d orders, want 2", len(result.Orders))
		}
		if result.Redirect != "/orders" {
			t.Errorf("redirect = %q, want /orders", result.Redirect)
		}

		byRestaurant := make(map[string]models.Order)
		for _, o := range result.Orders {
			byRestaurant[o.RestaurantID] = o
		}
		if o := byRestaurant["r1"]; o.TotalPrice != 10 {
			t.Errorf("r1 total = %f, want 10", o.TotalPrice)
		}
		if o := byRestaurant["r2"]; o.TotalPrice != 10 {
			t.Errorf("r2 total = %f, want 10", o.TotalPrice)
		}

		for _, o := range result.Orders {
			if o.Status != models.OrderStatusPending {
				t.Errorf("order %s status = %q, want %q", o.ID, o.Status, models.OrderStatusPending)
			}
			if o.PaymentMethod != "credit_card" {
				t.Errorf("order %s payment method = %q", o.ID, o.PaymentMethod)
			}
			if o.SpecialInstructions != "no onions" {
				t.Errorf("order %s instructions = %q", o.ID, o.SpecialInstructions)
			}
			if o.ID == "" {
				t.Error("order id is empty")
			}
		}

		// All groups succeeded, so the cart is cleared.
		if items := store.Items(sess); len(items) != 0 {
			t.Errorf("cart not cleared, %d items remain", len(items))
		}
	})

	t.Run("unresolvable restaurants collapse into the unknown group", func(t *testing.T) {
		sess := testSession()
		mystery := models.CartLineItem{ID: "x-soup", Name: "Soup", Price: 3, RestaurantID: "ghost", Quantity: 1}
		noID := models.CartLineItem{ID: "x-roll", Name: "Roll", Price: 2, RestaurantID: "", Quantity: 1}
		store := newTestCart(t, sess, burger, mystery, noID)

		creator := &fakeCreator{}
		resolver := &fakeResolver{known: map[string]bool{"r1": true, "r2": true}}
		sub := NewSubmitter(creator, store, resolver, logger.New("error"))

		result, err := sub.Submit(context.Background(), sess, "paypal", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Orders) != 2 {
			t.Fatalf("got %d orders, want 2", len(result.Orders))
		}

		var unknown *models.Order
		for i := range result.Orders {
			if result.Orders[i].RestaurantID == UnknownRestaurant {
				unknown = &result.Orders[i]
			}
		}
		if unknown == nil {
			t.Fatal("no order for the unknown group")
		}
		if len(unknown.Items) != 2 {
			t.Fatalf("unknown group has %d items, want 2", len(unknown.Items))
		}
		if unknown.Items[0].MenuItemID != "x-soup" || unknown.Items[1].MenuItemID != "x-roll" {
			t.Errorf("unknown group order = [%s, %s], want cart insertion order",
				unknown.Items[0].MenuItemID, unknown.Items[1].MenuItemID)
		}
		if unknown.TotalPrice != 5 {
			t.Errorf("unknown group total = %f, want 5", unknown.TotalPrice)
		}
	})

	t.Run("a failed group leaves the cart intact with one aggregated error", func(t *testing.T) {
		sess := testSession()
		store := newTestCart(t, sess, burger, sushi)
		creator := &fakeCreator{failFor: map[string]bool{"r2": true}}
		sub := NewSubmitter(creator, store, nil, logger.New("error"))

		result, err := sub.Submit(context.Background(), sess, "credit_card", "")
		if result != nil {
			t.Errorf("result = %+v, want nil", result)
		}
		if !errors.Is(err, ErrSubmissionFailed) {
			t.Fatalf("error = %v, want ErrSubmissionFailed", err)
		}
		if !strings.Contains(err.Error(), "1 of 2") {
			t.Errorf("error %q does not report the failed group count", err)
		}

		if items := store.Items(sess); len(items) != 2 {
			t.Errorf("cart has %d items after failure, want 2 (untouched)", len(items))
		}
	})

	t.Run("empty cart fails without contacting the backend", func(t *testing.T) {
		sess := testSession()
		store := newTestCart(t, sess)
		creator := &fakeCreator{}
		sub := NewSubmitter(creator, store, nil, logger.New("error"))

		_, err := sub.Submit(context.Background(), sess, "credit_card", "")
		if !errors.Is(err, ErrEmptyCart) {
			t.Errorf("error = %v, want ErrEmptyCart", err)
		}
		if len(creator.orders()) != 0 {
			t.Errorf("backend received %d orders for an empty cart", len(creator.orders()))
		}
	})

	t.Run("nil session is rejected", func(t *testing.T) {
		store := cart.NewStore(nil, logger.New("error"))
		sub := NewSubmitter(&fakeCreator{}, store, nil, logger.New("error"))

		_, err := sub.Submit(context.Background(), nil, "credit_card", "")
		if !errors.Is(err, cart.ErrNotAuthenticated) {
			t.Errorf("error = %v, want cart.ErrNotAuthenticated", err)
		}
	})

	t.Run("many restaurants all submit", func(t *testing.T) {
		sess := testSession()
		var items []models.CartLineItem
		for i := 0; i < 10; i++ {
			items = append(items, models.CartLineItem{
				ID:           fmt.Sprintf("r%d-dish", i),
				Name:         fmt.Sprintf("Dish %d", i),
				Price:        1,
				RestaurantID: fmt.Sprintf("r%d", i),
				Quantity:     1,
			})
		}
		store := newTestCart(t, sess, items...)
		creator := &fakeCreator{}
		sub := NewSubmitter(creator, store, nil, logger.New("error"))

		result, err := sub.Submit(context.Background(), sess, "paypal", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Orders) != 10 {
			t.Errorf("got %d orders, want 10", len(result.Orders))
		}
		if len(creator.orders()) != 10 {
			t.Errorf("backend received %d orders, want 10", len(creator.orders()))
		}
	})
}
