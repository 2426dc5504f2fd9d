package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quickbite/storefront/internal/cart"
	"github.com/quickbite/storefront/internal/models"
	"github.com/quickbite/storefront/internal/session"
)

// UnknownRestaurant is the sentinel group for line items whose
// restaurant association cannot be resolved. Such items are still
// ordered, not rejected.
const UnknownRestaurant = "unknown"

var (
	ErrEmptyCart        = errors.New("your cart is empty")
	ErrSubmissionFailed = errors.New("failed to place order")
)

// Creator submits a single order to the upstream backend.
type Creator interface {
	CreateOrder(ctx context.Context, token string, order models.Order) (*models.Order, error)
}

// Resolver reports whether a restaurant id is resolvable. A nil
// resolver treats every non-empty id as resolvable.
type Resolver interface {
	Known(id string) bool
}

// Submitter turns a session's cart into one backend order per
// restaurant and places them all.
type Submitter struct {
	upstream Creator
	cart     *cart.Store
	resolver Resolver
	log      *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewSubmitter creates an order submitter. resolver may be nil.
func NewSubmitter(upstream Creator, cartStore *cart.Store, resolver Resolver, log *slog.Logger) *Submitter {
	return &Submitter{
		upstream: upstream,
		cart:     cartStore,
		resolver: resolver,
		log:      log,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// Result reports a completed checkout.
type Result struct {
	Orders   []models.Order `json:"orders"`
	Redirect string         `json:"redirect"`
}

// group is one per-restaurant partition of the cart. Groups keep the
// first-seen order of restaurants and items keep cart insertion order.
type group struct {
	restaurantID string
	items        []models.CartLineItem
}

// submitResult holds the outcome of submitting a single group.
type submitResult struct {
	index int
	order *models.Order
	err   error
}

// Submit partitions the session's cart by restaurant and places one
// upstream order per group, all concurrently, awaiting every outcome.
// The cart is cleared only when every group succeeds; on any failure
// the cart is left intact so checkout can be retried, and a single
// aggregated error is returned. There is no cross-group rollback:
// groups that succeeded exist upstream and show up in order history.
func (s *Submitter) Submit(ctx context.Context, sess *session.Session, paymentMethod, instructions string) (*Result, error) {
	if sess == nil {
		return nil, cart.ErrNotAuthenticated
	}

	items := s.cart.Items(sess)
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	groups := s.partition(items)
	orders := make([]models.Order, len(groups))
	for i, g := range groups {
		orders[i] = s.buildOrder(g, paymentMethod, instructions)
	}

	// Fire all submissions, then wait for every outcome.
	resultChan := make(chan submitResult, len(orders))
	var wg sync.WaitGroup

	for i := range orders {
		wg.Add(1)
		go func(index int, o models.Order) {
			defer wg.Done()

			created, err := s.upstream.CreateOrder(ctx, sess.UpstreamToken, o)
			resultChan <- submitResult{index: index, order: created, err: err}
		}(i, orders[i])
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]submitResult, len(orders))
	for r := range resultChan {
		results[r.index] = r
	}

	placed := make([]models.Order, 0, len(orders))
	var failures []string
	for i, r := range results {
		if r.err != nil {
			s.log.Error("order submission failed",
				"restaurant_id", groups[i].restaurantID,
				"order_id", orders[i].ID,
				"error", r.err,
			)
			failures = append(failures, fmt.Sprintf("%s: %v", groups[i].restaurantID, r.err))
			continue
		}
		if r.order != nil {
			placed = append(placed, *r.order)
		} else {
			placed = append(placed, orders[i])
		}
	}

	if len(failures) > 0 {
		return nil, fmt.Errorf("%w for %d of %d restaurants: %s",
			ErrSubmissionFailed, len(failures), len(orders), strings.Join(failures, "; "))
	}

	if err := s.cart.Clear(sess); err != nil {
		s.log.Warn("failed to clear cart after checkout", "user_id", sess.UserID, "error", err)
	}

	s.log.Info("checkout complete",
		"user_id", sess.UserID,
		"orders", len(placed),
	)

	return &Result{Orders: placed, Redirect: "/orders"}, nil
}

// partition groups cart line items by restaurant id, sending items with
// an empty or definitely-unknown id to the sentinel bucket.
func (s *Submitter) partition(items []models.CartLineItem) []group {
	index := make(map[string]int)
	var groups []group

	for _, item := range items {
		id := item.RestaurantID
		if id == "" || (s.resolver != nil && !s.resolver.Known(id)) {
			id = UnknownRestaurant
		}

		i, ok := index[id]
		if !ok {
			i = len(groups)
			index[id] = i
			groups = append(groups, group{restaurantID: id})
		}
		groups[i].items = append(groups[i].items, item)
	}

	return groups
}

// buildOrder assembles the backend order for one group. Line items keep
// cart insertion order.
func (s *Submitter) buildOrder(g group, paymentMethod, instructions string) models.Order {
	lines := make([]models.OrderLine, 0, len(g.items))
	var total float64

	for _, item := range g.items {
		lines = append(lines, models.OrderLine{
			MenuItemID:   item.ID,
			Name:         item.Name,
			Quantity:     item.Quantity,
			Price:        item.Price,
			RestaurantID: g.restaurantID,
		})
		total += item.Price * float64(item.Quantity)
	}

	now := s.now().UTC()
	return models.Order{
		ID:                  s.newID(),
		Items:               lines,
		TotalPrice:          total,
		Status:              models.OrderStatusPending,
		CreatedAt:           now,
		UpdatedAt:           now,
		PaymentMethod:       paymentMethod,
		SpecialInstructions: instructions,
		RestaurantID:        g.restaurantID,
	}
}
