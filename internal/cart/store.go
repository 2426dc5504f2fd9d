package cart

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/quickbite/storefront/internal/models"
	"github.com/quickbite/storefront/internal/repository"
	"github.com/quickbite/storefront/internal/session"
)

var (
	ErrNotAuthenticated = errors.New("please sign in to modify the cart")
)

// Store holds the in-memory carts of active sessions, keyed by user id.
// Each cart is an ordered sequence of line items; insertion order is
// display order and no two line items share an id. Every mutation made
// by an authenticated session re-persists the full snapshot.
type Store struct {
	mu        sync.Mutex
	carts     map[string][]models.CartLineItem
	snapshots repository.SnapshotRepository
	log       *slog.Logger
}

// NewStore creates a cart store. snapshots may be nil, in which case
// carts live only in memory.
func NewStore(snapshots repository.SnapshotRepository, log *slog.Logger) *Store {
	return &Store{
		carts:     make(map[string][]models.CartLineItem),
		snapshots: snapshots,
		log:       log,
	}
}

// Restore loads the persisted snapshot for a returning user, replacing
// whatever is in memory. A missing snapshot is not an error.
func (s *Store) Restore(sess *session.Session) error {
	if sess == nil {
		return ErrNotAuthenticated
	}
	if s.snapshots == nil {
		return nil
	}

	items, err := s.snapshots.Load(sess.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrSnapshotNotFound) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sess.UserID] = items
	return nil
}

// AddItem merges qty into an existing line item with the same id, or
// appends a new line item. A qty below 1 is treated as 1. Without a
// session nothing is mutated and the caller gets a failure signal to
// prompt re-authentication.
func (s *Store) AddItem(sess *session.Session, item models.CartLineItem, qty int) error {
	if sess == nil {
		return ErrNotAuthenticated
	}
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[sess.UserID]
	for i := range items {
		if items[i].ID == item.ID {
			items[i].Quantity += qty
			s.persist(sess.UserID, items)
			return nil
		}
	}

	item.Quantity = qty
	s.carts[sess.UserID] = append(items, item)
	s.persist(sess.UserID, s.carts[sess.UserID])
	return nil
}

// UpdateQuantity sets the quantity of a line item. A quantity of zero
// or below removes the line item instead; an absent id is a no-op.
func (s *Store) UpdateQuantity(sess *session.Session, id string, qty int) error {
	if sess == nil {
		return ErrNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[sess.UserID]
	for i := range items {
		if items[i].ID != id {
			continue
		}
		if qty <= 0 {
			items = append(items[:i], items[i+1:]...)
			s.carts[sess.UserID] = items
		} else {
			items[i].Quantity = qty
		}
		s.persist(sess.UserID, s.carts[sess.UserID])
		return nil
	}

	return nil
}

// RemoveItem removes a line item; an absent id is a no-op.
func (s *Store) RemoveItem(sess *session.Session, id string) error {
	if sess == nil {
		return ErrNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[sess.UserID]
	for i := range items {
		if items[i].ID == id {
			s.carts[sess.UserID] = append(items[:i], items[i+1:]...)
			s.persist(sess.UserID, s.carts[sess.UserID])
			return nil
		}
	}

	return nil
}

// Clear empties the cart and discards the persisted snapshot. Called on
// explicit clear, on checkout success and on logout.
func (s *Store) Clear(sess *session.Session) error {
	if sess == nil {
		return ErrNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sess.UserID)

	if s.snapshots != nil {
		if err := s.snapshots.Delete(sess.UserID); err != nil {
			return err
		}
	}
	return nil
}

// Items returns a copy of the cart in insertion order.
func (s *Store) Items(sess *session.Session) []models.CartLineItem {
	if sess == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[sess.UserID]
	out := make([]models.CartLineItem, len(items))
	copy(out, items)
	return out
}

// Total returns the sum of price times quantity over all line items,
// zero for an empty cart.
func (s *Store) Total(sess *session.Session) float64 {
	if sess == nil {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, item := range s.carts[sess.UserID] {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// View assembles the cart representation returned to the frontend.
func (s *Store) View(sess *session.Session) models.CartView {
	items := s.Items(sess)

	view := models.CartView{Items: items}
	if view.Items == nil {
		view.Items = []models.CartLineItem{}
	}
	for _, item := range items {
		view.Total += item.Price * float64(item.Quantity)
		view.TotalQuantity += item.Quantity
	}
	return view
}

// persist writes the snapshot for an authenticated user. Snapshot
// failures do not fail the cart operation; the in-memory cart remains
// the source of truth for the session.
func (s *Store) persist(userID string, items []models.CartLineItem) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Save(userID, items); err != nil && s.log != nil {
		s.log.Warn("failed to persist cart snapshot", "user_id", userID, "error", err)
	}
}
