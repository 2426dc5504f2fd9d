package cart

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/quickbite/storefront/internal/models"
	"github.com/quickbite/storefront/internal/repository"
	"github.com/quickbite/storefront/internal/session"
	"github.com/quickbite/storefront/pkg/logger"
)

func testSession() *session.Session {
	return &session.Session{UserID: "user-1", Email: "user@example.com"}
}

func burger() models.CartLineItem {
	return models.CartLineItem{ID: "r1-burger", Name: "Classic Burger", Price: 5, RestaurantID: "r1"}
}

func sushi() models.CartLineItem {
	return models.CartLineItem{ID: "r2-sushi", Name: "Sushi Set", Price: 10, RestaurantID: "r2"}
}

func TestStore_AddItem(t *testing.T) {
	sess := testSession()

	t.Run("quantities with the same id accumulate", func(t *testing.T) {
		store := NewStore(nil, logger.New("error"))

		if err := store.AddItem(sess, burger(), 2); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := store.AddItem(sess, burger(), 3); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := store.AddItem(sess, burger(), 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		items := store.Items(sess)
		if len(items) != 1 {
			t.Fatalf("expected 1 line item, got %d", len(items))
		}
		if items[0].Quantity != 6 {
			t.Errorf("quantity = %d, want 6", items[0].Quantity)
		}
	})

	t.Run("quantity below one defaults to one", func(t *testing.T) {
		store := NewStore(nil, logger.New("error"))

		if err := store.AddItem(sess, burger(), 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		items := store.Items(sess)
		if items[0].Quantity != 1 {
			t.Errorf("quantity = %d, want 1", items[0].Quantity)
		}
	})

	t.Run("unauthenticated add fails and mutates nothing", func(t *testing.T) {
		store := NewStore(nil, logger.New("error"))

		if err := store.AddItem(nil, burger(), 1); err != ErrNotAuthenticated {
			t.Errorf("error = %v, want ErrNotAuthenticated", err)
		}
		if items := store.Items(sess); len(items) != 0 {
			t.Errorf("expected empty cart, got %d items", len(items))
		}
	})

	t.Run("insertion order is preserved", func(t *testing.T) {
		store := NewStore(nil, logger.New("error"))

		_ = store.AddItem(sess, burger(), 1)
		_ = store.AddItem(sess, sushi(), 1)
		_ = store.AddItem(sess, burger(), 1)

		items := store.Items(sess)
		if len(items) != 2 {
			t.Fatalf("expected 2 line items, got %d", len(items))
		}
		if items[0].ID != "r1-burger" || items[1].ID != "r2-sushi" {
			t.Errorf("order = [%s, %s], want [r1-burger, r2-sushi]", items[0].ID, items[1].ID)
		}
	})
}

func TestStore_UpdateQuantity(t *testing.T) {
	sess := testSession()

	tests := []struct {
		name      string
		newQty    int
		wantItems int
		wantQty   int
	}{
		{name: "positive quantity is set", newQty: 5, wantItems: 1, wantQty: 5},
		{name: "zero removes the line item", newQty: 0, wantItems: 0},
		{name: "negative removes the line item", newQty: -1, wantItems: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(nil, logger.New("error"))
			_ = store.AddItem(sess, burger(), 2)

			if err := store.UpdateQuantity(sess, "r1-burger", tt.newQty); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			items := store.Items(sess)
			if len(items) != tt.wantItems {
				t.Fatalf("len(items) = %d, want %d", len(items), tt.wantItems)
			}
			if tt.wantItems > 0 && items[0].Quantity != tt.wantQty {
				t.Errorf("quantity = %d, want %d", items[0].Quantity, tt.wantQty)
			}
		})
	}

	t.Run("absent id is a no-op", func(t *testing.T) {
		store := NewStore(nil, logger.New("error"))
		_ = store.AddItem(sess, burger(), 2)

		if err := store.UpdateQuantity(sess, "missing", 7); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		items := store.Items(sess)
		if len(items) != 1 || items[0].Quantity != 2 {
			t.Errorf("cart changed on no-op update: %+v", items)
		}
	})
}

func TestStore_RemoveItem(t *testing.T) {
	sess := testSession()
	store := NewStore(nil, logger.New("error"))

	_ = store.AddItem(sess, burger(), 1)
	_ = store.AddItem(sess, sushi(), 1)

	if err := store.RemoveItem(sess, "r1-burger"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.RemoveItem(sess, "r1-burger"); err != nil {
		t.Fatalf("removing an absent id should be a no-op, got: %v", err)
	}

	items := store.Items(sess)
	if len(items) != 1 || items[0].ID != "r2-sushi" {
		t.Errorf("items = %+v, want only r2-sushi", items)
	}
}

func TestStore_Total(t *testing.T) {
	sess := testSession()

	t.Run("empty cart totals zero", func(t *testing.T) {
		store := NewStore(nil, logger.New("error"))
		if total := store.Total(sess); total != 0 {
			t.Errorf("total = %f, want 0", total)
		}
	})

	t.Run("total is price times quantity summed", func(t *testing.T) {
		store := NewStore(nil, logger.New("error"))
		_ = store.AddItem(sess, burger(), 2) // 10
		_ = store.AddItem(sess, sushi(), 1)  // 10

		if total := store.Total(sess); total != 20 {
			t.Errorf("total = %f, want 20", total)
		}
	})

	t.Run("total is invariant under add order", func(t *testing.T) {
		adds := []struct {
			item models.CartLineItem
			qty  int
		}{
			{burger(), 2},
			{sushi(), 1},
			{models.CartLineItem{ID: "r1-fries", Name: "Fries", Price: 2.5, RestaurantID: "r1"}, 4},
		}

		reference := NewStore(nil, logger.New("error"))
		for _, a := range adds {
			_ = reference.AddItem(sess, a.item, a.qty)
		}
		want := reference.Total(sess)

		for i := 0; i < 5; i++ {
			shuffled := make([]int, len(adds))
			for j := range shuffled {
				shuffled[j] = j
			}
			rand.Shuffle(len(shuffled), func(a, b int) {
				shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
			})

			store := NewStore(nil, logger.New("error"))
			for _, j := range shuffled {
				_ = store.AddItem(sess, adds[j].item, adds[j].qty)
			}
			if got := store.Total(sess); got != want {
				t.Fatalf("total = %f after reorder, want %f", got, want)
			}
		}
	})
}

func TestStore_SnapshotPersistence(t *testing.T) {
	sess := testSession()

	newRepo := func(t *testing.T) repository.SnapshotRepository {
		t.Helper()
		repo, err := repository.NewBoltSnapshotRepository(filepath.Join(t.TempDir(), "carts.db"))
		if err != nil {
			t.Fatalf("failed to open snapshot store: %v", err)
		}
		t.Cleanup(func() { repo.Close() })
		return repo
	}

	t.Run("mutations survive a restart via Restore", func(t *testing.T) {
		repo := newRepo(t)

		store := NewStore(repo, logger.New("error"))
		_ = store.AddItem(sess, burger(), 2)
		_ = store.AddItem(sess, sushi(), 1)
		_ = store.UpdateQuantity(sess, "r2-sushi", 3)

		restarted := NewStore(repo, logger.New("error"))
		if err := restarted.Restore(sess); err != nil {
			t.Fatalf("restore failed: %v", err)
		}

		items := restarted.Items(sess)
		if len(items) != 2 {
			t.Fatalf("expected 2 items after restore, got %d", len(items))
		}
		if items[0].ID != "r1-burger" || items[0].Quantity != 2 {
			t.Errorf("first item = %+v", items[0])
		}
		if items[1].ID != "r2-sushi" || items[1].Quantity != 3 {
			t.Errorf("second item = %+v", items[1])
		}
	})

	t.Run("clear discards the persisted snapshot", func(t *testing.T) {
		repo := newRepo(t)

		store := NewStore(repo, logger.New("error"))
		_ = store.AddItem(sess, burger(), 2)
		if err := store.Clear(sess); err != nil {
			t.Fatalf("clear failed: %v", err)
		}

		restarted := NewStore(repo, logger.New("error"))
		if err := restarted.Restore(sess); err != nil {
			t.Fatalf("restore failed: %v", err)
		}
		if items := restarted.Items(sess); len(items) != 0 {
			t.Errorf("expected empty cart after clear, got %d items", len(items))
		}
	})

	t.Run("restore without a snapshot is not an error", func(t *testing.T) {
		store := NewStore(newRepo(t), logger.New("error"))
		if err := store.Restore(sess); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
