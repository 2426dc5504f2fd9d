package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/quickbite/storefront/internal/models"
)

var (
	ErrSnapshotNotFound = errors.New("cart snapshot not found")
)

// SnapshotRepository defines the interface for persisted cart snapshots.
// A snapshot is the full cart of one user, written on every mutation
// while the user is authenticated and discarded on logout or clear.
type SnapshotRepository interface {
	Save(userID string, items []models.CartLineItem) error
	Load(userID string) ([]models.CartLineItem, error)
	Delete(userID string) error
	Close() error
}

var cartsBucket = []byte("carts")

// BoltSnapshotRepository implements SnapshotRepository on a local bbolt
// file, one bucket with the user id as key and the serialized cart as
// value.
type BoltSnapshotRepository struct {
	db *bolt.DB
}

// NewBoltSnapshotRepository opens (or creates) the snapshot file.
func NewBoltSnapshotRepository(path string) (*BoltSnapshotRepository, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cartsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create carts bucket: %w", err)
	}

	return &BoltSnapshotRepository{db: db}, nil
}

// Save writes the full cart snapshot for a user.
func (r *BoltSnapshotRepository) Save(userID string, items []models.CartLineItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart snapshot: %w", err)
	}

	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cartsBucket).Put([]byte(userID), data)
	})
}

// Load returns the persisted snapshot for a user.
func (r *BoltSnapshotRepository) Load(userID string) ([]models.CartLineItem, error) {
	var data []byte

	err := r.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(cartsBucket).Get([]byte(userID))
		if value == nil {
			return ErrSnapshotNotFound
		}
		data = append([]byte(nil), value...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var items []models.CartLineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart snapshot: %w", err)
	}

	return items, nil
}

// Delete discards the persisted snapshot for a user.
func (r *BoltSnapshotRepository) Delete(userID string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cartsBucket).Delete([]byte(userID))
	})
}

// Close closes the underlying store.
func (r *BoltSnapshotRepository) Close() error {
	return r.db.Close()
}
