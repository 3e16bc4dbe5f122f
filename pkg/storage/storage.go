package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// Store is a durable key-value store holding whole serialized values.
// Reads and writes are always whole-value; there are no partial updates.
type Store interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Slot binds a Store to a single key. Components that own exactly one
// persisted value (cart state, search history, auth session) hold a Slot
// instead of the whole store.
type Slot struct {
	store Store
	key   string
}

// NewSlot creates a slot for key on store.
func NewSlot(store Store, key string) Slot {
	return Slot{store: store, key: key}
}

func (s Slot) Read(ctx context.Context) ([]byte, error) {
	return s.store.Read(ctx, s.key)
}

func (s Slot) Write(ctx context.Context, value []byte) error {
	return s.store.Write(ctx, s.key, value)
}

func (s Slot) Delete(ctx context.Context) error {
	return s.store.Delete(ctx, s.key)
}

// Key returns the bound key, for logging.
func (s Slot) Key() string {
	return s.key
}
