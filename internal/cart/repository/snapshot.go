// Package repository persists cart state snapshots in a storage slot.
// Writes are always whole-state; the snapshot carries an explicit schema
// version so the layout can change between releases without silently
// corrupting hydration.
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tair/parfum-storefront/internal/cart/domain"
	catalog "github.com/tair/parfum-storefront/internal/catalog/domain"
	"github.com/tair/parfum-storefront/pkg/storage"
)

// SnapshotVersion is the current persisted schema version.
const SnapshotVersion = 1

type snapshot struct {
	Version  int               `json:"version"`
	Items    []domain.CartItem `json:"items"`
	Wishlist []catalog.Product `json:"wishlist"`
}

// SnapshotStore reads and writes full cart state snapshots.
type SnapshotStore struct {
	slot storage.Slot
}

// NewSnapshotStore creates a snapshot store over slot.
func NewSnapshotStore(slot storage.Slot) *SnapshotStore {
	return &SnapshotStore{slot: slot}
}

// Load reads and migrates the persisted snapshot. It returns
// storage.ErrNotFound when no snapshot was ever written.
func (s *SnapshotStore) Load(ctx context.Context) (domain.State, error) {
	data, err := s.slot.Read(ctx)
	if err != nil {
		return domain.State{}, err
	}
	return decode(data)
}

// Save serializes the full state and overwrites the slot.
func (s *SnapshotStore) Save(ctx context.Context, state domain.State) error {
	data, err := json.Marshal(snapshot{
		Version:  SnapshotVersion,
		Items:    state.Items,
		Wishlist: state.Wishlist,
	})
	if err != nil {
		return fmt.Errorf("failed to encode cart snapshot: %w", err)
	}
	return s.slot.Write(ctx, data)
}

func decode(data []byte) (domain.State, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.State{}, fmt.Errorf("corrupt cart snapshot: %w", err)
	}
	return migrate(snap)
}

// migrate upgrades older snapshot layouts to the current one. Version 0
// is the legacy layout that predates the version field; its items and
// wishlist fields are unchanged, so the upgrade is a relabel.
func migrate(snap snapshot) (domain.State, error) {
	switch snap.Version {
	case 0, SnapshotVersion:
		return domain.State{Items: snap.Items, Wishlist: snap.Wishlist}, nil
	default:
		return domain.State{}, fmt.Errorf("cart snapshot version %d is newer than supported version %d", snap.Version, SnapshotVersion)
	}
}
