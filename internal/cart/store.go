// Package cart implements the in-memory cart/wishlist store with
// write-through persistence. Mutations go through the pure reducer in the
// domain package; after every transition the full state is re-serialized
// to the snapshot slot.
package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tair/parfum-storefront/internal/cart/domain"
	"github.com/tair/parfum-storefront/internal/cart/repository"
	catalog "github.com/tair/parfum-storefront/internal/catalog/domain"
	"github.com/tair/parfum-storefront/pkg/logger"
	"github.com/tair/parfum-storefront/pkg/storage"
)

var operationCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_cart_operations_total",
		Help: "Total number of cart and wishlist operations",
	},
	[]string{"operation"},
)

// Store holds the authoritative cart/wishlist state. It is handed to
// consumers explicitly rather than looked up through any ambient global,
// so tests can run against their own instance.
type Store struct {
	mu        sync.Mutex
	state     domain.State
	snapshots *repository.SnapshotStore
}

// New creates a store and hydrates it from the snapshot slot. A missing
// snapshot starts empty; a corrupt one is logged and discarded rather
// than crashing the session.
func New(ctx context.Context, snapshots *repository.SnapshotStore) *Store {
	store := &Store{snapshots: snapshots}

	state, err := snapshots.Load(ctx)
	switch {
	case err == nil:
		store.state = domain.Reduce(domain.State{}, domain.LoadState{State: state})
		logger.Debug(ctx).
			Int("items", state.TotalItems()).
			Int("wishlist", len(state.Wishlist)).
			Msg("Cart state hydrated")
	case errors.Is(err, storage.ErrNotFound):
		logger.Debug(ctx).Msg("No cart snapshot, starting empty")
	default:
		logger.Warn(ctx).Err(err).Msg("Failed to hydrate cart state, starting empty")
	}

	return store
}

// AddToCart adds one unit of product, merging into an existing line item.
func (s *Store) AddToCart(ctx context.Context, product catalog.Product) {
	s.dispatch(ctx, "add_to_cart", domain.AddToCart{Product: product})
}

// RemoveFromCart deletes the line item for productID; no-op when absent.
func (s *Store) RemoveFromCart(ctx context.Context, productID string) {
	s.dispatch(ctx, "remove_from_cart", domain.RemoveFromCart{ProductID: productID})
}

// UpdateQuantity sets the quantity for productID. A quantity <= 0 removes
// the item. No upper bound is enforced here; stock limits are the calling
// layer's policy.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	s.dispatch(ctx, "update_quantity", domain.UpdateQuantity{ProductID: productID, Quantity: quantity})
}

// ClearCart empties the cart; the wishlist is unaffected.
func (s *Store) ClearCart(ctx context.Context) {
	s.dispatch(ctx, "clear_cart", domain.ClearCart{})
}

// AddToWishlist adds product to the wishlist; duplicate adds are no-ops.
func (s *Store) AddToWishlist(ctx context.Context, product catalog.Product) {
	s.dispatch(ctx, "add_to_wishlist", domain.AddToWishlist{Product: product})
}

// RemoveFromWishlist deletes the wishlist entry; no-op when absent.
func (s *Store) RemoveFromWishlist(ctx context.Context, productID string) {
	s.dispatch(ctx, "remove_from_wishlist", domain.RemoveFromWishlist{ProductID: productID})
}

// ClearWishlist empties the wishlist; the cart is unaffected.
func (s *Store) ClearWishlist(ctx context.Context) {
	s.dispatch(ctx, "clear_wishlist", domain.ClearWishlist{})
}

// TotalItems returns the sum of quantities across all cart items.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.TotalItems()
}

// TotalPrice returns the cart total.
func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.TotalPrice()
}

// IsInWishlist reports wishlist membership by product id.
func (s *Store) IsInWishlist(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsInWishlist(productID)
}

// State returns a copy of the current state.
func (s *Store) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Reduce(s.state, domain.LoadState{State: s.state})
}

// dispatch applies the action and write-through persists the result.
// Mutations are total functions: a failed snapshot write is logged but
// never surfaces to the caller, the in-memory state stays authoritative.
func (s *Store) dispatch(ctx context.Context, operation string, action domain.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = domain.Reduce(s.state, action)
	operationCounter.WithLabelValues(operation).Inc()

	if err := s.snapshots.Save(ctx, s.state); err != nil {
		logger.Warn(ctx).Err(err).Str("operation", operation).Msg("Failed to persist cart state")
	}
}
