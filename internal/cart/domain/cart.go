// Package domain holds the cart/wishlist state and its reducer. Every
// action is a total function over the state: no action is ever rejected,
// removal of an absent item is a no-op, and an item with quantity <= 0
// cannot exist since removal is the only representation of zero.
package domain

import (
	catalog "github.com/tair/parfum-storefront/internal/catalog/domain"
)

// CartItem is a product reference with a purchase quantity. The cart does
// not own the product; it keeps the snapshot the API handed out, for
// display and pricing.
type CartItem struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// State is the root cart/wishlist aggregate. Items are ordered and unique
// by product id; the wishlist is a set of products keyed by id.
type State struct {
	Items    []CartItem        `json:"items"`
	Wishlist []catalog.Product `json:"wishlist"`
}

// Action is one of the cart/wishlist state transitions.
type Action interface {
	isAction()
}

type AddToCart struct{ Product catalog.Product }

type RemoveFromCart struct{ ProductID string }

// UpdateQuantity sets an item's quantity. Quantity <= 0 removes the item.
type UpdateQuantity struct {
	ProductID string
	Quantity  int
}

type ClearCart struct{}

type AddToWishlist struct{ Product catalog.Product }

type RemoveFromWishlist struct{ ProductID string }

type ClearWishlist struct{}

// LoadState replaces the whole state, used for hydration from storage.
type LoadState struct{ State State }

func (AddToCart) isAction()          {}
func (RemoveFromCart) isAction()     {}
func (UpdateQuantity) isAction()     {}
func (ClearCart) isAction()          {}
func (AddToWishlist) isAction()      {}
func (RemoveFromWishlist) isAction() {}
func (ClearWishlist) isAction()      {}
func (LoadState) isAction()          {}

// Reduce applies an action to a state and returns the next state. It is
// pure: the input state is never modified.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case AddToCart:
		next := state.clone()
		for i := range next.Items {
			if next.Items[i].Product.ID == a.Product.ID {
				next.Items[i].Quantity++
				return next
			}
		}
		next.Items = append(next.Items, CartItem{Product: a.Product, Quantity: 1})
		return next

	case RemoveFromCart:
		next := state.clone()
		next.Items = removeItem(next.Items, a.ProductID)
		return next

	case UpdateQuantity:
		next := state.clone()
		if a.Quantity <= 0 {
			next.Items = removeItem(next.Items, a.ProductID)
			return next
		}
		for i := range next.Items {
			if next.Items[i].Product.ID == a.ProductID {
				next.Items[i].Quantity = a.Quantity
				break
			}
		}
		return next

	case ClearCart:
		next := state.clone()
		next.Items = nil
		return next

	case AddToWishlist:
		if state.IsInWishlist(a.Product.ID) {
			return state.clone()
		}
		next := state.clone()
		next.Wishlist = append(next.Wishlist, a.Product)
		return next

	case RemoveFromWishlist:
		next := state.clone()
		kept := next.Wishlist[:0]
		for _, p := range next.Wishlist {
			if p.ID != a.ProductID {
				kept = append(kept, p)
			}
		}
		next.Wishlist = kept
		return next

	case ClearWishlist:
		next := state.clone()
		next.Wishlist = nil
		return next

	case LoadState:
		return a.State.clone()

	default:
		return state.clone()
	}
}

// TotalItems returns the sum of quantities across all cart items.
func (s State) TotalItems() int {
	total := 0
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice returns the cart total, recomputed on every call.
func (s State) TotalPrice() float64 {
	total := 0.0
	for _, item := range s.Items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// ItemQuantity returns the quantity for a product id, 0 when absent.
func (s State) ItemQuantity(productID string) int {
	for _, item := range s.Items {
		if item.Product.ID == productID {
			return item.Quantity
		}
	}
	return 0
}

// IsInWishlist reports wishlist membership by product id.
func (s State) IsInWishlist(productID string) bool {
	for _, p := range s.Wishlist {
		if p.ID == productID {
			return true
		}
	}
	return false
}

func (s State) clone() State {
	next := State{}
	if s.Items != nil {
		next.Items = make([]CartItem, len(s.Items))
		copy(next.Items, s.Items)
	}
	if s.Wishlist != nil {
		next.Wishlist = make([]catalog.Product, len(s.Wishlist))
		copy(next.Wishlist, s.Wishlist)
	}
	return next
}

func removeItem(items []CartItem, productID string) []CartItem {
	kept := items[:0]
	for _, item := range items {
		if item.Product.ID != productID {
			kept = append(kept, item)
		}
	}
	return kept
}
