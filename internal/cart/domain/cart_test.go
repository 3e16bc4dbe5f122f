package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "github.com/tair/parfum-storefront/internal/catalog/domain"
)

func product(id string, price float64) catalog.Product {
	return catalog.Product{ID: id, Name: "Perfume " + id, Price: price, IsActive: true}
}

func TestReduce_AddToCartScenario(t *testing.T) {
	p1 := product("p1", 100)

	state := Reduce(State{}, AddToCart{Product: p1})
	require.Len(t, state.Items, 1)
	assert.Equal(t, 1, state.Items[0].Quantity)
	assert.Equal(t, 100.0, state.TotalPrice())

	state = Reduce(state, AddToCart{Product: p1})
	require.Len(t, state.Items, 1, "re-adding increments quantity, no duplicate line")
	assert.Equal(t, 2, state.Items[0].Quantity)
	assert.Equal(t, 200.0, state.TotalPrice())

	state = Reduce(state, UpdateQuantity{ProductID: "p1", Quantity: 0})
	assert.Empty(t, state.Items)
}

func TestReduce_UpdateQuantityNonPositiveRemoves(t *testing.T) {
	for _, quantity := range []int{0, -1, -100} {
		state := Reduce(State{}, AddToCart{Product: product("p1", 50)})
		state = Reduce(state, UpdateQuantity{ProductID: "p1", Quantity: quantity})
		assert.Empty(t, state.Items, "quantity %d must remove the item", quantity)
	}
}

func TestReduce_UpdateQuantitySetsValue(t *testing.T) {
	state := Reduce(State{}, AddToCart{Product: product("p1", 25)})
	state = Reduce(state, UpdateQuantity{ProductID: "p1", Quantity: 7})

	assert.Equal(t, 7, state.ItemQuantity("p1"))
	assert.Equal(t, 175.0, state.TotalPrice())
}

func TestReduce_UpdateQuantityAbsentIsNoop(t *testing.T) {
	state := Reduce(State{}, AddToCart{Product: product("p1", 25)})
	next := Reduce(state, UpdateQuantity{ProductID: "ghost", Quantity: 3})

	assert.Equal(t, state, next)
}

func TestReduce_RemoveFromCartAbsentIsNoop(t *testing.T) {
	state := Reduce(State{}, AddToCart{Product: product("p1", 25)})
	next := Reduce(state, RemoveFromCart{ProductID: "ghost"})

	assert.Equal(t, state.Items, next.Items)
}

func TestReduce_ClearCartKeepsWishlist(t *testing.T) {
	state := Reduce(State{}, AddToCart{Product: product("p1", 10)})
	state = Reduce(state, AddToWishlist{Product: product("w1", 20)})
	state = Reduce(state, ClearCart{})

	assert.Empty(t, state.Items)
	assert.True(t, state.IsInWishlist("w1"))
}

func TestReduce_WishlistAddIsIdempotent(t *testing.T) {
	w := product("w1", 20)

	once := Reduce(State{}, AddToWishlist{Product: w})
	twice := Reduce(once, AddToWishlist{Product: w})

	assert.Equal(t, once.Wishlist, twice.Wishlist)
	assert.Len(t, twice.Wishlist, 1)
}

func TestReduce_RemoveFromWishlist(t *testing.T) {
	state := Reduce(State{}, AddToWishlist{Product: product("w1", 20)})
	state = Reduce(state, AddToWishlist{Product: product("w2", 30)})

	state = Reduce(state, RemoveFromWishlist{ProductID: "w1"})
	assert.False(t, state.IsInWishlist("w1"))
	assert.True(t, state.IsInWishlist("w2"))

	// Absent id is a no-op, not an error.
	state = Reduce(state, RemoveFromWishlist{ProductID: "ghost"})
	assert.Len(t, state.Wishlist, 1)
}

func TestReduce_ClearWishlistKeepsCart(t *testing.T) {
	state := Reduce(State{}, AddToCart{Product: product("p1", 10)})
	state = Reduce(state, AddToWishlist{Product: product("w1", 20)})
	state = Reduce(state, ClearWishlist{})

	assert.Empty(t, state.Wishlist)
	assert.Len(t, state.Items, 1)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	base := Reduce(State{}, AddToCart{Product: product("p1", 10)})

	_ = Reduce(base, AddToCart{Product: product("p1", 10)})
	_ = Reduce(base, UpdateQuantity{ProductID: "p1", Quantity: 9})
	_ = Reduce(base, ClearCart{})

	assert.Equal(t, 1, base.ItemQuantity("p1"), "reducer must not mutate its input")
}

func TestReduce_LoadStateReplacesEverything(t *testing.T) {
	state := Reduce(State{}, AddToCart{Product: product("p1", 10)})

	loaded := State{
		Items:    []CartItem{{Product: product("p2", 42), Quantity: 3}},
		Wishlist: []catalog.Product{product("w1", 5)},
	}
	state = Reduce(state, LoadState{State: loaded})

	assert.Equal(t, 0, state.ItemQuantity("p1"))
	assert.Equal(t, 3, state.ItemQuantity("p2"))
	assert.True(t, state.IsInWishlist("w1"))
}

func TestState_Totals(t *testing.T) {
	state := State{}
	assert.Equal(t, 0, state.TotalItems())
	assert.Equal(t, 0.0, state.TotalPrice())

	state = Reduce(state, AddToCart{Product: product("p1", 100)})
	state = Reduce(state, AddToCart{Product: product("p2", 50)})
	state = Reduce(state, UpdateQuantity{ProductID: "p2", Quantity: 4})

	assert.Equal(t, 5, state.TotalItems())
	assert.Equal(t, 300.0, state.TotalPrice())
}
