// Package cartclient keeps a shopper's cart on the client side: in memory while
// browsing as a guest, against the cart API once signed in, and merges the two
// when the shopper logs in.
package cartclient

import (
	"context"
	"errors"
)

var (
	// ErrInvalidQuantity is returned for quantities below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrItemNotFound is returned when updating a product that is not in the cart.
	ErrItemNotFound = errors.New("item not found in cart")
	// ErrNotAuthenticated is returned by operations that need a session.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Line is one product and its quantity.
type Line struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Cart is the behaviour shared by the guest and signed-in carts.
type Cart interface {
	Items(ctx context.Context) ([]Line, error)
	Add(ctx context.Context, productID string, quantity int) error
	Remove(ctx context.Context, productID string) error
	SetQuantity(ctx context.Context, productID string, quantity int) error
	Clear(ctx context.Context) error
}
