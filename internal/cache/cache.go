// Package cache holds the read-through cache in front of cart storage.
package cache

import (
	"context"
	"errors"

	"planet-beauty/internal/model"
)

// ErrCacheMiss is returned when no cart is cached for the user.
var ErrCacheMiss = errors.New("cache miss")

// CartCache stores carts as their persisted lines, without live product detail.
//
// Each user has a generation that Invalidate bumps. A reader takes Version before
// reading storage and fills with SetIfVersion, so a fill carrying a cart read
// before a mutation is discarded instead of overwriting the invalidation.
type CartCache interface {
	Get(ctx context.Context, userID string) (*model.Cart, error)

	// Version returns the user's current generation, 0 if none was recorded.
	Version(ctx context.Context, userID string) (int64, error)

	// SetIfVersion stores cart only while the generation still equals version.
	SetIfVersion(ctx context.Context, userID string, cart *model.Cart, version int64) (bool, error)

	// Invalidate drops the cached cart and bumps the generation.
	Invalidate(ctx context.Context, userID string) error
}

// Noop is used when caching is disabled. Every Get misses.
type Noop struct{}

func (Noop) Get(context.Context, string) (*model.Cart, error) { return nil, ErrCacheMiss }
func (Noop) Version(context.Context, string) (int64, error)   { return 0, nil }
func (Noop) Invalidate(context.Context, string) error         { return nil }

func (Noop) SetIfVersion(context.Context, string, *model.Cart, int64) (bool, error) {
	return false, nil
}
