package service

import (
	"context"

	"planet-beauty/internal/model"

	"github.com/google/uuid"
)

// ProductService defines read access to the retail catalogue.
type ProductService interface {
	// List retrieves products matching the filter. Limit is clamped to 1..100.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)
}

// CartService defines operations on a user's server-side cart.
// Every returned cart has its lines populated with live product details.
type CartService interface {
	// Get returns the cart, creating an empty one if none exists.
	Get(ctx context.Context, userID string) (*model.Cart, error)

	// Add increments the product's quantity, inserting the line when missing.
	Add(ctx context.Context, userID, productID string, quantity int) (*model.Cart, error)

	// Remove deletes a line. The cart must exist; the line need not.
	Remove(ctx context.Context, userID, productID string) (*model.Cart, error)

	// SetQuantity overwrites a line's quantity.
	SetQuantity(ctx context.Context, userID, productID string, quantity int) (*model.Cart, error)

	// Clear empties the cart.
	Clear(ctx context.Context, userID string) error

	// Merge folds guest cart lines into the cart with Add semantics. Unknown products are skipped.
	Merge(ctx context.Context, userID string, lines []model.CartLine) (*model.MergeResult, error)
}

// CheckoutService opens hosted payment sessions.
type CheckoutService interface {
	// CreateSession prices the request against the catalogue and opens a provider session.
	// A nil identity is a guest checkout.
	CreateSession(ctx context.Context, identity *model.Identity, req *model.CheckoutRequest) (*model.CheckoutSession, error)
}

// OrderService defines order reconciliation and management.
type OrderService interface {
	// Reconcile turns a paid checkout session into exactly one order.
	Reconcile(ctx context.Context, sessionID string) (*model.ReconcileResult, error)

	// List returns the caller's orders, or every order for an admin.
	List(ctx context.Context, identity *model.Identity, page, limit int) (*model.OrderList, error)

	// GetByID returns an order visible to the caller.
	GetByID(ctx context.Context, identity *model.Identity, id uuid.UUID) (*model.Order, error)

	// UpdateStatus applies an admin fulfillment change.
	UpdateStatus(ctx context.Context, id uuid.UUID, update *model.OrderStatusUpdate) (*model.Order, error)

	// Stats summarises revenue and counts for the admin dashboard.
	Stats(ctx context.Context) (*model.Stats, error)
}

// BookingService defines salon services and reservations.
type BookingService interface {
	ListServices(ctx context.Context, filter model.SalonServiceFilter) ([]model.SalonService, error)

	// Create reserves a slot. A nil identity is a guest booking.
	Create(ctx context.Context, identity *model.Identity, req *model.CreateBookingRequest) (*model.Booking, error)

	// List returns the caller's bookings, or all bookings matching the filter for an admin.
	List(ctx context.Context, identity *model.Identity, filter model.BookingFilter) ([]model.Booking, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	Update(ctx context.Context, id uuid.UUID, update *model.BookingUpdate) (*model.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AuthService defines account creation and login.
type AuthService interface {
	Signup(ctx context.Context, req *model.SignupRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
	Me(ctx context.Context, identity *model.Identity) (*model.User, error)
}

// UserService defines profile access. A customer sees only their own account;
// an admin sees every account.
type UserService interface {
	Get(ctx context.Context, identity *model.Identity, id uuid.UUID) (*model.User, error)

	// Update applies the allow-listed profile fields.
	Update(ctx context.Context, identity *model.Identity, id uuid.UUID, update *model.UserUpdate) (*model.User, error)

	// List returns one page of accounts. Admin only.
	List(ctx context.Context, identity *model.Identity, page, limit int) (*model.UserList, error)
}
