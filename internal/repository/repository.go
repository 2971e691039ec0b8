package repository

import (
	"context"
	"errors"
	"time"

	"planet-beauty/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var (
	// ErrDuplicateSession is returned when an order for the checkout session already exists.
	ErrDuplicateSession = errors.New("order already exists for checkout session")
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List retrieves products matching the filter with pagination support.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns nil, nil when absent.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs in one query.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// Count returns the number of products in the catalogue.
	Count(ctx context.Context) (int, error)

	// Upsert inserts or replaces a product keyed by ID.
	Upsert(ctx context.Context, p *model.Product) error
}

// SalonServiceRepository defines data access for bookable salon services.
type SalonServiceRepository interface {
	List(ctx context.Context, filter model.SalonServiceFilter) ([]model.SalonService, error)

	// GetByID returns nil, nil when the service does not exist.
	GetByID(ctx context.Context, id string) (*model.SalonService, error)

	Upsert(ctx context.Context, s *model.SalonService) error
}

// CartRepository defines per-user cart persistence.
// Implementations must apply AddItem as a single atomic increment-or-insert.
type CartRepository interface {
	// GetCart returns the cart or model.ErrCartNotFound.
	GetCart(ctx context.Context, userID string) (*model.Cart, error)

	// EnsureCart returns the cart, creating an empty one if none exists.
	EnsureCart(ctx context.Context, userID string) (*model.Cart, error)

	// AddItem increments the product's quantity, inserting the line (and cart) when missing.
	AddItem(ctx context.Context, userID, productID string, quantity int) error

	// SetQuantity returns model.ErrCartNotFound or model.ErrItemNotFound when the target is absent.
	SetQuantity(ctx context.Context, userID, productID string, quantity int) error

	// RemoveItem returns model.ErrCartNotFound when the cart is absent; a missing line is not an error.
	RemoveItem(ctx context.Context, userID, productID string) error

	// Clear empties the cart. Clearing a missing cart is not an error.
	Clear(ctx context.Context, userID string) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	// Returns ErrDuplicateSession when the checkout session already has an order.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order with its items. Returns nil, nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetBySessionID retrieves the order created for a checkout session. Returns nil, nil when absent.
	GetBySessionID(ctx context.Context, sessionID string) (*model.Order, error)

	// List returns one page of orders, newest first, and the total count.
	// A nil userID lists every order.
	List(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]model.Order, int, error)

	// UpdateStatus persists a fulfillment change. Returns model.ErrOrderNotFound when absent.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus, trackingNumber *string, deliveredAt *time.Time) error

	// PaidRevenue sums totals of paid orders.
	PaidRevenue(ctx context.Context) (decimal.Decimal, error)

	// Count returns the number of orders.
	Count(ctx context.Context) (int, error)
}

// BookingRepository defines salon booking persistence.
type BookingRepository interface {
	// ExistsActiveAt reports whether a pending or confirmed booking holds the slot.
	ExistsActiveAt(ctx context.Context, date time.Time, slot string) (bool, error)

	// Create inserts a booking. Returns model.ErrSlotTaken when the slot is held.
	Create(ctx context.Context, b *model.Booking) error

	// GetByID returns nil, nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)

	List(ctx context.Context, filter model.BookingFilter) ([]model.Booking, error)

	// Update persists status, stylist and notes. Returns model.ErrSlotTaken if reactivation collides.
	Update(ctx context.Context, b *model.Booking) error

	// Delete removes a booking, reporting whether it existed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// UserRepository defines account persistence.
type UserRepository interface {
	// Create inserts a user. Returns model.ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, u *model.User) error

	// GetByEmail returns nil, nil when absent.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByID returns nil, nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// Update writes the profile fields (name, phone), reporting whether the user existed.
	Update(ctx context.Context, u *model.User) (bool, error)

	// List returns one page of users, newest first, and the total count.
	List(ctx context.Context, limit, offset int) ([]model.User, int, error)

	// SetRole changes a user's role, reporting whether the user existed.
	SetRole(ctx context.Context, email string, role model.Role) (bool, error)

	Count(ctx context.Context) (int, error)
}
