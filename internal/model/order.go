package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus]OrderStatus{
	OrderStatusPending:    OrderStatusProcessing,
	OrderStatusProcessing: OrderStatusShipped,
	OrderStatusShipped:    OrderStatusDelivered,
}

// IsValid reports whether s is a known status.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo allows the next linear step, or cancellation from any non-terminal state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	return orderTransitions[s] == next
}

// PaymentStatus is the payment state recorded on an order.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// ShippingAddress is the delivery address captured at checkout.
type ShippingAddress struct {
	FullName     string  `json:"fullName" validate:"required"`
	AddressLine1 string  `json:"addressLine1" validate:"required"`
	AddressLine2 *string `json:"addressLine2,omitempty"`
	City         string  `json:"city" validate:"required"`
	State        string  `json:"state" validate:"required"`
	ZipCode      string  `json:"zipCode" validate:"required"`
	Country      string  `json:"country" validate:"required"`
	Phone        string  `json:"phone"`
}

// Order is a paid purchase materialised from a checkout session.
type Order struct {
	ID              uuid.UUID        `json:"id" db:"id"`
	UserID          *uuid.UUID       `json:"userId,omitempty" db:"user_id"`
	GuestEmail      *string          `json:"guestEmail,omitempty" db:"guest_email"`
	GuestName       *string          `json:"guestName,omitempty" db:"guest_name"`
	Items           []OrderItem      `json:"items" db:"-"`
	ShippingAddress *ShippingAddress `json:"shippingAddress,omitempty" db:"shipping_address"`
	PaymentMethod   string           `json:"paymentMethod" db:"payment_method"`
	PaymentStatus   PaymentStatus    `json:"paymentStatus" db:"payment_status"`
	Status          OrderStatus      `json:"status" db:"status"`
	Total           decimal.Decimal  `json:"total" db:"total"`
	StripeSessionID string           `json:"stripeSessionId" db:"stripe_session_id"`
	TrackingNumber  *string          `json:"trackingNumber,omitempty" db:"tracking_number"`
	PaidAt          *time.Time       `json:"paidAt,omitempty" db:"paid_at"`
	DeliveredAt     *time.Time       `json:"deliveredAt,omitempty" db:"delivered_at"`
	CreatedAt       time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time        `json:"updatedAt" db:"updated_at"`
}

// OrderItem is a purchase-time snapshot of one product line.
type OrderItem struct {
	ID        uuid.UUID       `json:"-" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	ProductID string          `json:"productId" db:"product_id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Image     *string         `json:"image,omitempty" db:"image"`
}

// LineTotal is price times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderTotal sums line totals.
func OrderTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// ReconcileResult is the outcome of verifying a checkout session.
type ReconcileResult struct {
	Order   *Order `json:"order"`
	Created bool   `json:"created"`
}

// OrderList is one page of orders.
type OrderList struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Pagination describes a page within a listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination derives the page count from a total.
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// OrderStatusUpdate is the allow-listed admin patch for an order.
type OrderStatusUpdate struct {
	Status         OrderStatus `json:"status" validate:"required"`
	TrackingNumber *string     `json:"trackingNumber,omitempty" validate:"omitempty,max=100"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalOrders   int             `json:"totalOrders"`
	TotalUsers    int             `json:"totalUsers"`
	TotalProducts int             `json:"totalProducts"`
}
