package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingStatus is the state of a salon reservation.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// IsValid reports whether s is a known status.
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// HoldsSlot reports whether a booking in this status occupies its (date, time).
func (s BookingStatus) HoldsSlot() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// CanTransitionTo: pending -> confirmed -> completed, cancelled from pending or confirmed.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return next == BookingStatusConfirmed || next == BookingStatusCancelled
	case BookingStatusConfirmed:
		return next == BookingStatusCompleted || next == BookingStatusCancelled
	}
	return false
}

// DateLayout is the wire format for booking dates.
const DateLayout = "2006-01-02"

// TimeLayout is the wire format for booking times.
const TimeLayout = "15:04"

// Booking is a salon reservation.
type Booking struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	ServiceID     string          `json:"serviceId" db:"service_id"`
	UserID        *uuid.UUID      `json:"userId,omitempty" db:"user_id"`
	Date          time.Time       `json:"-" db:"date"`
	DateString    string          `json:"date" db:"-"`
	Time          string          `json:"time" db:"time"`
	Duration      int             `json:"duration" db:"duration"`
	CustomerName  string          `json:"customerName" db:"customer_name"`
	CustomerEmail string          `json:"customerEmail" db:"customer_email"`
	CustomerPhone string          `json:"customerPhone" db:"customer_phone"`
	Notes         *string         `json:"notes,omitempty" db:"notes"`
	Stylist       *string         `json:"stylist,omitempty" db:"stylist"`
	Status        BookingStatus   `json:"status" db:"status"`
	TotalPrice    decimal.Decimal `json:"totalPrice" db:"total_price"`
	Service       *SalonService   `json:"service,omitempty" db:"-"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}

// CreateBookingRequest is the payload for reserving a slot.
type CreateBookingRequest struct {
	ServiceID     string  `json:"service" validate:"required"`
	Date          string  `json:"date" validate:"required,datetime=2006-01-02"`
	Time          string  `json:"time" validate:"required,datetime=15:04"`
	CustomerName  string  `json:"customerName" validate:"required,max=100"`
	CustomerEmail string  `json:"customerEmail" validate:"required,email"`
	CustomerPhone string  `json:"customerPhone" validate:"required,max=30"`
	Notes         *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// BookingUpdate is the allow-listed admin patch for a booking.
type BookingUpdate struct {
	Status  *BookingStatus `json:"status,omitempty"`
	Stylist *string        `json:"stylist,omitempty" validate:"omitempty,max=100"`
	Notes   *string        `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// BookingFilter narrows a booking listing.
type BookingFilter struct {
	UserID *uuid.UUID
	Status BookingStatus
}
