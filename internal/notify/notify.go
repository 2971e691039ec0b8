// Package notify delivers customer confirmations for orders and bookings.
package notify

import (
	"context"
	"fmt"
	"strings"

	"planet-beauty/internal/model"
)

// Message kinds.
const (
	KindOrderConfirmation   = "order_confirmation"
	KindBookingConfirmation = "booking_confirmation"
)

// Message is one outbound customer notification.
type Message struct {
	Kind      string `json:"kind"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Reference string `json:"reference"`
}

// Dispatcher sends a message on some channel.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}

// OrderConfirmation builds the plain-text confirmation for a paid order.
func OrderConfirmation(order *model.Order, to string) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for your order! Your order ID is %s.\n\n", order.ID)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "%d x %s @ %s\n", item.Quantity, item.Name, item.Price.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", order.Total.StringFixed(2))

	return Message{
		Kind:      KindOrderConfirmation,
		To:        to,
		Subject:   "Order Confirmation",
		Body:      b.String(),
		Reference: order.ID.String(),
	}
}

// BookingConfirmation builds the plain-text confirmation for a new salon booking.
func BookingConfirmation(booking *model.Booking) Message {
	service := booking.ServiceID
	if booking.Service != nil {
		service = booking.Service.Name
	}

	body := fmt.Sprintf("Hi %s,\n\nYour %s appointment on %s at %s has been received. Reference: %s.\n",
		booking.CustomerName, service, booking.DateString, booking.Time, booking.ID)

	return Message{
		Kind:      KindBookingConfirmation,
		To:        booking.CustomerEmail,
		Subject:   "Booking Confirmation",
		Body:      body,
		Reference: booking.ID.String(),
	}
}
