// Package payment talks to the hosted checkout provider.
package payment

import (
	"context"
	"errors"
)

var (
	// ErrSessionNotFound is returned when the provider has no session with the given ID.
	ErrSessionNotFound = errors.New("checkout session not found")

	// ErrUnavailable is returned while the circuit to the provider is open.
	ErrUnavailable = errors.New("payment provider unavailable")
)

// LineItem is one priced line shown on the hosted checkout page.
type LineItem struct {
	Name        string
	Description string
	Image       string
	UnitAmount  int64
	Quantity    int64
}

// CreateSessionParams describes a hosted checkout session to open.
type CreateSessionParams struct {
	Currency      string
	CustomerEmail string
	LineItems     []LineItem
	Metadata      map[string]string
	SuccessURL    string
	CancelURL     string
}

// Session is the provider's view of a checkout session.
type Session struct {
	ID            string
	URL           string
	Paid          bool
	PaymentStatus string
	CustomerEmail string
	AmountTotal   int64
	Metadata      map[string]string
}

// Provider opens and reads hosted checkout sessions.
type Provider interface {
	CreateSession(ctx context.Context, params CreateSessionParams) (*Session, error)
	GetSession(ctx context.Context, sessionID string) (*Session, error)
}
