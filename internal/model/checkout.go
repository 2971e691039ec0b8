package model

// CheckoutRequest is the payload for creating a hosted checkout session.
// Items may be omitted by authenticated callers to check out their saved cart.
type CheckoutRequest struct {
	Items           []CartLine       `json:"items" validate:"dive"`
	Email           string           `json:"email" validate:"omitempty,email"`
	Name            *string          `json:"name,omitempty" validate:"omitempty,max=100"`
	ShippingAddress *ShippingAddress `json:"shippingAddress,omitempty"`
}

// CheckoutSession is returned to the client for redirecting to the provider.
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// SessionItem is the per-line snapshot stored in provider metadata.
// UnitAmount is nil for sessions created before prices were captured.
type SessionItem struct {
	ProductID  string `json:"productId"`
	Quantity   int    `json:"quantity"`
	UnitAmount *int64 `json:"unitAmount,omitempty"`
}
