package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a DomainError for transport mapping.
type ErrorKind string

const (
	KindValidation ErrorKind = "VALIDATION"
	KindAuth       ErrorKind = "AUTH"
	KindForbidden  ErrorKind = "FORBIDDEN"
	KindNotFound   ErrorKind = "NOT_FOUND"
	KindConflict   ErrorKind = "CONFLICT"
	KindUpstream   ErrorKind = "UPSTREAM_FAILURE"
	KindInternal   ErrorKind = "INTERNAL"
)

// Standard error codes for API responses
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeCartNotFound      = "CART_NOT_FOUND"
	ErrCodeItemNotFound      = "ITEM_NOT_FOUND"
	ErrCodeServiceNotFound   = "SERVICE_NOT_FOUND"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeBookingNotFound   = "BOOKING_NOT_FOUND"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeSlotTaken         = "SLOT_TAKEN"
	ErrCodeEmailTaken        = "EMAIL_TAKEN"
	ErrCodePaymentIncomplete = "PAYMENT_INCOMPLETE"
	ErrCodeInvalidState      = "INVALID_STATE"
	ErrCodeUpstreamFailure   = "UPSTREAM_FAILURE"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is an error the caller is expected to see.
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches on Code and Message. Several sentinels below share a code, so the
// code alone does not identify one.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// Invalid returns a validation error with a formatted message.
func Invalid(format string, args ...any) *DomainError {
	return NewDomainError(KindValidation, ErrCodeInvalidInput, fmt.Sprintf(format, args...))
}

// NotFound returns a not-found error carrying a specific code.
func NotFound(code, format string, args ...any) *DomainError {
	return NewDomainError(KindNotFound, code, fmt.Sprintf(format, args...))
}

// Upstream wraps a failure of an external collaborator.
func Upstream(message string, err error) *DomainError {
	return &DomainError{Kind: KindUpstream, Code: ErrCodeUpstreamFailure, Message: message, Err: err}
}

// AsDomainError extracts a DomainError from an error chain.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Common domain errors
var (
	ErrUnauthenticated   = NewDomainError(KindAuth, ErrCodeUnauthorised, "Unauthorized")
	ErrInvalidCredential = NewDomainError(KindAuth, ErrCodeUnauthorised, "Invalid email or password")
	ErrForbidden         = NewDomainError(KindForbidden, ErrCodeForbidden, "Unauthorized - Admin access required")
	ErrProductNotFound   = NewDomainError(KindNotFound, ErrCodeProductNotFound, "Product not found")
	ErrCartNotFound      = NewDomainError(KindNotFound, ErrCodeCartNotFound, "Cart not found")
	ErrItemNotFound      = NewDomainError(KindNotFound, ErrCodeItemNotFound, "Item not found in cart")
	ErrServiceNotFound   = NewDomainError(KindNotFound, ErrCodeServiceNotFound, "Service not found")
	ErrOrderNotFound     = NewDomainError(KindNotFound, ErrCodeOrderNotFound, "Order not found")
	ErrBookingNotFound   = NewDomainError(KindNotFound, ErrCodeBookingNotFound, "Booking not found")
	ErrUserNotFound      = NewDomainError(KindNotFound, ErrCodeUserNotFound, "User not found")
	ErrInvalidQuantity   = NewDomainError(KindValidation, ErrCodeInvalidInput, "Invalid quantity")
	ErrEmptyCart         = NewDomainError(KindValidation, ErrCodeInvalidInput, "Cart is empty")
	ErrEmailRequired     = NewDomainError(KindValidation, ErrCodeInvalidInput, "Email is required")
	ErrSlotTaken         = NewDomainError(KindConflict, ErrCodeSlotTaken, "This time slot is already booked")
	ErrEmailTaken        = NewDomainError(KindConflict, ErrCodeEmailTaken, "User with this email already exists")
	ErrPaymentIncomplete = NewDomainError(KindValidation, ErrCodePaymentIncomplete, "Payment not completed")
	ErrSessionCorrupt    = NewDomainError(KindValidation, ErrCodeInvalidState, "Cart data not found in session")
)
