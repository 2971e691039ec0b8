package payment

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"planet-beauty/internal/model"
)

// Metadata keys written onto checkout sessions.
const (
	MetaCartItems      = "cart_items"
	MetaCartItemsParts = "cart_items_parts"
	MetaGuestEmail     = "guest_email"
	MetaGuestName      = "guest_name"
	MetaShipping       = "shipping_address"
	MetaUserID         = "user_id"
)

const (
	// maxValueLength is the provider's limit on a single metadata value.
	maxValueLength = 500
	// maxItemParts keeps the total key count under the provider's limit of 50.
	maxItemParts = 40
)

var (
	// ErrNoCartData is returned when a session carries no decodable cart lines.
	ErrNoCartData = errors.New("session metadata has no cart data")

	// ErrMetadataTooLarge is returned when a value cannot fit the provider's limits.
	ErrMetadataTooLarge = errors.New("session metadata too large")
)

// Metadata is everything needed to rebuild an order from a paid session.
type Metadata struct {
	UserID     string
	GuestEmail string
	GuestName  string
	Shipping   *model.ShippingAddress
	Items      []model.SessionItem
}

// Encode flattens m into provider metadata. Cart lines longer than one value are
// split into numbered parts.
func (m Metadata) Encode() (map[string]string, error) {
	out := make(map[string]string)

	itemsJSON, err := json.Marshal(m.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cart items: %w", err)
	}

	if len(itemsJSON) <= maxValueLength {
		out[MetaCartItems] = string(itemsJSON)
	} else {
		parts := splitValue(string(itemsJSON), maxValueLength)
		if len(parts) > maxItemParts {
			return nil, fmt.Errorf("%w: %d cart item parts", ErrMetadataTooLarge, len(parts))
		}
		for i, part := range parts {
			out[fmt.Sprintf("%s_%d", MetaCartItems, i)] = part
		}
		out[MetaCartItemsParts] = strconv.Itoa(len(parts))
	}

	if m.UserID != "" {
		out[MetaUserID] = m.UserID
	}
	if m.GuestEmail != "" {
		out[MetaGuestEmail] = m.GuestEmail
	}
	if m.GuestName != "" {
		out[MetaGuestName] = m.GuestName
	}

	if m.Shipping != nil {
		shippingJSON, err := json.Marshal(m.Shipping)
		if err != nil {
			return nil, fmt.Errorf("failed to encode shipping address: %w", err)
		}
		if len(shippingJSON) > maxValueLength {
			return nil, fmt.Errorf("%w: shipping address", ErrMetadataTooLarge)
		}
		out[MetaShipping] = string(shippingJSON)
	}

	for k, v := range out {
		if len(v) > maxValueLength {
			return nil, fmt.Errorf("%w: %s", ErrMetadataTooLarge, k)
		}
	}

	return out, nil
}

// DecodeMetadata rebuilds Metadata from a session. A missing, empty or corrupt item
// list is ErrNoCartData. The shipping address is decoded best-effort.
func DecodeMetadata(raw map[string]string) (Metadata, error) {
	m := Metadata{
		UserID:     raw[MetaUserID],
		GuestEmail: raw[MetaGuestEmail],
		GuestName:  raw[MetaGuestName],
	}

	itemsJSON, err := joinItems(raw)
	if err != nil {
		return m, err
	}

	if err := json.Unmarshal([]byte(itemsJSON), &m.Items); err != nil {
		return m, fmt.Errorf("%w: %v", ErrNoCartData, err)
	}
	if len(m.Items) == 0 {
		return m, ErrNoCartData
	}
	for _, item := range m.Items {
		if item.ProductID == "" || item.Quantity < 1 {
			return m, fmt.Errorf("%w: malformed line %+v", ErrNoCartData, item)
		}
	}

	if s, ok := raw[MetaShipping]; ok && s != "" {
		var addr model.ShippingAddress
		if json.Unmarshal([]byte(s), &addr) == nil {
			m.Shipping = &addr
		}
	}

	return m, nil
}

func joinItems(raw map[string]string) (string, error) {
	if v, ok := raw[MetaCartItems]; ok && v != "" {
		return v, nil
	}

	partsRaw, ok := raw[MetaCartItemsParts]
	if !ok {
		return "", ErrNoCartData
	}
	n, err := strconv.Atoi(partsRaw)
	if err != nil || n < 1 || n > maxItemParts {
		return "", fmt.Errorf("%w: bad part count %q", ErrNoCartData, partsRaw)
	}

	var b strings.Builder
	for i := 0; i < n; i++ {
		part, ok := raw[fmt.Sprintf("%s_%d", MetaCartItems, i)]
		if !ok {
			return "", fmt.Errorf("%w: missing part %d", ErrNoCartData, i)
		}
		b.WriteString(part)
	}
	return b.String(), nil
}

// splitValue cuts s into chunks of at most size bytes without splitting a rune.
func splitValue(s string, size int) []string {
	var parts []string
	for len(s) > size {
		cut := size
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		parts = append(parts, s[:cut])
		s = s[cut:]
	}
	if len(s) > 0 {
		parts = append(parts, s)
	}
	return parts
}
