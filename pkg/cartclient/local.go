package cartclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Local is a guest cart held in memory. Products are not validated.
type Local struct {
	mu    sync.Mutex
	items []Line
	path  string
}

// NewLocal returns an empty cart that is never persisted.
func NewLocal() *Local {
	return &Local{}
}

// LoadLocal reads a cart saved at path. A missing file yields an empty cart
// that will be saved there.
func LoadLocal(path string) (*Local, error) {
	l := &Local{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart file: %w", err)
	}

	if err := json.Unmarshal(data, &l.items); err != nil {
		return nil, fmt.Errorf("failed to decode cart file: %w", err)
	}
	return l, nil
}

// Save writes the cart to its file. Carts without a path are not persisted.
func (l *Local) Save() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.saveLocked()
}

func (l *Local) saveLocked() error {
	if l.path == "" {
		return nil
	}

	data, err := json.Marshal(l.items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), ".cart-*")
	if err != nil {
		return fmt.Errorf("failed to create cart file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write cart file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write cart file: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		return fmt.Errorf("failed to replace cart file: %w", err)
	}
	return nil
}

func (l *Local) Items(context.Context) ([]Line, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Line, len(l.items))
	copy(out, l.items)
	return out, nil
}

// Add increments the line for productID, creating it if needed.
func (l *Local) Add(_ context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if i := l.index(productID); i >= 0 {
		l.items[i].Quantity += quantity
	} else {
		l.items = append(l.items, Line{ProductID: productID, Quantity: quantity})
	}
	return l.saveLocked()
}

// Remove drops a line. Removing an absent product is a no-op.
func (l *Local) Remove(_ context.Context, productID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(productID)
	if i < 0 {
		return nil
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	return l.saveLocked()
}

func (l *Local) SetQuantity(_ context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(productID)
	if i < 0 {
		return ErrItemNotFound
	}
	l.items[i].Quantity = quantity
	return l.saveLocked()
}

func (l *Local) Clear(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = nil
	return l.saveLocked()
}

func (l *Local) index(productID string) int {
	for i, line := range l.items {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}
