package cartclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// APIError is a non-2xx response from the cart API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cart API returned %d: %s", e.StatusCode, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type cartPayload struct {
	Items []Line `json:"items"`
}

type mergePayload struct {
	Cart    cartPayload `json:"cart"`
	Skipped []string    `json:"skipped"`
}

// Remote is the signed-in cart, backed by the /api/cart endpoints.
type Remote struct {
	baseURL string
	client  *http.Client

	mu    sync.RWMutex
	token string
}

// NewRemote creates a cart client for the API at baseURL. A nil client uses a
// client with a 10 second timeout.
func NewRemote(baseURL, token string, client *http.Client) *Remote {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		token:   token,
	}
}

// SetToken replaces the bearer token used for subsequent calls.
func (r *Remote) SetToken(token string) {
	r.mu.Lock()
	r.token = token
	r.mu.Unlock()
}

func (r *Remote) Items(ctx context.Context) ([]Line, error) {
	var cart cartPayload
	if err := r.do(ctx, http.MethodGet, "/api/cart", nil, &cart); err != nil {
		return nil, err
	}
	return cart.Items, nil
}

func (r *Remote) Add(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	return r.do(ctx, http.MethodPost, "/api/cart", Line{ProductID: productID, Quantity: quantity}, nil)
}

func (r *Remote) Remove(ctx context.Context, productID string) error {
	return r.do(ctx, http.MethodDelete, "/api/cart/"+url.PathEscape(productID), nil, nil)
}

func (r *Remote) SetQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	body := map[string]int{"quantity": quantity}
	return r.do(ctx, http.MethodPatch, "/api/cart/"+url.PathEscape(productID), body, nil)
}

func (r *Remote) Clear(ctx context.Context) error {
	return r.do(ctx, http.MethodDelete, "/api/cart", nil, nil)
}

// Merge adds guest lines to the server cart in one call and returns the
// product IDs the server skipped.
func (r *Remote) Merge(ctx context.Context, lines []Line) ([]string, error) {
	var result mergePayload
	if err := r.do(ctx, http.MethodPost, "/api/cart/merge", map[string][]Line{"items": lines}, &result); err != nil {
		return nil, err
	}
	return result.Skipped, nil
}

func (r *Remote) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.mu.RLock()
	req.Header.Set("Authorization", "Bearer "+r.token)
	r.mu.RUnlock()

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call cart API: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 300 {
			return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode >= 300 || !env.Success {
		if resp.StatusCode == http.StatusUnauthorized {
			return ErrNotAuthenticated
		}
		return &APIError{StatusCode: resp.StatusCode, Message: env.Error}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}
