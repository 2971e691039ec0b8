package cartclient

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog"
)

// Manager hands out the cart matching the shopper's session state.
type Manager struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger

	mu     sync.Mutex
	local  *Local
	remote *Remote
}

// NewManager starts a guest session around local. A nil local starts empty.
func NewManager(baseURL string, local *Local, client *http.Client, logger zerolog.Logger) *Manager {
	if local == nil {
		local = NewLocal()
	}
	return &Manager{
		baseURL: baseURL,
		client:  client,
		logger:  logger.With().Str("component", "cartclient").Logger(),
		local:   local,
	}
}

// Cart returns the active cart.
func (m *Manager) Cart() Cart {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.remote != nil {
		return m.remote
	}
	return m.local
}

// Authenticated reports whether a session is active.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remote != nil
}

// Login switches to the server cart. On the first login of a guest session the
// guest lines are merged into the server cart and the guest cart is emptied.
// Calling Login again while signed in only swaps the token.
func (m *Manager) Login(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.remote != nil {
		m.remote.SetToken(token)
		return nil
	}

	remote := NewRemote(m.baseURL, token, m.client)

	lines, err := m.local.Items(ctx)
	if err != nil {
		return err
	}
	if len(lines) > 0 {
		skipped, err := remote.Merge(ctx, lines)
		if err != nil {
			// Guest lines are kept so the merge can be retried.
			return fmt.Errorf("failed to merge guest cart: %w", err)
		}
		if len(skipped) > 0 {
			m.logger.Warn().Strs("skipped", skipped).Msg("guest cart lines dropped during merge")
		}
		if err := m.local.Clear(ctx); err != nil {
			m.logger.Warn().Err(err).Msg("failed to discard guest cart")
		}
		m.logger.Info().Int("lines", len(lines)-len(skipped)).Msg("guest cart merged")
	}

	m.remote = remote
	return nil
}

// Refresh replaces the token of an existing session without merging.
func (m *Manager) Refresh(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.remote == nil {
		return ErrNotAuthenticated
	}
	m.remote.SetToken(token)
	return nil
}

// Logout ends the session and starts a fresh guest cart.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.remote = nil
	fresh := &Local{path: m.local.path}
	if err := fresh.Save(); err != nil {
		m.logger.Warn().Err(err).Msg("failed to reset guest cart file")
	}
	m.local = fresh
}
