package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	calls int
	err   error
}

func (s *stubProvider) CreateSession(ctx context.Context, params CreateSessionParams) (*Session, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &Session{ID: "cs_new"}, nil
}

func (s *stubProvider) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &Session{ID: sessionID, Paid: true}, nil
}

func TestBreakerProvider_OpensAfterFailures(t *testing.T) {
	stub := &stubProvider{err: errors.New("connection reset")}
	p := NewBreakerProvider(stub, BreakerSettings{MaxFailures: 3, OpenTimeout: time.Minute}, zerolog.Nop())

	for i := 0; i < 3; i++ {
		_, err := p.GetSession(context.Background(), "cs_1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnavailable)
	}

	_, err := p.CreateSession(context.Background(), CreateSessionParams{})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 3, stub.calls, "open circuit must not reach the provider")
}

func TestBreakerProvider_NotFoundDoesNotTrip(t *testing.T) {
	stub := &stubProvider{err: ErrSessionNotFound}
	p := NewBreakerProvider(stub, BreakerSettings{MaxFailures: 2, OpenTimeout: time.Minute}, zerolog.Nop())

	for i := 0; i < 5; i++ {
		_, err := p.GetSession(context.Background(), "cs_missing")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	}
	assert.Equal(t, 5, stub.calls)
}

func TestBreakerProvider_PassesThrough(t *testing.T) {
	stub := &stubProvider{}
	p := NewBreakerProvider(stub, BreakerSettings{}, zerolog.Nop())

	s, err := p.GetSession(context.Background(), "cs_ok")
	require.NoError(t, err)
	assert.Equal(t, "cs_ok", s.ID)
	assert.True(t, s.Paid)
}
