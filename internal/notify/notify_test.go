package notify

import (
	"context"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"planet-beauty/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDispatcher is a mock implementation of Dispatcher.
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Send(ctx context.Context, msg Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func TestOrderConfirmation(t *testing.T) {
	order := &model.Order{
		ID: uuid.MustParse("7b3d2f3e-8d4a-4a57-9a3c-0d6c1f1f0a11"),
		Items: []model.OrderItem{
			{Name: "Serum", Price: decimal.RequireFromString("25"), Quantity: 2},
		},
		Total: decimal.RequireFromString("50"),
	}

	msg := OrderConfirmation(order, "buyer@example.com")

	assert.Equal(t, KindOrderConfirmation, msg.Kind)
	assert.Equal(t, "buyer@example.com", msg.To)
	assert.Equal(t, order.ID.String(), msg.Reference)
	assert.Contains(t, msg.Body, "7b3d2f3e-8d4a-4a57-9a3c-0d6c1f1f0a11")
	assert.Contains(t, msg.Body, "2 x Serum @ 25.00")
	assert.Contains(t, msg.Body, "Total: 50.00")
}

func TestBookingConfirmation(t *testing.T) {
	b := &model.Booking{
		ID:            uuid.New(),
		ServiceID:     "svc-cut",
		DateString:    "2026-11-02",
		Time:          "10:00",
		CustomerName:  "Jamie",
		CustomerEmail: "jamie@example.com",
		Service:       &model.SalonService{Name: "Signature Cut"},
	}

	msg := BookingConfirmation(b)
	assert.Equal(t, "jamie@example.com", msg.To)
	assert.Contains(t, msg.Body, "Signature Cut appointment on 2026-11-02 at 10:00")
}

func TestSMTPDispatcher_Send(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	send := func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	d := NewSMTPDispatcher(SMTPConfig{
		Addr: "smtp.example.com:587", Host: "smtp.example.com",
		Username: "user", Password: "pass",
		From: "no-reply@planetbeauty.test", FromName: "Planet Beauty",
	}, send)

	err := d.Send(context.Background(), Message{To: "buyer@example.com", Subject: "Order Confirmation", Body: "line1\nline2"})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "no-reply@planetbeauty.test", gotFrom)
	assert.Equal(t, []string{"buyer@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Order Confirmation\r\n")
	assert.Contains(t, string(gotMsg), `From: "Planet Beauty" <no-reply@planetbeauty.test>`)
	assert.Contains(t, string(gotMsg), "line1\r\nline2")
}

func TestSMTPDispatcher_Errors(t *testing.T) {
	failing := func(string, smtp.Auth, string, []string, []byte) error { return errors.New("relay down") }
	d := NewSMTPDispatcher(SMTPConfig{Addr: "localhost:25", From: "a@b.c"}, failing)

	tests := []struct {
		name     string
		msg      Message
		errorMsg string
	}{
		{name: "No recipient", msg: Message{}, errorMsg: "no recipient"},
		{name: "Bad recipient", msg: Message{To: "not an address"}, errorMsg: "invalid recipient"},
		{name: "Relay failure", msg: Message{To: "x@example.com"}, errorMsg: "failed to send email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := d.Send(context.Background(), tt.msg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestLogDispatcher(t *testing.T) {
	assert.NoError(t, NewLogDispatcher(zerolog.Nop()).Send(context.Background(), Message{Kind: "k"}))
}

func TestAsync_SwallowsFailures(t *testing.T) {
	next := new(MockDispatcher)
	msg := Message{Kind: KindOrderConfirmation, To: "x@example.com", Reference: "o1"}
	next.On("Send", mock.Anything, msg).Return(errors.New("smtp down")).Once()

	a := NewAsync(next, time.Second, zerolog.Nop())

	err := a.Send(context.Background(), msg)
	assert.NoError(t, err)

	a.Wait()
	next.AssertExpectations(t)
}

func TestAsync_DetachesFromRequestContext(t *testing.T) {
	next := new(MockDispatcher)
	next.On("Send", mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil }), mock.Anything).Return(nil).Once()

	a := NewAsync(next, time.Second, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, a.Send(ctx, Message{Kind: KindBookingConfirmation}))

	a.Wait()
	next.AssertExpectations(t)
}
