package validation

import (
	"testing"

	"planet-beauty/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Struct(t *testing.T) {
	v := New()

	validBooking := func() model.CreateBookingRequest {
		return model.CreateBookingRequest{
			ServiceID:     "svc-cut",
			Date:          "2026-11-02",
			Time:          "10:00",
			CustomerName:  "Jamie",
			CustomerEmail: "jamie@example.com",
			CustomerPhone: "555-0100",
		}
	}

	tests := []struct {
		name     string
		input    any
		errorMsg string
	}{
		{name: "Valid booking", input: validBooking()},
		{
			name:     "Missing service",
			input:    func() any { b := validBooking(); b.ServiceID = ""; return b }(),
			errorMsg: "service is required",
		},
		{
			name:     "Bad date",
			input:    func() any { b := validBooking(); b.Date = "02/11/2026"; return b }(),
			errorMsg: "date must match YYYY-MM-DD",
		},
		{
			name:     "Bad time",
			input:    func() any { b := validBooking(); b.Time = "25:99"; return b }(),
			errorMsg: "time must match HH:MM",
		},
		{
			name:     "Bad email",
			input:    func() any { b := validBooking(); b.CustomerEmail = "nope"; return b }(),
			errorMsg: "customerEmail must be a valid email address",
		},
		{
			name:     "Short password",
			input:    model.SignupRequest{Name: "Ava", Email: "ava@example.com", Password: "123"},
			errorMsg: "password must be at least 6 characters",
		},
		{
			name:     "Zero quantity line",
			input:    model.CartLine{ProductID: "P1", Quantity: 0},
			errorMsg: "quantity must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			de, ok := model.AsDomainError(err)
			require.True(t, ok)
			assert.Equal(t, model.KindValidation, de.Kind)
			assert.Equal(t, model.ErrCodeInvalidInput, de.Code)
			assert.Equal(t, tt.errorMsg, de.Message)
		})
	}
}

func TestValidator_Email(t *testing.T) {
	v := New()

	assert.True(t, v.Email("guest@example.com"))
	assert.False(t, v.Email(""))
	assert.False(t, v.Email("guest@"))
}
