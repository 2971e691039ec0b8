package service

import (
	"context"
	"errors"
	"testing"

	"planet-beauty/internal/model"
	"planet-beauty/internal/payment"
	"planet-beauty/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testCheckoutConfig = CheckoutConfig{
	Currency:   "usd",
	SuccessURL: "http://shop/checkout/success?session_id={CHECKOUT_SESSION_ID}",
	CancelURL:  "http://shop/cart",
}

func newCheckoutFixture() (CheckoutService, *MockProductRepository, *MockCartRepository, *MockProvider) {
	productRepo := new(MockProductRepository)
	cartRepo := new(MockCartRepository)
	provider := new(MockProvider)
	svc := NewCheckoutService(testCheckoutConfig, productRepo, cartRepo, provider, validation.New(), zerolog.Nop())
	return svc, productRepo, cartRepo, provider
}

func TestCheckoutService_CreateSession_Guest(t *testing.T) {
	ctx := context.Background()
	svc, productRepo, _, provider := newCheckoutFixture()

	productRepo.On("GetByIDs", ctx, []string{"P001", "P002"}).Return(cartProducts(), nil)

	var captured payment.CreateSessionParams
	provider.On("CreateSession", ctx, mock.AnythingOfType("payment.CreateSessionParams")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(payment.CreateSessionParams) }).
		Return(&payment.Session{ID: "cs_test_1", URL: "https://pay.example/cs_test_1"}, nil)

	session, err := svc.CreateSession(ctx, nil, &model.CheckoutRequest{
		Items: []model.CartLine{{ProductID: "P001", Quantity: 2}, {ProductID: "P002", Quantity: 1}},
		Email: "guest@example.com",
		Name:  ptr("Ada Guest"),
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.SessionID)
	assert.Equal(t, "https://pay.example/cs_test_1", session.URL)

	assert.Equal(t, "usd", captured.Currency)
	assert.Equal(t, "guest@example.com", captured.CustomerEmail)
	assert.Equal(t, testCheckoutConfig.SuccessURL, captured.SuccessURL)
	require.Len(t, captured.LineItems, 2)
	assert.Equal(t, int64(2400), captured.LineItems[0].UnitAmount)
	assert.Equal(t, "Bloom", captured.LineItems[0].Description)
	assert.Equal(t, "rose.jpg", captured.LineItems[0].Image)
	assert.Equal(t, int64(999), captured.LineItems[1].UnitAmount, "sale price wins")

	meta, err := payment.DecodeMetadata(captured.Metadata)
	require.NoError(t, err)
	assert.Equal(t, "guest@example.com", meta.GuestEmail)
	assert.Equal(t, "Ada Guest", meta.GuestName)
	assert.Empty(t, meta.UserID)
	assert.Equal(t, []model.SessionItem{
		{ProductID: "P001", Quantity: 2, UnitAmount: ptr[int64](2400)},
		{ProductID: "P002", Quantity: 1, UnitAmount: ptr[int64](999)},
	}, meta.Items)
}

func TestCheckoutService_CreateSession_AuthenticatedUsesSavedCart(t *testing.T) {
	ctx := context.Background()
	svc, productRepo, cartRepo, provider := newCheckoutFixture()
	identity := &model.Identity{UserID: uuid.MustParse(testUserID), Email: "member@example.com", Role: model.RoleCustomer}

	cartRepo.On("GetCart", ctx, testUserID).
		Return(&model.Cart{UserID: testUserID, Items: []model.CartItem{{ProductID: "P001", Quantity: 1}}}, nil)
	productRepo.On("GetByIDs", ctx, []string{"P001"}).Return(cartProducts()[:1], nil)
	provider.On("CreateSession", ctx, mock.MatchedBy(func(p payment.CreateSessionParams) bool {
		meta, err := payment.DecodeMetadata(p.Metadata)
		return err == nil && meta.UserID == testUserID && meta.GuestEmail == "" &&
			p.CustomerEmail == "member@example.com"
	})).Return(&payment.Session{ID: "cs_test_2", URL: "https://pay.example/cs_test_2"}, nil)

	session, err := svc.CreateSession(ctx, identity, &model.CheckoutRequest{})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_2", session.SessionID)
	provider.AssertExpectations(t)
}

func TestCheckoutService_CreateSession_Rejections(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		req          *model.CheckoutRequest
		products     []model.Product
		expectedErr  error
		expectedCode string
	}{
		{
			name:        "Empty cart",
			req:         &model.CheckoutRequest{Email: "guest@example.com"},
			expectedErr: model.ErrEmptyCart,
		},
		{
			name:        "Missing guest email",
			req:         &model.CheckoutRequest{Items: []model.CartLine{{ProductID: "P001", Quantity: 1}}},
			expectedErr: model.ErrEmailRequired,
		},
		{
			name:         "Malformed email",
			req:          &model.CheckoutRequest{Items: []model.CartLine{{ProductID: "P001", Quantity: 1}}, Email: "not-an-email"},
			expectedCode: model.ErrCodeInvalidInput,
		},
		{
			name:         "Zero quantity",
			req:          &model.CheckoutRequest{Items: []model.CartLine{{ProductID: "P001", Quantity: 0}}, Email: "guest@example.com"},
			expectedCode: model.ErrCodeInvalidInput,
		},
		{
			name:         "Unknown product",
			req:          &model.CheckoutRequest{Items: []model.CartLine{{ProductID: "P001", Quantity: 1}, {ProductID: "P404", Quantity: 1}}, Email: "guest@example.com"},
			products:     cartProducts()[:1],
			expectedCode: model.ErrCodeProductNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, productRepo, _, provider := newCheckoutFixture()
			if tt.products != nil {
				productRepo.On("GetByIDs", ctx, mock.Anything).Return(tt.products, nil)
			}

			session, err := svc.CreateSession(ctx, nil, tt.req)
			require.Error(t, err)
			assert.Nil(t, session)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			}
			if tt.expectedCode != "" {
				de, ok := model.AsDomainError(err)
				require.True(t, ok)
				assert.Equal(t, tt.expectedCode, de.Code)
			}
			provider.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
		})
	}
}

func TestCheckoutService_CreateSession_ProviderFailure(t *testing.T) {
	ctx := context.Background()
	svc, productRepo, _, provider := newCheckoutFixture()

	productRepo.On("GetByIDs", ctx, []string{"P001"}).Return(cartProducts()[:1], nil)
	provider.On("CreateSession", ctx, mock.Anything).Return(nil, errors.New("stripe: connection reset"))

	_, err := svc.CreateSession(ctx, nil, &model.CheckoutRequest{
		Items: []model.CartLine{{ProductID: "P001", Quantity: 1}},
		Email: "guest@example.com",
	})
	de, ok := model.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindUpstream, de.Kind)
}
