package repository

import (
	"context"
	"testing"
	"time"

	"planet-beauty/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(sessionID string, userID *uuid.UUID) model.Order {
	now := time.Now().UTC().Truncate(time.Microsecond)
	orderID := uuid.New()
	items := []model.OrderItem{
		{ID: uuid.New(), OrderID: orderID, ProductID: "P001", Name: "Serum", Price: decimal.RequireFromString("25.00"), Quantity: 2},
		{ID: uuid.New(), OrderID: orderID, ProductID: "P002", Name: "Lipstick", Price: decimal.RequireFromString("15.50"), Quantity: 1},
	}

	order := model.Order{
		ID:              orderID,
		UserID:          userID,
		Items:           items,
		PaymentMethod:   "card",
		PaymentStatus:   model.PaymentStatusPaid,
		Status:          model.OrderStatusProcessing,
		Total:           model.OrderTotal(items),
		StripeSessionID: sessionID,
		PaidAt:          &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if userID == nil {
		email := "guest@example.com"
		order.GuestEmail = &email
		order.ShippingAddress = &model.ShippingAddress{
			FullName: "Guest Shopper", AddressLine1: "1 Main St", City: "Austin",
			State: "TX", ZipCode: "78701", Country: "US",
		}
	}
	return order
}

func insertOrder(t *testing.T, repo OrderRepository, order *model.Order) error {
	ctx := context.Background()
	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	if err := repo.CreateOrder(ctx, tx, order); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := repo.CreateOrderItems(ctx, tx, order.Items); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func seedUser(t *testing.T, pool *pgxpool.Pool, email string) uuid.UUID {
	u := &model.User{Name: "Test User", Email: email, PasswordHash: "hash", Role: model.RoleCustomer}
	require.NoError(t, NewUserRepository(pool, zerolog.Nop()).Create(context.Background(), u))
	return u.ID
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	order := newTestOrder("cs_test_guest", nil)
	require.NoError(t, insertOrder(t, repo, &order))

	t.Run("By session", func(t *testing.T) {
		got, err := repo.GetBySessionID(context.Background(), "cs_test_guest")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, order.ID, got.ID)
		assert.True(t, order.Total.Equal(got.Total))
		require.Len(t, got.Items, 2)
		assert.Equal(t, "P001", got.Items[0].ProductID)
		require.NotNil(t, got.ShippingAddress)
		assert.Equal(t, "Austin", got.ShippingAddress.City)
		assert.Nil(t, got.UserID)
	})

	t.Run("By ID", func(t *testing.T) {
		got, err := repo.GetByID(context.Background(), order.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "cs_test_guest", got.StripeSessionID)
	})

	t.Run("Missing", func(t *testing.T) {
		got, err := repo.GetBySessionID(context.Background(), "cs_missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestOrderRepository_DuplicateSessionRejected(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	first := newTestOrder("cs_dup", nil)
	require.NoError(t, insertOrder(t, repo, &first))

	second := newTestOrder("cs_dup", nil)
	err := insertOrder(t, repo, &second)
	assert.ErrorIs(t, err, ErrDuplicateSession)

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOrderRepository_ListAndStats(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	userID := seedUser(t, pool, "buyer@example.com")

	for _, sid := range []string{"cs_1", "cs_2", "cs_3"} {
		o := newTestOrder(sid, &userID)
		require.NoError(t, insertOrder(t, repo, &o))
	}
	guest := newTestOrder("cs_guest", nil)
	require.NoError(t, insertOrder(t, repo, &guest))

	orders, total, err := repo.List(context.Background(), &userID, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, orders, 2)
	assert.Len(t, orders[0].Items, 2)

	all, total, err := repo.List(context.Background(), nil, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, all, 4)

	revenue, err := repo.PaidRevenue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "262", revenue.String())
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	order := newTestOrder("cs_ship", nil)
	require.NoError(t, insertOrder(t, repo, &order))

	tracking := "1Z999"
	require.NoError(t, repo.UpdateStatus(context.Background(), order.ID, model.OrderStatusShipped, &tracking, nil))

	got, err := repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, got.Status)
	require.NotNil(t, got.TrackingNumber)
	assert.Equal(t, tracking, *got.TrackingNumber)

	err = repo.UpdateStatus(context.Background(), uuid.New(), model.OrderStatusShipped, nil, nil)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}
