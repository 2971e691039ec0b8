package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"planet-beauty/internal/model"
	"planet-beauty/internal/notify"
	"planet-beauty/internal/payment"
	"planet-beauty/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// reconcileTimeout bounds a reconcile once it is detached from the caller's context.
const reconcileTimeout = 30 * time.Second

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	carts       CartService
	provider    payment.Provider
	notifier    notify.Dispatcher
	now         func() time.Time
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	carts CartService,
	provider payment.Provider,
	notifier notify.Dispatcher,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		carts:       carts,
		provider:    provider,
		notifier:    notifier,
		now:         time.Now,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// Reconcile creates the order for a paid session exactly once.
func (s *orderService) Reconcile(ctx context.Context, sessionID string) (*model.ReconcileResult, error) {
	if sessionID == "" {
		return nil, model.Invalid("Session ID is required")
	}

	// Order creation and the cart clear that follows it run to completion even if
	// the caller disconnects or its deadline passes.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reconcileTimeout)
	defer cancel()

	existing, err := s.orderRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to look up order by session")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if existing != nil {
		s.logger.Debug().Str("session_id", sessionID).Msg("order already reconciled")
		return &model.ReconcileResult{Order: existing, Created: false}, nil
	}

	session, err := s.provider.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, payment.ErrSessionNotFound) {
			return nil, model.NotFound(model.ErrCodeNotFound, "Checkout session not found")
		}
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to retrieve checkout session")
		return nil, model.Upstream("Failed to verify checkout", err)
	}
	if !session.Paid {
		s.logger.Info().
			Str("session_id", sessionID).
			Str("payment_status", session.PaymentStatus).
			Msg("checkout session not paid")
		return nil, model.ErrPaymentIncomplete
	}

	meta, err := payment.DecodeMetadata(session.Metadata)
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("checkout session has no usable cart data")
		return nil, model.ErrSessionCorrupt
	}

	order, err := s.buildOrder(ctx, session, meta)
	if err != nil {
		return nil, err
	}

	err = s.persist(ctx, order)
	if errors.Is(err, repository.ErrDuplicateSession) {
		winner, getErr := s.orderRepo.GetBySessionID(ctx, sessionID)
		if getErr != nil || winner == nil {
			s.logger.Error().Err(getErr).Str("session_id", sessionID).Msg("failed to re-read concurrently created order")
			return nil, fmt.Errorf("failed to get order: %w", errors.Join(err, getErr))
		}
		s.logger.Info().Str("session_id", sessionID).Msg("lost reconcile race, returning existing order")
		return &model.ReconcileResult{Order: winner, Created: false}, nil
	}
	if err != nil {
		return nil, err
	}

	if order.UserID != nil {
		if err := s.carts.Clear(ctx, order.UserID.String()); err != nil {
			s.logger.Warn().Err(err).Str("user_id", order.UserID.String()).Msg("failed to clear cart after order")
		}
	}

	s.sendConfirmation(ctx, order, session)

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("session_id", sessionID).
		Int("item_count", len(order.Items)).
		Str("total", order.Total.StringFixed(2)).
		Msg("order created successfully")

	return &model.ReconcileResult{Order: order, Created: true}, nil
}

// buildOrder snapshots catalogue names and images, keeping the price captured at checkout.
func (s *orderService) buildOrder(ctx context.Context, session *payment.Session, meta payment.Metadata) (*model.Order, error) {
	ids := make([]string, len(meta.Items))
	for i, item := range meta.Items {
		ids[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", session.ID).Msg("failed to retrieve product details")
		return nil, fmt.Errorf("failed to retrieve product details: %w", err)
	}
	byID := make(map[string]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	now := s.now().UTC()
	order := &model.Order{
		ID:              uuid.New(),
		ShippingAddress: meta.Shipping,
		PaymentMethod:   "card",
		PaymentStatus:   model.PaymentStatusPaid,
		Status:          model.OrderStatusProcessing,
		StripeSessionID: session.ID,
		PaidAt:          &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	order.Items = make([]model.OrderItem, len(meta.Items))
	for i, item := range meta.Items {
		p, ok := byID[item.ProductID]
		if !ok {
			return nil, model.NotFound(model.ErrCodeProductNotFound, "Product not found: %s", item.ProductID)
		}

		price := p.EffectivePrice()
		if item.UnitAmount != nil {
			price = model.FromMinorUnits(*item.UnitAmount)
		}

		var image *string
		if img := p.PrimaryImage(); img != "" {
			image = &img
		}

		order.Items[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: p.ID,
			Name:      p.Name,
			Price:     price,
			Quantity:  item.Quantity,
			Image:     image,
		}
	}
	order.Total = model.OrderTotal(order.Items)

	if meta.UserID != "" {
		userID, err := uuid.Parse(meta.UserID)
		if err != nil {
			s.logger.Warn().Err(err).Str("session_id", session.ID).Msg("session carries malformed user id")
			return nil, model.ErrSessionCorrupt
		}
		order.UserID = &userID
		return order, nil
	}

	email := meta.GuestEmail
	if email == "" {
		email = session.CustomerEmail
	}
	if email == "" {
		return nil, model.ErrSessionCorrupt
	}
	order.GuestEmail = &email
	if meta.GuestName != "" {
		name := meta.GuestName
		order.GuestName = &name
	}

	return order, nil
}

// persist writes the order and its items in one transaction.
func (s *orderService) persist(ctx context.Context, order *model.Order) (err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		if errors.Is(err, repository.ErrDuplicateSession) {
			return err
		}
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, order.Items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(order.Items)).
			Msg("failed to create order items")
		return fmt.Errorf("failed to create order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (s *orderService) sendConfirmation(ctx context.Context, order *model.Order, session *payment.Session) {
	to := ""
	switch {
	case order.GuestEmail != nil:
		to = *order.GuestEmail
	case session.CustomerEmail != "":
		to = session.CustomerEmail
	case order.UserID != nil:
		user, err := s.userRepo.GetByID(ctx, *order.UserID)
		if err != nil {
			s.logger.Warn().Err(err).Str("order_id", order.ID.String()).Msg("failed to look up confirmation recipient")
		}
		if user != nil {
			to = user.Email
		}
	}
	if to == "" {
		s.logger.Warn().Str("order_id", order.ID.String()).Msg("no recipient for order confirmation")
		return
	}

	if err := s.notifier.Send(ctx, notify.OrderConfirmation(order, to)); err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID.String()).Msg("failed to send order confirmation")
	}
}

// List returns one page of orders visible to the caller.
func (s *orderService) List(ctx context.Context, identity *model.Identity, page, limit int) (*model.OrderList, error) {
	if identity == nil {
		return nil, model.ErrUnauthenticated
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	var userID *uuid.UUID
	if !identity.IsAdmin() {
		id := identity.UserID
		userID = &id
	}

	orders, total, err := s.orderRepo.List(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", identity.UserID.String()).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	if orders == nil {
		orders = []model.Order{}
	}

	return &model.OrderList{
		Orders:     orders,
		Pagination: model.NewPagination(page, limit, total),
	}, nil
}

// GetByID hides other customers' orders behind NOT_FOUND.
func (s *orderService) GetByID(ctx context.Context, identity *model.Identity, id uuid.UUID) (*model.Order, error) {
	if identity == nil {
		return nil, model.ErrUnauthenticated
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	if !identity.IsAdmin() && (order.UserID == nil || *order.UserID != identity.UserID) {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("user_id", identity.UserID.String()).
			Msg("order requested by non-owner")
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, update *model.OrderStatusUpdate) (*model.Order, error) {
	if update == nil || !update.Status.IsValid() {
		return nil, model.Invalid("status must be one of pending, processing, shipped, delivered, cancelled")
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if !order.Status.CanTransitionTo(update.Status) {
		return nil, model.NewDomainError(model.KindValidation, model.ErrCodeInvalidState,
			fmt.Sprintf("Cannot change order status from %s to %s", order.Status, update.Status))
	}

	var deliveredAt *time.Time
	if update.Status == model.OrderStatusDelivered {
		now := s.now().UTC()
		deliveredAt = &now
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, update.Status, update.TrackingNumber, deliveredAt); err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("from", string(order.Status)).
		Str("to", string(update.Status)).
		Msg("order status updated")

	updated, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if updated == nil {
		return nil, model.ErrOrderNotFound
	}
	return updated, nil
}

func (s *orderService) Stats(ctx context.Context) (*model.Stats, error) {
	revenue, err := s.orderRepo.PaidRevenue(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to sum revenue")
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	orders, err := s.orderRepo.Count(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count orders")
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count users")
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	products, err := s.productRepo.Count(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count products")
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return &model.Stats{
		TotalRevenue:  revenue,
		TotalOrders:   orders,
		TotalUsers:    users,
		TotalProducts: products,
	}, nil
}
