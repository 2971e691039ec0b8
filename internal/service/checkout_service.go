package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"planet-beauty/internal/model"
	"planet-beauty/internal/payment"
	"planet-beauty/internal/repository"
	"planet-beauty/internal/validation"

	"github.com/rs/zerolog"
)

// CheckoutConfig holds the provider-facing session settings.
type CheckoutConfig struct {
	Currency   string
	SuccessURL string
	CancelURL  string
}

// checkoutService implements CheckoutService.
type checkoutService struct {
	cfg         CheckoutConfig
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
	provider    payment.Provider
	validator   *validation.Validator
	logger      zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	cfg CheckoutConfig,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	provider payment.Provider,
	validator *validation.Validator,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		cfg:         cfg,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		provider:    provider,
		validator:   validator,
		logger:      logger.With().Str("service", "checkout").Logger(),
	}
}

// CreateSession builds a priced hosted checkout session.
func (s *checkoutService) CreateSession(ctx context.Context, identity *model.Identity, req *model.CheckoutRequest) (*model.CheckoutSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	lines, err := s.resolveLines(ctx, identity, req.Items)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(req.Email)
	if email == "" && identity != nil {
		email = identity.Email
	}
	if email == "" {
		return nil, model.ErrEmailRequired
	}
	if !s.validator.Email(email) {
		return nil, model.Invalid("email must be a valid email address")
	}

	products, err := s.lookupProducts(ctx, lines)
	if err != nil {
		return nil, err
	}

	lineItems := make([]payment.LineItem, 0, len(lines))
	sessionItems := make([]model.SessionItem, 0, len(lines))
	for _, line := range lines {
		p := products[line.ProductID]
		unit := model.ToMinorUnits(p.EffectivePrice())
		lineItems = append(lineItems, payment.LineItem{
			Name:        p.Name,
			Description: p.Brand,
			Image:       p.PrimaryImage(),
			UnitAmount:  unit,
			Quantity:    int64(line.Quantity),
		})
		sessionItems = append(sessionItems, model.SessionItem{
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			UnitAmount: &unit,
		})
	}

	meta := payment.Metadata{
		Shipping: req.ShippingAddress,
		Items:    sessionItems,
	}
	if identity != nil {
		meta.UserID = identity.UserID.String()
	} else {
		meta.GuestEmail = email
		if req.Name != nil {
			meta.GuestName = strings.TrimSpace(*req.Name)
		}
	}

	metadata, err := meta.Encode()
	if err != nil {
		if errors.Is(err, payment.ErrMetadataTooLarge) {
			return nil, model.Invalid("cart is too large to check out")
		}
		return nil, fmt.Errorf("failed to encode session metadata: %w", err)
	}

	session, err := s.provider.CreateSession(ctx, payment.CreateSessionParams{
		Currency:      s.cfg.Currency,
		CustomerEmail: email,
		LineItems:     lineItems,
		Metadata:      metadata,
		SuccessURL:    s.cfg.SuccessURL,
		CancelURL:     s.cfg.CancelURL,
	})
	if err != nil {
		s.logger.Error().Err(err).Int("lines", len(lineItems)).Msg("failed to create checkout session")
		return nil, model.Upstream("Failed to create checkout session", err)
	}

	s.logger.Info().
		Str("session_id", session.ID).
		Int("lines", len(lineItems)).
		Bool("guest", identity == nil).
		Msg("checkout session created")

	return &model.CheckoutSession{SessionID: session.ID, URL: session.URL}, nil
}

// resolveLines falls back to the caller's saved cart when the request carries no items.
func (s *checkoutService) resolveLines(ctx context.Context, identity *model.Identity, items []model.CartLine) ([]model.CartLine, error) {
	lines := items
	if len(lines) == 0 && identity != nil {
		cart, err := s.cartRepo.GetCart(ctx, identity.UserID.String())
		if err != nil && !errors.Is(err, model.ErrCartNotFound) {
			s.logger.Error().Err(err).Str("user_id", identity.UserID.String()).Msg("failed to read cart for checkout")
			return nil, fmt.Errorf("failed to get cart: %w", err)
		}
		if cart != nil {
			for _, item := range cart.Items {
				lines = append(lines, model.CartLine{ProductID: item.ProductID, Quantity: item.Quantity})
			}
		}
	}

	if len(lines) == 0 {
		return nil, model.ErrEmptyCart
	}
	for _, line := range lines {
		if line.ProductID == "" || line.Quantity < 1 {
			return nil, model.ErrInvalidQuantity
		}
	}
	return lines, nil
}

// lookupProducts resolves every line in one query and fails on the first unknown ID.
func (s *checkoutService) lookupProducts(ctx context.Context, lines []model.CartLine) (map[string]*model.Product, error) {
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load checkout products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	byID := make(map[string]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, model.NotFound(model.ErrCodeProductNotFound, "Product not found: %s", id)
		}
	}
	return byID, nil
}
