package service

import (
	"context"
	"errors"
	"fmt"

	"planet-beauty/internal/cache"
	"planet-beauty/internal/model"
	"planet-beauty/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	cache       cache.CartCache
	group       singleflight.Group
	logger      zerolog.Logger
}

// NewCartService creates a new cart service. A nil cache disables caching.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	cartCache cache.CartCache,
	logger zerolog.Logger,
) CartService {
	if cartCache == nil {
		cartCache = cache.Noop{}
	}
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		cache:       cartCache,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

func (s *cartService) Get(ctx context.Context, userID string) (*model.Cart, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, cart)
}

func (s *cartService) Add(ctx context.Context, userID, productID string, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to look up product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	if err := s.cartRepo.AddItem(ctx, userID, productID, quantity); err != nil {
		s.logger.Error().Err(err).
			Str("user_id", userID).
			Str("product_id", productID).
			Msg("failed to add cart item")
		return nil, fmt.Errorf("failed to add item: %w", err)
	}
	s.invalidate(ctx, userID)

	s.logger.Info().
		Str("user_id", userID).
		Str("product_id", productID).
		Int("quantity", quantity).
		Msg("item added to cart")

	return s.fresh(ctx, userID)
}

func (s *cartService) Remove(ctx context.Context, userID, productID string) (*model.Cart, error) {
	if err := s.cartRepo.RemoveItem(ctx, userID, productID); err != nil {
		if errors.Is(err, model.ErrCartNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("user_id", userID).Str("product_id", productID).Msg("failed to remove cart item")
		return nil, fmt.Errorf("failed to remove item: %w", err)
	}
	s.invalidate(ctx, userID)

	return s.fresh(ctx, userID)
}

func (s *cartService) SetQuantity(ctx context.Context, userID, productID string, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}

	if err := s.cartRepo.SetQuantity(ctx, userID, productID, quantity); err != nil {
		if errors.Is(err, model.ErrCartNotFound) || errors.Is(err, model.ErrItemNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("user_id", userID).Str("product_id", productID).Msg("failed to set cart quantity")
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}
	s.invalidate(ctx, userID)

	return s.fresh(ctx, userID)
}

func (s *cartService) Clear(ctx context.Context, userID string) error {
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *cartService) Merge(ctx context.Context, userID string, lines []model.CartLine) (*model.MergeResult, error) {
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}

	known := make(map[string]bool, len(ids))
	if len(ids) > 0 {
		products, err := s.productRepo.GetByIDs(ctx, ids)
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to resolve merge products")
			return nil, fmt.Errorf("failed to get products: %w", err)
		}
		for _, p := range products {
			known[p.ID] = true
		}
	}

	result := &model.MergeResult{}
	for _, line := range lines {
		if !known[line.ProductID] || line.Quantity < 1 {
			result.Skipped = append(result.Skipped, line.ProductID)
			continue
		}
		if err := s.cartRepo.AddItem(ctx, userID, line.ProductID, line.Quantity); err != nil {
			s.logger.Error().Err(err).
				Str("user_id", userID).
				Str("product_id", line.ProductID).
				Msg("failed to merge cart item")
			s.invalidate(ctx, userID)
			return nil, fmt.Errorf("failed to merge item: %w", err)
		}
	}
	s.invalidate(ctx, userID)

	cart, err := s.fresh(ctx, userID)
	if err != nil {
		return nil, err
	}
	result.Cart = cart

	s.logger.Info().
		Str("user_id", userID).
		Int("merged", len(lines)-len(result.Skipped)).
		Int("skipped", len(result.Skipped)).
		Msg("guest cart merged")

	return result, nil
}

// load reads the raw cart through the cache, collapsing concurrent misses for the same user.
// The generation is read before storage so a fill racing a mutation is dropped by the cache.
func (s *cartService) load(ctx context.Context, userID string) (*model.Cart, error) {
	cart, err := s.cache.Get(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("cart cache read failed")
	}

	v, err, _ := s.group.Do(userID, func() (any, error) {
		version, verErr := s.cache.Version(ctx, userID)
		if verErr != nil {
			s.logger.Warn().Err(verErr).Str("user_id", userID).Msg("cart cache version read failed")
		}

		cart, err := s.cartRepo.EnsureCart(ctx, userID)
		if err != nil {
			return nil, err
		}

		if verErr == nil {
			stored, err := s.cache.SetIfVersion(ctx, userID, cart, version)
			if err != nil {
				s.logger.Warn().Err(err).Str("user_id", userID).Msg("cart cache write failed")
			} else if !stored {
				s.logger.Debug().Str("user_id", userID).Msg("cart changed during read, cache fill skipped")
			}
		}
		return cart, nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return copyCart(v.(*model.Cart)), nil
}

// fresh bypasses the cache after a mutation.
func (s *cartService) fresh(ctx context.Context, userID string) (*model.Cart, error) {
	cart, err := s.cartRepo.EnsureCart(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to reload cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return s.populate(ctx, cart)
}

// populate attaches live product details. Lines whose product has disappeared keep a nil view.
func (s *cartService) populate(ctx context.Context, cart *model.Cart) (*model.Cart, error) {
	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}
	if len(cart.Items) == 0 {
		return cart, nil
	}

	ids := make([]string, len(cart.Items))
	for i, item := range cart.Items {
		ids[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", cart.UserID).Msg("failed to populate cart")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	byID := make(map[string]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for i := range cart.Items {
		if p, ok := byID[cart.Items[i].ProductID]; ok {
			cart.Items[i].Product = model.NewProductView(p)
		}
	}

	return cart, nil
}

func (s *cartService) invalidate(ctx context.Context, userID string) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("cart cache invalidation failed")
	}
}

// copyCart detaches a singleflight result so callers sharing it can populate independently.
func copyCart(c *model.Cart) *model.Cart {
	out := *c
	out.Items = make([]model.CartItem, len(c.Items))
	copy(out.Items, c.Items)
	return &out
}
