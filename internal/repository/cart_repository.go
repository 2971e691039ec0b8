package repository

import (
	"context"
	"errors"
	"fmt"

	"planet-beauty/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements CartRepository on PostgreSQL.
// Each (user, product) pair is a single cart_items row.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// GetCart loads the cart and its lines in insertion order.
func (r *cartRepository) GetCart(ctx context.Context, userID string) (*model.Cart, error) {
	cart := model.Cart{UserID: userID, Items: []model.CartItem{}}

	err := r.pool.QueryRow(ctx, `SELECT created_at, updated_at FROM carts WHERE user_id = $1`, userID).
		Scan(&cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCartNotFound
		}
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT product_id, quantity
		FROM cart_items
		WHERE user_id = $1
		ORDER BY added_at, product_id
	`, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.ProductID, &item.Quantity); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return &cart, nil
}

// EnsureCart returns the cart, creating an empty one first if needed.
func (r *cartRepository) EnsureCart(ctx context.Context, userID string) (*model.Cart, error) {
	if _, err := r.pool.Exec(ctx, `INSERT INTO carts (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to create cart")
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return r.GetCart(ctx, userID)
}

// AddItem performs the increment-or-insert as one upsert so concurrent adds never lose quantity.
func (r *cartRepository) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	return withTx(ctx, r.pool, r.logger, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO carts (user_id) VALUES ($1)
			ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		`, userID); err != nil {
			r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to upsert cart")
			return fmt.Errorf("failed to upsert cart: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO cart_items (user_id, product_id, quantity)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, product_id)
			DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		`, userID, productID, quantity); err != nil {
			r.logger.Error().Err(err).
				Str("user_id", userID).
				Str("product_id", productID).
				Int("quantity", quantity).
				Msg("failed to upsert cart item")
			return fmt.Errorf("failed to upsert cart item: %w", err)
		}

		return nil
	})
}

// SetQuantity overwrites the quantity of an existing line.
func (r *cartRepository) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	return withTx(ctx, r.pool, r.logger, func(tx pgx.Tx) error {
		if err := touchCart(ctx, tx, userID); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `
			UPDATE cart_items SET quantity = $3
			WHERE user_id = $1 AND product_id = $2
		`, userID, productID, quantity)
		if err != nil {
			r.logger.Error().Err(err).Str("user_id", userID).Str("product_id", productID).Msg("failed to update cart item")
			return fmt.Errorf("failed to update cart item: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrItemNotFound
		}
		return nil
	})
}

// RemoveItem deletes a line. Deleting a line that is not present succeeds.
func (r *cartRepository) RemoveItem(ctx context.Context, userID, productID string) error {
	return withTx(ctx, r.pool, r.logger, func(tx pgx.Tx) error {
		if err := touchCart(ctx, tx, userID); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`, userID, productID); err != nil {
			r.logger.Error().Err(err).Str("user_id", userID).Str("product_id", productID).Msg("failed to delete cart item")
			return fmt.Errorf("failed to delete cart item: %w", err)
		}
		return nil
	})
}

// Clear removes every line but keeps the cart row.
func (r *cartRepository) Clear(ctx context.Context, userID string) error {
	err := withTx(ctx, r.pool, r.logger, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("failed to clear cart items: %w", err)
		}
		if _, err := tx.Exec(ctx, `UPDATE carts SET updated_at = NOW() WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("failed to touch cart: %w", err)
		}
		return nil
	})
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to clear cart")
	}
	return err
}

// touchCart bumps updated_at and reports model.ErrCartNotFound when there is no cart row.
func touchCart(ctx context.Context, tx pgx.Tx, userID string) error {
	tag, err := tx.Exec(ctx, `UPDATE carts SET updated_at = NOW() WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to touch cart: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCartNotFound
	}
	return nil
}
