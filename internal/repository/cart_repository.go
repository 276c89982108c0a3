package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"slicehouse/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements CartRepository using PostgreSQL. Mutations
// replace the cart document wholesale: last write wins.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// Get retrieves a user's cart with its lines. Returns nil when the user has
// no cart yet.
func (r *cartRepository) Get(ctx context.Context, userID string) (*model.Cart, error) {
	var cart model.Cart
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, total_amount, updated_at FROM carts WHERE user_id = $1`,
		userID,
	).Scan(&cart.UserID, &cart.TotalAmount, &cart.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("user_id", userID).Msg("cart not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, price, quantity, pack_id, custom_build
		FROM cart_items
		WHERE user_id = $1
		ORDER BY position
	`, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.CartItem
		var build []byte
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Quantity, &item.PackID, &build); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		if len(build) > 0 {
			item.CustomBuild = &model.CustomBuild{}
			if err := json.Unmarshal(build, item.CustomBuild); err != nil {
				return nil, fmt.Errorf("failed to decode custom build: %w", err)
			}
		}
		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return &cart, nil
}

// Replace persists the cart header and its lines atomically.
func (r *cartRepository) Replace(ctx context.Context, cart *model.Cart) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin cart transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO carts (user_id, total_amount, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET total_amount = EXCLUDED.total_amount, updated_at = EXCLUDED.updated_at
	`, cart.UserID, cart.TotalAmount, cart.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", cart.UserID).Msg("failed to upsert cart")
		return fmt.Errorf("failed to upsert cart: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, cart.UserID); err != nil {
		r.logger.Error().Err(err).Str("user_id", cart.UserID).Msg("failed to clear cart items")
		return fmt.Errorf("failed to clear cart items: %w", err)
	}

	// Reinserted rows share the transaction timestamp, so position is the
	// only reliable line order.
	for pos, item := range cart.Items {
		var build []byte
		if item.CustomBuild != nil {
			build, err = json.Marshal(item.CustomBuild)
			if err != nil {
				return fmt.Errorf("failed to encode custom build: %w", err)
			}
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO cart_items (id, user_id, position, name, description, price, quantity, pack_id, custom_build)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, item.ID, cart.UserID, pos, item.Name, item.Description, item.Price, item.Quantity, item.PackID, build)
		if err != nil {
			r.logger.Error().Err(err).Str("user_id", cart.UserID).Msg("failed to insert cart item")
			return fmt.Errorf("failed to insert cart item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("user_id", cart.UserID).Msg("failed to commit cart")
		return fmt.Errorf("failed to commit cart: %w", err)
	}

	return nil
}

// Clear removes the user's cart and lines.
func (r *cartRepository) Clear(ctx context.Context, userID string) error {
	// cart_items cascade from carts.
	_, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE user_id = $1`, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
