package repository

import (
	"context"
	"fmt"

	"slicehouse/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// analyticsRepository computes the admin dashboard aggregates.
type analyticsRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAnalyticsRepository creates a new PostgreSQL-backed analytics repository.
func NewAnalyticsRepository(pool *pgxpool.Pool, logger zerolog.Logger) AnalyticsRepository {
	return &analyticsRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "analytics").Logger(),
	}
}

// DashboardStats computes active order count, low-stock count, today's
// revenue and catalog sizes in one round trip.
func (r *analyticsRepository) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM orders WHERE status = ANY($1)),
			(SELECT COUNT(*) FROM ingredients WHERE quantity < threshold),
			(SELECT COALESCE(SUM(total_price), 0) FROM orders
				WHERE created_at::date = CURRENT_DATE AND status <> $2),
			(SELECT COUNT(*) FROM packs),
			(SELECT COUNT(*) FROM ingredients)
	`

	active := make([]string, len(model.ActiveStatuses))
	for i, s := range model.ActiveStatuses {
		active[i] = string(s)
	}

	var stats model.DashboardStats
	err := r.pool.QueryRow(ctx, query, active, string(model.StatusPaymentFailed)).Scan(
		&stats.ActiveOrders,
		&stats.LowStockCount,
		&stats.TodayRevenue,
		&stats.PackCount,
		&stats.IngredientCount,
	)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to compute dashboard stats")
		return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}

	return &stats, nil
}
