package repository

import (
	"context"
	"errors"
	"fmt"

	"slicehouse/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// ingredientRepository implements IngredientRepository using PostgreSQL.
type ingredientRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewIngredientRepository creates a new PostgreSQL-backed ingredient repository.
func NewIngredientRepository(pool *pgxpool.Pool, logger zerolog.Logger) IngredientRepository {
	return &ingredientRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "ingredient").Logger(),
	}
}

const ingredientColumns = `id, name, category, quantity, unit, price, threshold, image_url, created_at, updated_at`

func scanIngredient(row pgx.Row, i *model.Ingredient) error {
	return row.Scan(
		&i.ID,
		&i.Name,
		&i.Category,
		&i.Quantity,
		&i.Unit,
		&i.Price,
		&i.Threshold,
		&i.ImageURL,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
}

// GetAll retrieves every ingredient ordered by name.
func (r *ingredientRepository) GetAll(ctx context.Context) ([]model.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredients ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query ingredients")
		return nil, fmt.Errorf("failed to query ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []model.Ingredient
	for rows.Next() {
		var i model.Ingredient
		if err := scanIngredient(rows, &i); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan ingredient row")
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, i)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating ingredient rows")
		return nil, fmt.Errorf("error iterating ingredients: %w", err)
	}

	return ingredients, nil
}

// GetByID retrieves a single ingredient. Returns nil when absent.
func (r *ingredientRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredients WHERE id = $1`

	var i model.Ingredient
	err := scanIngredient(r.pool.QueryRow(ctx, query, id), &i)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("ingredient_id", id.String()).Msg("ingredient not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("ingredient_id", id.String()).Msg("failed to query ingredient")
		return nil, fmt.Errorf("failed to query ingredient: %w", err)
	}

	return &i, nil
}

// GetByNames retrieves ingredients matching the given names.
func (r *ingredientRepository) GetByNames(ctx context.Context, names []string) ([]model.Ingredient, error) {
	if len(names) == 0 {
		return []model.Ingredient{}, nil
	}

	query := `SELECT ` + ingredientColumns + ` FROM ingredients WHERE name = ANY($1)`

	rows, err := r.pool.Query(ctx, query, names)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(names)).Msg("failed to query ingredients by names")
		return nil, fmt.Errorf("failed to query ingredients by names: %w", err)
	}
	defer rows.Close()

	var ingredients []model.Ingredient
	for rows.Next() {
		var i model.Ingredient
		if err := scanIngredient(rows, &i); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan ingredient row")
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, i)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating ingredient rows")
		return nil, fmt.Errorf("error iterating ingredients: %w", err)
	}

	return ingredients, nil
}

// Create inserts a new ingredient. Duplicate names map to ErrDuplicateName.
func (r *ingredientRepository) Create(ctx context.Context, ingredient *model.Ingredient) error {
	query := `
		INSERT INTO ingredients (id, name, category, quantity, unit, price, threshold, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		ingredient.ID,
		ingredient.Name,
		ingredient.Category,
		ingredient.Quantity,
		ingredient.Unit,
		ingredient.Price,
		ingredient.Threshold,
		ingredient.ImageURL,
		ingredient.CreatedAt,
		ingredient.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.logger.Warn().Str("name", ingredient.Name).Msg("duplicate ingredient name")
			return model.ErrDuplicateName
		}
		r.logger.Error().Err(err).Str("name", ingredient.Name).Msg("failed to create ingredient")
		return fmt.Errorf("failed to create ingredient: %w", err)
	}

	r.logger.Debug().Str("name", ingredient.Name).Msg("ingredient created")
	return nil
}

// Update persists mutable ingredient fields.
func (r *ingredientRepository) Update(ctx context.Context, ingredient *model.Ingredient) error {
	query := `
		UPDATE ingredients
		SET quantity = $2, unit = $3, price = $4, threshold = $5, image_url = $6, updated_at = $7
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		ingredient.ID,
		ingredient.Quantity,
		ingredient.Unit,
		ingredient.Price,
		ingredient.Threshold,
		ingredient.ImageURL,
		ingredient.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("ingredient_id", ingredient.ID.String()).Msg("failed to update ingredient")
		return fmt.Errorf("failed to update ingredient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrIngredientNotFound
	}

	return nil
}

// Count returns the number of ingredients in the catalog.
func (r *ingredientRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ingredients`).Scan(&count)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to count ingredients")
		return 0, fmt.Errorf("failed to count ingredients: %w", err)
	}
	return count, nil
}

// ApplyMovements applies stock deltas and appends ledger rows in a single
// transaction. Quantities are not floor-clamped.
func (r *ingredientRepository) ApplyMovements(ctx context.Context, movements []model.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin movement transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	updateQuery := `
		UPDATE ingredients
		SET quantity = quantity + $2, updated_at = NOW()
		WHERE name = $1
	`
	insertQuery := `
		INSERT INTO stock_movements (id, ingredient_name, delta, reason, order_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for _, m := range movements {
		batch.Queue(updateQuery, m.IngredientName, m.Delta)
		batch.Queue(insertQuery, m.ID, m.IngredientName, m.Delta, m.Reason, m.OrderID, m.CreatedAt)
	}

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			r.logger.Error().Err(err).Msg("failed to apply stock movement")
			return fmt.Errorf("failed to apply stock movement: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close movement batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to commit stock movements")
		return fmt.Errorf("failed to commit stock movements: %w", err)
	}

	r.logger.Debug().Int("count", len(movements)).Msg("stock movements applied")
	return nil
}
