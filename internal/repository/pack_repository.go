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

// packRepository implements PackRepository using PostgreSQL. The ingredient
// name list is stored as a JSONB column.
type packRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPackRepository creates a new PostgreSQL-backed pack repository.
func NewPackRepository(pool *pgxpool.Pool, logger zerolog.Logger) PackRepository {
	return &packRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "pack").Logger(),
	}
}

func scanPack(row pgx.Row, p *model.Pack) error {
	var ingredients []byte
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &ingredients, &p.CreatedAt); err != nil {
		return err
	}
	if len(ingredients) > 0 {
		if err := json.Unmarshal(ingredients, &p.Ingredients); err != nil {
			return fmt.Errorf("failed to decode pack ingredients: %w", err)
		}
	}
	return nil
}

// GetAll retrieves every pack ordered by name.
func (r *packRepository) GetAll(ctx context.Context) ([]model.Pack, error) {
	query := `
		SELECT id, name, description, price, image_url, ingredients, created_at
		FROM packs
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query packs")
		return nil, fmt.Errorf("failed to query packs: %w", err)
	}
	defer rows.Close()

	var packs []model.Pack
	for rows.Next() {
		var p model.Pack
		if err := scanPack(rows, &p); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan pack row")
			return nil, fmt.Errorf("failed to scan pack: %w", err)
		}
		packs = append(packs, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating pack rows")
		return nil, fmt.Errorf("error iterating packs: %w", err)
	}

	return packs, nil
}

// GetByID retrieves a single pack. Returns nil when absent.
func (r *packRepository) GetByID(ctx context.Context, id string) (*model.Pack, error) {
	query := `
		SELECT id, name, description, price, image_url, ingredients, created_at
		FROM packs
		WHERE id = $1
	`

	var p model.Pack
	err := scanPack(r.pool.QueryRow(ctx, query, id), &p)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("pack_id", id).Msg("pack not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("pack_id", id).Msg("failed to query pack")
		return nil, fmt.Errorf("failed to query pack: %w", err)
	}

	return &p, nil
}

// Upsert inserts or replaces a pack by id.
func (r *packRepository) Upsert(ctx context.Context, pack *model.Pack) error {
	ingredients, err := json.Marshal(pack.Ingredients)
	if err != nil {
		return fmt.Errorf("failed to encode pack ingredients: %w", err)
	}

	query := `
		INSERT INTO packs (id, name, description, price, image_url, ingredients, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    description = EXCLUDED.description,
		    price = EXCLUDED.price,
		    image_url = EXCLUDED.image_url,
		    ingredients = EXCLUDED.ingredients
	`

	_, err = r.pool.Exec(ctx, query,
		pack.ID,
		pack.Name,
		pack.Description,
		pack.Price,
		pack.ImageURL,
		ingredients,
		pack.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("pack_id", pack.ID).Msg("failed to upsert pack")
		return fmt.Errorf("failed to upsert pack: %w", err)
	}

	return nil
}
