package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"slicehouse/internal/model"
	"slicehouse/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Seeder bootstraps the catalog tables from a seed document on startup.
type Seeder struct {
	loader         Loader
	ingredientRepo repository.IngredientRepository
	packRepo       repository.PackRepository
	logger         zerolog.Logger
}

// NewSeeder creates a new catalog seeder.
func NewSeeder(
	loader Loader,
	ingredientRepo repository.IngredientRepository,
	packRepo repository.PackRepository,
	logger zerolog.Logger,
) *Seeder {
	return &Seeder{
		loader:         loader,
		ingredientRepo: ingredientRepo,
		packRepo:       packRepo,
		logger:         logger.With().Str("component", "seeder").Logger(),
	}
}

// Apply loads the seed document and populates the catalog. A non-empty
// ingredient table skips seeding unless force is set; packs are upserted
// either way so menu edits in the seed file roll out on restart.
func (s *Seeder) Apply(ctx context.Context, path string, force bool) error {
	seed, err := s.loader.Load(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to load seed: %w", err)
	}

	count, err := s.ingredientRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count ingredients: %w", err)
	}

	if count > 0 && !force {
		s.logger.Info().Int("existing", count).Msg("catalog already seeded, skipping ingredients")
	} else {
		if err := s.seedIngredients(ctx, seed.Ingredients); err != nil {
			return err
		}
	}

	for i := range seed.Packs {
		if err := s.upsertPack(ctx, &seed.Packs[i]); err != nil {
			return err
		}
	}

	s.logger.Info().
		Int("ingredients", len(seed.Ingredients)).
		Int("packs", len(seed.Packs)).
		Msg("catalog seed applied")

	return nil
}

func (s *Seeder) seedIngredients(ctx context.Context, seeds []IngredientSeed) error {
	now := time.Now()
	var movements []model.StockMovement

	for _, entry := range seeds {
		category, err := model.ParseIngredientCategory(entry.Category)
		if err != nil {
			return fmt.Errorf("seed ingredient %q has invalid category %q", entry.Name, entry.Category)
		}

		// Rows start empty; the SEED movement below carries the opening
		// stock so the ledger accounts for the full quantity.
		ingredient := &model.Ingredient{
			ID:        uuid.New(),
			Name:      entry.Name,
			Category:  category,
			Quantity:  0,
			Unit:      entry.Unit,
			Price:     entry.Price,
			Threshold: entry.Threshold,
			ImageURL:  entry.ImageURL,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := s.ingredientRepo.Create(ctx, ingredient); err != nil {
			if errors.Is(err, model.ErrDuplicateName) {
				s.logger.Debug().Str("name", entry.Name).Msg("ingredient already present, skipping")
				continue
			}
			return fmt.Errorf("failed to seed ingredient %q: %w", entry.Name, err)
		}

		movements = append(movements, model.StockMovement{
			ID:             uuid.New(),
			IngredientName: entry.Name,
			Delta:          entry.Quantity,
			Reason:         model.ReasonSeed,
			CreatedAt:      now,
		})
	}

	if len(movements) > 0 {
		if err := s.ingredientRepo.ApplyMovements(ctx, movements); err != nil {
			return fmt.Errorf("failed to apply seed stock: %w", err)
		}
	}

	return nil
}

func (s *Seeder) upsertPack(ctx context.Context, entry *PackSeed) error {
	if entry.ID == "" || entry.Name == "" {
		return fmt.Errorf("seed pack %q is missing id or name", entry.Name)
	}

	pack := &model.Pack{
		ID:          entry.ID,
		Name:        entry.Name,
		Description: entry.Description,
		Price:       entry.Price,
		ImageURL:    entry.ImageURL,
		Ingredients: entry.Ingredients,
		CreatedAt:   time.Now(),
	}

	if err := s.packRepo.Upsert(ctx, pack); err != nil {
		return fmt.Errorf("failed to upsert pack %q: %w", entry.ID, err)
	}
	return nil
}
