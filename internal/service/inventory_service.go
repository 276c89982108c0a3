package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"slicehouse/internal/model"
	"slicehouse/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Fixed heuristic quantities deducted per pizza: these mirror what the
// kitchen consumes for a single build, not what the customer configured.
const (
	deductBaseUnits    = 1.0
	deductSauceMl      = 100.0
	deductCheeseGrams  = 100.0
	deductToppingGrams = 50.0
)

// inventoryService implements InventoryService.
type inventoryService struct {
	ingredientRepo repository.IngredientRepository
	packRepo       repository.PackRepository
	logger         zerolog.Logger
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(
	ingredientRepo repository.IngredientRepository,
	packRepo repository.PackRepository,
	logger zerolog.Logger,
) InventoryService {
	return &inventoryService{
		ingredientRepo: ingredientRepo,
		packRepo:       packRepo,
		logger:         logger.With().Str("service", "inventory").Logger(),
	}
}

// ListIngredients retrieves the full ingredient catalog.
func (s *inventoryService) ListIngredients(ctx context.Context) ([]model.Ingredient, error) {
	ingredients, err := s.ingredientRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list ingredients")
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

// IngredientsByCategory groups the catalog by ingredient category.
func (s *inventoryService) IngredientsByCategory(ctx context.Context) (map[model.IngredientCategory][]model.Ingredient, error) {
	ingredients, err := s.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(map[model.IngredientCategory][]model.Ingredient)
	for _, i := range ingredients {
		grouped[i.Category] = append(grouped[i.Category], i)
	}
	return grouped, nil
}

// ListPacks retrieves the pack catalog.
func (s *inventoryService) ListPacks(ctx context.Context) ([]model.Pack, error) {
	packs, err := s.packRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list packs")
		return nil, fmt.Errorf("failed to list packs: %w", err)
	}
	return packs, nil
}

// CreateIngredient adds a new ingredient (admin).
func (s *inventoryService) CreateIngredient(ctx context.Context, req *model.CreateIngredientRequest) (*model.Ingredient, error) {
	if req == nil || req.Name == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Ingredient name is required")
	}
	category, err := model.ParseIngredientCategory(req.Category)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ingredient := &model.Ingredient{
		ID:        uuid.New(),
		Name:      req.Name,
		Category:  category,
		Quantity:  req.Quantity,
		Unit:      req.Unit,
		Price:     req.Price,
		Threshold: req.Threshold,
		ImageURL:  req.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.ingredientRepo.Create(ctx, ingredient); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("name", ingredient.Name).
		Str("category", string(ingredient.Category)).
		Msg("ingredient created")

	return ingredient, nil
}

// UpdateIngredient applies a partial update. A Restock delta is added to the
// current quantity and recorded in the stock-movement ledger.
func (s *inventoryService) UpdateIngredient(ctx context.Context, id uuid.UUID, req *model.UpdateIngredientRequest) (*model.Ingredient, error) {
	ingredient, err := s.ingredientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredient: %w", err)
	}
	if ingredient == nil {
		return nil, model.ErrIngredientNotFound
	}

	if req.Quantity != nil {
		ingredient.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		ingredient.Unit = *req.Unit
	}
	if req.Price != nil {
		ingredient.Price = *req.Price
	}
	if req.Threshold != nil {
		ingredient.Threshold = *req.Threshold
	}
	if req.ImageURL != nil {
		ingredient.ImageURL = *req.ImageURL
	}

	ingredient.UpdatedAt = time.Now()

	if err := s.ingredientRepo.Update(ctx, ingredient); err != nil {
		return nil, err
	}

	// Restock goes through the movement ledger so the quantity bump and the
	// audit row land in the same transaction.
	var restock float64
	if req.Restock != nil && *req.Restock != 0 {
		restock = *req.Restock
		movements := []model.StockMovement{{
			ID:             uuid.New(),
			IngredientName: ingredient.Name,
			Delta:          restock,
			Reason:         model.ReasonRestock,
			CreatedAt:      time.Now(),
		}}
		if err := s.ingredientRepo.ApplyMovements(ctx, movements); err != nil {
			return nil, fmt.Errorf("failed to apply restock: %w", err)
		}
		ingredient.Quantity += restock
	}

	s.logger.Info().
		Str("name", ingredient.Name).
		Float64("quantity", ingredient.Quantity).
		Float64("restock", restock).
		Msg("ingredient updated")

	return ingredient, nil
}

// Deduct applies the fixed-heuristic stock decrements for an order. Names
// that match no catalog ingredient are reported as unresolved; names whose
// stock goes negative are reported as insufficient. Neither case blocks the
// order: stock is not floor-clamped and the decrements still commit.
func (s *inventoryService) Deduct(ctx context.Context, orderID uuid.UUID, items []model.OrderItem) (model.DeductionResult, error) {
	var result model.DeductionResult

	deltas, unresolvedPacks, err := s.resolveDeltas(ctx, items)
	if err != nil {
		return result, err
	}
	result.Unresolved = append(result.Unresolved, unresolvedPacks...)

	if len(deltas) == 0 {
		return result, nil
	}

	names := make([]string, 0, len(deltas))
	for name := range deltas {
		names = append(names, name)
	}
	sort.Strings(names)

	ingredients, err := s.ingredientRepo.GetByNames(ctx, names)
	if err != nil {
		return result, fmt.Errorf("failed to resolve ingredients: %w", err)
	}
	stocked := make(map[string]model.Ingredient, len(ingredients))
	for _, i := range ingredients {
		stocked[i.Name] = i
	}

	now := time.Now()
	var movements []model.StockMovement
	for _, name := range names {
		ingredient, ok := stocked[name]
		if !ok {
			result.Unresolved = append(result.Unresolved, name)
			continue
		}
		amount := deltas[name]
		if ingredient.Quantity-amount < 0 {
			result.Insufficient = append(result.Insufficient, name)
		}
		movements = append(movements, model.StockMovement{
			ID:             uuid.New(),
			IngredientName: name,
			Delta:          -amount,
			Reason:         model.ReasonOrderDeduction,
			OrderID:        &orderID,
			CreatedAt:      now,
		})
	}

	if len(movements) > 0 {
		if err := s.ingredientRepo.ApplyMovements(ctx, movements); err != nil {
			return result, fmt.Errorf("failed to apply deduction: %w", err)
		}
		result.Applied = movements
	}

	if len(result.Unresolved) > 0 || len(result.Insufficient) > 0 {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Strs("unresolved", result.Unresolved).
			Strs("insufficient", result.Insufficient).
			Msg("stock deduction incomplete")
	} else {
		s.logger.Debug().
			Str("order_id", orderID.String()).
			Int("movements", len(movements)).
			Msg("stock deducted")
	}

	return result, nil
}

// resolveDeltas maps order lines to per-ingredient deduction amounts. Pack
// lines resolve through the pack's ingredient list using category defaults;
// custom builds use the builder's component roles directly.
func (s *inventoryService) resolveDeltas(ctx context.Context, items []model.OrderItem) (map[string]float64, []string, error) {
	deltas := make(map[string]float64)
	var unresolved []string

	for _, item := range items {
		qty := float64(item.Quantity)

		switch {
		case item.CustomBuild != nil:
			b := item.CustomBuild
			if b.Base != "" {
				deltas[b.Base] += deductBaseUnits * qty
			}
			if b.Sauce != "" {
				deltas[b.Sauce] += deductSauceMl * qty
			}
			if b.Cheese != "" {
				deltas[b.Cheese] += deductCheeseGrams * qty
			}
			for _, t := range b.Toppings {
				deltas[t.Name] += deductToppingGrams * qty
			}

		case item.PackID != nil:
			pack, err := s.packRepo.GetByID(ctx, *item.PackID)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to load pack: %w", err)
			}
			if pack == nil {
				unresolved = append(unresolved, *item.PackID)
				continue
			}
			packDeltas, err := s.packComponentDeltas(ctx, pack, qty)
			if err != nil {
				return nil, nil, err
			}
			for name, amount := range packDeltas {
				deltas[name] += amount
			}
		}
	}

	return deltas, unresolved, nil
}

// packComponentDeltas maps a pack's ingredient names to deduction amounts by
// their catalog category.
func (s *inventoryService) packComponentDeltas(ctx context.Context, pack *model.Pack, qty float64) (map[string]float64, error) {
	if len(pack.Ingredients) == 0 {
		return nil, nil
	}

	ingredients, err := s.ingredientRepo.GetByNames(ctx, pack.Ingredients)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve pack ingredients: %w", err)
	}
	categories := make(map[string]model.IngredientCategory, len(ingredients))
	for _, i := range ingredients {
		categories[i.Name] = i.Category
	}

	deltas := make(map[string]float64, len(pack.Ingredients))
	for _, name := range pack.Ingredients {
		switch categories[name] {
		case model.CategorySauce:
			deltas[name] += deductSauceMl * qty
		case model.CategoryCheese:
			deltas[name] += deductCheeseGrams * qty
		case model.CategoryVeggie, model.CategoryMeat:
			deltas[name] += deductToppingGrams * qty
		default:
			// BASE and anything unknown: the per-name lookup downstream
			// reports names missing from the catalog as unresolved.
			deltas[name] += deductBaseUnits * qty
		}
	}

	return deltas, nil
}
