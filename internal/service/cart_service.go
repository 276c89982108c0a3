package service

import (
	"context"
	"fmt"
	"time"

	"slicehouse/internal/model"
	"slicehouse/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo repository.CartRepository
	logger   zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(cartRepo repository.CartRepository, logger zerolog.Logger) CartService {
	return &cartService{
		cartRepo: cartRepo,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

// Get retrieves the user's cart, creating an empty view when none exists.
func (s *cartService) Get(ctx context.Context, userID string) (*model.Cart, error) {
	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if cart == nil {
		return &model.Cart{UserID: userID, Items: []model.CartItem{}}, nil
	}
	return cart, nil
}

// AddItem adds a line to the cart. A pack line already present by pack
// reference gets its quantity incremented; custom builds always append, even
// when identical.
func (s *cartService) AddItem(ctx context.Context, userID string, req *model.AddCartItemRequest) (*model.Cart, error) {
	if req == nil || req.Name == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Item name is required")
	}
	if req.Quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}
	if req.Price < 0 {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Item price cannot be negative")
	}

	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := false
	if req.PackID != nil {
		for i := range cart.Items {
			if cart.Items[i].PackID != nil && *cart.Items[i].PackID == *req.PackID {
				cart.Items[i].Quantity += req.Quantity
				merged = true
				break
			}
		}
	}

	if !merged {
		cart.Items = append(cart.Items, model.CartItem{
			ID:          uuid.New(),
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Quantity:    req.Quantity,
			PackID:      req.PackID,
			CustomBuild: req.CustomBuild,
		})
	}

	return s.save(ctx, cart)
}

// UpdateQuantity sets a line's quantity. Requested values below 1 clamp to 1.
func (s *cartService) UpdateQuantity(ctx context.Context, userID string, itemID uuid.UUID, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		s.logger.Debug().
			Str("user_id", userID).
			Int("requested", quantity).
			Msg("clamping cart quantity to 1")
		quantity = 1
	}

	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, model.ErrCartItemNotFound
	}

	return s.save(ctx, cart)
}

// RemoveItem removes a line from the cart.
func (s *cartService) RemoveItem(ctx context.Context, userID string, itemID uuid.UUID) (*model.Cart, error) {
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := cart.Items[:0]
	found := false
	for _, item := range cart.Items {
		if item.ID == itemID {
			found = true
			continue
		}
		items = append(items, item)
	}
	if !found {
		return nil, model.ErrCartItemNotFound
	}
	cart.Items = items

	return s.save(ctx, cart)
}

// Clear removes the whole cart.
func (s *cartService) Clear(ctx context.Context, userID string) error {
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (s *cartService) save(ctx context.Context, cart *model.Cart) (*model.Cart, error) {
	cart.RecomputeTotal()
	cart.UpdatedAt = time.Now()

	if err := s.cartRepo.Replace(ctx, cart); err != nil {
		s.logger.Error().Err(err).Str("user_id", cart.UserID).Msg("failed to save cart")
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	s.logger.Debug().
		Str("user_id", cart.UserID).
		Int("items", len(cart.Items)).
		Float64("total", cart.TotalAmount).
		Msg("cart saved")

	return cart, nil
}
