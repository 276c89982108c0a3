package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"slicehouse/internal/model"
	"slicehouse/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// totalTolerance absorbs float rounding between client and server sums.
const totalTolerance = 0.01

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	deducter  StockDeducter
	carts     CartClearer
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	deducter StockDeducter,
	carts CartClearer,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		deducter:  deducter,
		carts:     carts,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// Create places an order. The order commits first; stock deduction and cart
// clearing run afterwards and their failures never roll the order back.
func (s *orderService) Create(ctx context.Context, userID string, req *model.OrderRequest) (*model.OrderDetail, error) {
	if err := validateOrderRequest(req); err != nil {
		return nil, err
	}

	now := time.Now()
	order := &model.Order{
		ID:            uuid.New(),
		UserID:        userID,
		Status:        model.StatusOrderReceived,
		TotalPrice:    lineTotal(req.Items),
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		AddressLabel:  req.AddressLabel,
		AddressLine:   req.AddressLine,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	items := make([]model.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		items = append(items, model.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			Name:        line.Name,
			Description: line.Description,
			Price:       line.Price,
			Quantity:    line.Quantity,
			PackID:      line.PackID,
			CustomBuild: line.CustomBuild,
		})
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if err := s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID).
		Float64("total", order.TotalPrice).
		Int("items", len(items)).
		Msg("order placed")

	if _, err := s.deducter.Deduct(ctx, order.ID, items); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("stock deduction failed")
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to clear cart after checkout")
	}

	return &model.OrderDetail{Order: *order, Items: items}, nil
}

// MyOrders retrieves the caller's order history, newest first.
func (s *orderService) MyOrders(ctx context.Context, userID string) ([]model.OrderDetail, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list user orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// KitchenFeed retrieves orders a chef can act on, oldest first.
func (s *orderService) KitchenFeed(ctx context.Context) ([]model.OrderDetail, error) {
	return s.feed(ctx, []model.OrderStatus{model.StatusOrderReceived, model.StatusInKitchen})
}

// DeliveryFeed retrieves orders relevant to dispatch, oldest first. Orders
// still in the kitchen are included so riders can stage pickups.
func (s *orderService) DeliveryFeed(ctx context.Context) ([]model.OrderDetail, error) {
	return s.feed(ctx, []model.OrderStatus{model.StatusInKitchen, model.StatusOutForDelivery})
}

func (s *orderService) feed(ctx context.Context, statuses []model.OrderStatus) ([]model.OrderDetail, error) {
	orders, err := s.orderRepo.ListByStatus(ctx, statuses)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders by status")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// AllOrders retrieves every order (admin), newest first.
func (s *orderService) AllOrders(ctx context.Context) ([]model.OrderDetail, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list all orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus applies a role-validated transition and records it in the
// status log.
func (s *orderService) UpdateStatus(ctx context.Context, actor *model.User, orderID uuid.UUID, target model.OrderStatus) (*model.Order, error) {
	order, _, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if !model.CanTransition(actor.Role, order.Status, target) {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("actor", actor.ID).
			Str("role", string(actor.Role)).
			Str("from", string(order.Status)).
			Str("to", string(target)).
			Msg("illegal status transition rejected")
		return nil, model.ErrIllegalTransition
	}

	return s.applyStatus(ctx, order, target, actor.ID)
}

// AdminSetStatus sets any status without consulting the transition table.
func (s *orderService) AdminSetStatus(ctx context.Context, actor *model.User, orderID uuid.UUID, target model.OrderStatus) (*model.Order, error) {
	order, _, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	return s.applyStatus(ctx, order, target, actor.ID)
}

func (s *orderService) applyStatus(ctx context.Context, order *model.Order, target model.OrderStatus, changedBy string) (*model.Order, error) {
	if err := s.orderRepo.UpdateStatus(ctx, order.ID, order.Status, target, changedBy); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("from", string(order.Status)).
		Str("to", string(target)).
		Str("changed_by", changedBy).
		Msg("order status updated")

	order.Status = target
	order.UpdatedAt = time.Now()
	return order, nil
}

func validateOrderRequest(req *model.OrderRequest) error {
	if req == nil || len(req.Items) == 0 {
		return model.ErrEmptyOrder
	}
	for _, line := range req.Items {
		if line.Name == "" {
			return model.NewDomainError(model.ErrCodeMissingField, "Order item name is required")
		}
		if line.Quantity < 1 {
			return model.ErrInvalidQuantity
		}
		if line.Price < 0 {
			return model.NewDomainError(model.ErrCodeMissingField, "Order item price cannot be negative")
		}
	}
	if req.CustomerName == "" || req.CustomerPhone == "" || req.AddressLine == "" {
		return model.ErrMissingContact
	}
	if req.TotalPrice != 0 && math.Abs(req.TotalPrice-lineTotal(req.Items)) > totalTolerance {
		return model.ErrTotalMismatch
	}
	return nil
}

func lineTotal(items []model.OrderItemRequest) float64 {
	total := 0.0
	for _, line := range items {
		total += line.Price * float64(line.Quantity)
	}
	return total
}
