package service

import (
	"context"

	"slicehouse/internal/model"

	"github.com/google/uuid"
)

// InventoryService defines operations over the ingredient/pack catalog and
// the order-time stock deduction.
type InventoryService interface {
	// ListIngredients retrieves the full ingredient catalog.
	ListIngredients(ctx context.Context) ([]model.Ingredient, error)

	// IngredientsByCategory groups the catalog by ingredient category.
	IngredientsByCategory(ctx context.Context) (map[model.IngredientCategory][]model.Ingredient, error)

	// ListPacks retrieves the pack catalog.
	ListPacks(ctx context.Context) ([]model.Pack, error)

	// CreateIngredient adds a new ingredient (admin).
	CreateIngredient(ctx context.Context, req *model.CreateIngredientRequest) (*model.Ingredient, error)

	// UpdateIngredient applies a partial update, including restock deltas (admin).
	UpdateIngredient(ctx context.Context, id uuid.UUID, req *model.UpdateIngredientRequest) (*model.Ingredient, error)

	// Deduct applies the fixed-heuristic stock decrements for an order's
	// items. It reports unresolved and oversold ingredient names in the
	// result and never blocks the order that triggered it.
	Deduct(ctx context.Context, orderID uuid.UUID, items []model.OrderItem) (model.DeductionResult, error)
}

// StockDeducter is the slice of InventoryService the order flow needs.
type StockDeducter interface {
	Deduct(ctx context.Context, orderID uuid.UUID, items []model.OrderItem) (model.DeductionResult, error)
}

// CartService defines operations for per-user cart management.
type CartService interface {
	// Get retrieves the user's cart, creating an empty view when none exists.
	Get(ctx context.Context, userID string) (*model.Cart, error)

	// AddItem adds a line, merging pack lines by pack reference.
	AddItem(ctx context.Context, userID string, req *model.AddCartItemRequest) (*model.Cart, error)

	// UpdateQuantity sets a line's quantity, clamped to a minimum of 1.
	UpdateQuantity(ctx context.Context, userID string, itemID uuid.UUID, quantity int) (*model.Cart, error)

	// RemoveItem removes a line.
	RemoveItem(ctx context.Context, userID string, itemID uuid.UUID) (*model.Cart, error)

	// Clear removes the whole cart.
	Clear(ctx context.Context, userID string) error
}

// CartClearer is the slice of CartService the checkout flow needs.
type CartClearer interface {
	Clear(ctx context.Context, userID string) error
}

// OrderService defines the order lifecycle operations.
type OrderService interface {
	// Create places an order from the submitted cart snapshot, triggers the
	// stock deduction and clears the user's cart.
	Create(ctx context.Context, userID string, req *model.OrderRequest) (*model.OrderDetail, error)

	// MyOrders retrieves the caller's order history.
	MyOrders(ctx context.Context, userID string) ([]model.OrderDetail, error)

	// KitchenFeed retrieves orders awaiting kitchen work.
	KitchenFeed(ctx context.Context) ([]model.OrderDetail, error)

	// DeliveryFeed retrieves orders relevant to dispatch.
	DeliveryFeed(ctx context.Context) ([]model.OrderDetail, error)

	// AllOrders retrieves every order (admin).
	AllOrders(ctx context.Context) ([]model.OrderDetail, error)

	// UpdateStatus applies a role-validated status transition.
	UpdateStatus(ctx context.Context, actor *model.User, orderID uuid.UUID, target model.OrderStatus) (*model.Order, error)

	// AdminSetStatus sets any status with no ordering constraint (admin
	// escape hatch).
	AdminSetStatus(ctx context.Context, actor *model.User, orderID uuid.UUID, target model.OrderStatus) (*model.Order, error)
}

// UserService defines user resolution, profile and role management.
type UserService interface {
	// ResolveBySubject returns the local user for an identity subject,
	// lazily provisioning the record from the provider when missing.
	ResolveBySubject(ctx context.Context, subject string) (*model.User, error)

	// GetByID retrieves a local user record.
	GetByID(ctx context.Context, id string) (*model.User, error)

	// UpdateProfile applies a partial profile update.
	UpdateProfile(ctx context.Context, id string, req *model.UpdateProfileRequest) (*model.User, error)

	// List retrieves all users (admin).
	List(ctx context.Context) ([]model.User, error)

	// UpdateRole changes a user's role, rejecting self-demotion, and
	// enqueues the asynchronous push to the identity provider.
	UpdateRole(ctx context.Context, actorID, targetID string, role model.Role) (*model.User, error)

	// SyncFromProvider upserts a user from an identity-provider event.
	SyncFromProvider(ctx context.Context, user *model.User) error

	// Delete removes a user after an identity-provider deletion event.
	Delete(ctx context.Context, id string) error
}

// AnalyticsService serves the admin dashboard aggregates.
type AnalyticsService interface {
	// Dashboard returns the current aggregates, served through a short TTL
	// cache sized to the dashboard poll interval. refresh drops the cached
	// payload first so the caller sees a fresh computation.
	Dashboard(ctx context.Context, refresh bool) (*model.DashboardStats, error)
}
