package repository

import (
	"context"

	"slicehouse/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// IngredientRepository defines data access for stocked ingredients and the
// stock-movement ledger.
type IngredientRepository interface {
	// GetAll retrieves every ingredient ordered by name.
	GetAll(ctx context.Context) ([]model.Ingredient, error)

	// GetByID retrieves a single ingredient. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error)

	// GetByNames retrieves ingredients matching the given names.
	GetByNames(ctx context.Context, names []string) ([]model.Ingredient, error)

	// Create inserts a new ingredient.
	Create(ctx context.Context, ingredient *model.Ingredient) error

	// Update persists mutable ingredient fields.
	Update(ctx context.Context, ingredient *model.Ingredient) error

	// Count returns the number of ingredients in the catalog.
	Count(ctx context.Context) (int, error)

	// ApplyMovements applies the stock deltas and appends the corresponding
	// ledger rows in a single transaction.
	ApplyMovements(ctx context.Context, movements []model.StockMovement) error
}

// PackRepository defines data access for catalog packs.
type PackRepository interface {
	// GetAll retrieves every pack ordered by name.
	GetAll(ctx context.Context) ([]model.Pack, error)

	// GetByID retrieves a single pack. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*model.Pack, error)

	// Upsert inserts or replaces a pack by id.
	Upsert(ctx context.Context, pack *model.Pack) error
}

// CartRepository defines data access for per-user carts. The cart document
// is replaced wholesale on mutation: last write wins.
type CartRepository interface {
	// Get retrieves a user's cart with its lines. Returns nil when the user
	// has no cart yet.
	Get(ctx context.Context, userID string) (*model.Cart, error)

	// Replace persists the cart header and its lines atomically.
	Replace(ctx context.Context, cart *model.Cart) error

	// Clear removes the user's cart and lines.
	Clear(ctx context.Context, userID string) error
}

// OrderRepository defines data access for orders.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts the order's lines within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// ListByUser retrieves a user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.OrderDetail, error)

	// ListByStatus retrieves orders currently in any of the given statuses,
	// oldest first.
	ListByStatus(ctx context.Context, statuses []model.OrderStatus) ([]model.OrderDetail, error)

	// ListAll retrieves every order, newest first.
	ListAll(ctx context.Context) ([]model.OrderDetail, error)

	// UpdateStatus moves an order to a new status and appends a status-log
	// row in a single transaction.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus, changedBy string) error
}

// UserRepository defines data access for local user records.
type UserRepository interface {
	// GetByID retrieves a user by identity subject. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*model.User, error)

	// Create inserts a new user record.
	Create(ctx context.Context, user *model.User) error

	// Update persists mutable profile fields.
	Update(ctx context.Context, user *model.User) error

	// Upsert inserts or updates the identity-sourced fields of a user,
	// preserving the locally managed role on update.
	Upsert(ctx context.Context, user *model.User) error

	// UpdateRole sets a user's role.
	UpdateRole(ctx context.Context, id string, role model.Role) error

	// Delete removes a user record.
	Delete(ctx context.Context, id string) error

	// List retrieves all users ordered by creation time.
	List(ctx context.Context) ([]model.User, error)
}

// AnalyticsRepository aggregates the counts behind the admin dashboard.
type AnalyticsRepository interface {
	// DashboardStats computes active order count, low-stock count, today's
	// revenue and catalog sizes.
	DashboardStats(ctx context.Context) (*model.DashboardStats, error)
}
