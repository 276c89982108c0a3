package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slicehouse/internal/model"
	"slicehouse/internal/repository"
)

func TestIngredientRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := SetupTestDB(t)
	repo := repository.NewIngredientRepository(db.Pool, zerolog.Nop())
	ctx := context.Background()

	t.Run("create and fetch by names", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		dough := &model.Ingredient{
			ID:        uuid.New(),
			Name:      "Classic Dough",
			Category:  model.CategoryBase,
			Quantity:  40,
			Unit:      "unit",
			Price:     1.20,
			Threshold: 10,
		}
		require.NoError(t, repo.Create(ctx, dough))

		sauce := &model.Ingredient{
			ID:        uuid.New(),
			Name:      "Tomato Sauce",
			Category:  model.CategorySauce,
			Quantity:  5000,
			Unit:      "ml",
			Threshold: 1000,
		}
		require.NoError(t, repo.Create(ctx, sauce))

		found, err := repo.GetByNames(ctx, []string{"Classic Dough", "Tomato Sauce", "Nope"})
		require.NoError(t, err)
		assert.Len(t, found, 2)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("duplicate name is rejected", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		first := &model.Ingredient{ID: uuid.New(), Name: "Mozzarella", Category: model.CategoryCheese}
		require.NoError(t, repo.Create(ctx, first))

		dupe := &model.Ingredient{ID: uuid.New(), Name: "Mozzarella", Category: model.CategoryCheese}
		err := repo.Create(ctx, dupe)
		assert.ErrorIs(t, err, model.ErrDuplicateName)
	})

	t.Run("movements adjust stock and append to the ledger", func(t *testing.T) {
		CleanupDB(t, db.Pool)
		SeedCatalog(t, db.Pool)

		orderID := uuid.New()
		movements := []model.StockMovement{
			{ID: uuid.New(), IngredientName: "Mozzarella", Delta: -300, Reason: model.ReasonOrderDeduction, OrderID: &orderID, CreatedAt: time.Now()},
			{ID: uuid.New(), IngredientName: "Classic Dough", Delta: -2, Reason: model.ReasonOrderDeduction, OrderID: &orderID, CreatedAt: time.Now()},
		}
		require.NoError(t, repo.ApplyMovements(ctx, movements))

		found, err := repo.GetByNames(ctx, []string{"Mozzarella", "Classic Dough"})
		require.NoError(t, err)
		byName := map[string]float64{}
		for _, ing := range found {
			byName[ing.Name] = ing.Quantity
		}
		assert.Equal(t, 3700.0, byName["Mozzarella"])
		assert.Equal(t, 48.0, byName["Classic Dough"])

		var ledgerRows int
		err = db.Pool.QueryRow(ctx,
			"SELECT COUNT(*) FROM stock_movements WHERE order_id = $1", orderID).Scan(&ledgerRows)
		require.NoError(t, err)
		assert.Equal(t, 2, ledgerRows)
	})

	t.Run("stock can go negative", func(t *testing.T) {
		CleanupDB(t, db.Pool)
		SeedCatalog(t, db.Pool)

		movements := []model.StockMovement{
			{ID: uuid.New(), IngredientName: "Pepperoni", Delta: -2000, Reason: model.ReasonOrderDeduction, CreatedAt: time.Now()},
		}
		require.NoError(t, repo.ApplyMovements(ctx, movements))

		found, err := repo.GetByNames(ctx, []string{"Pepperoni"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, -500.0, found[0].Quantity)
		assert.True(t, found[0].LowStock())
	})
}

func TestPackRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := SetupTestDB(t)
	repo := repository.NewPackRepository(db.Pool, zerolog.Nop())
	ctx := context.Background()

	t.Run("upsert round-trips the ingredient list", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		pack := &model.Pack{
			ID:          "pepperoni-feast",
			Name:        "Pepperoni Feast",
			Description: "Double pepperoni",
			Price:       13.49,
			Ingredients: []string{"Classic Dough", "Tomato Sauce", "Mozzarella", "Pepperoni"},
		}
		require.NoError(t, repo.Upsert(ctx, pack))

		got, err := repo.GetByID(ctx, "pepperoni-feast")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Pepperoni Feast", got.Name)
		assert.Equal(t, pack.Ingredients, got.Ingredients)
	})

	t.Run("upsert replaces an existing pack", func(t *testing.T) {
		CleanupDB(t, db.Pool)
		SeedCatalog(t, db.Pool)

		updated := &model.Pack{
			ID:          "margherita",
			Name:        "Margherita",
			Description: "Now with basil",
			Price:       10.49,
			Ingredients: []string{"Classic Dough", "Tomato Sauce", "Mozzarella"},
		}
		require.NoError(t, repo.Upsert(ctx, updated))

		got, err := repo.GetByID(ctx, "margherita")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 10.49, got.Price)
		assert.Equal(t, "Now with basil", got.Description)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("missing pack returns nil", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		got, err := repo.GetByID(ctx, "no-such-pack")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestCartRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := SetupTestDB(t)
	repo := repository.NewCartRepository(db.Pool, zerolog.Nop())
	ctx := context.Background()

	packID := "margherita"

	t.Run("replace and get", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		cart := &model.Cart{
			UserID: "user_cart",
			Items: []model.CartItem{
				{ID: uuid.New(), Name: "Margherita", Price: 9.99, Quantity: 2, PackID: &packID},
				{ID: uuid.New(), Name: "Custom Pizza", Price: 11.50, Quantity: 1, CustomBuild: &model.CustomBuild{
					Base:     "Classic Dough",
					Sauce:    "Tomato Sauce",
					Cheese:   "Mozzarella",
					Toppings: []model.Topping{{Name: "Mushrooms", Quantity: 1}},
				}},
			},
		}
		cart.RecomputeTotal()
		require.NoError(t, repo.Replace(ctx, cart))

		got, err := repo.Get(ctx, "user_cart")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.InDelta(t, 31.48, got.TotalAmount, 0.001)
		require.Len(t, got.Items, 2)
		require.NotNil(t, got.Items[1].CustomBuild)
		assert.Equal(t, "Mozzarella", got.Items[1].CustomBuild.Cheese)
	})

	t.Run("replace overwrites previous lines", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		cart := &model.Cart{
			UserID: "user_cart",
			Items:  []model.CartItem{{ID: uuid.New(), Name: "Margherita", Price: 9.99, Quantity: 1, PackID: &packID}},
		}
		cart.RecomputeTotal()
		require.NoError(t, repo.Replace(ctx, cart))

		cart.Items[0].Quantity = 3
		cart.RecomputeTotal()
		require.NoError(t, repo.Replace(ctx, cart))

		got, err := repo.Get(ctx, "user_cart")
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Len(t, got.Items, 1)
		assert.Equal(t, 3, got.Items[0].Quantity)
	})

	t.Run("lines come back in the order they were added", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		names := []string{"Margherita", "Custom Pizza", "Garlic Bread", "Tiramisu", "Lemonade"}
		cart := &model.Cart{UserID: "user_cart"}
		for _, name := range names {
			cart.Items = append(cart.Items, model.CartItem{ID: uuid.New(), Name: name, Price: 5.00, Quantity: 1})
		}
		cart.RecomputeTotal()
		require.NoError(t, repo.Replace(ctx, cart))

		got, err := repo.Get(ctx, "user_cart")
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Len(t, got.Items, len(names))
		for i, item := range got.Items {
			assert.Equal(t, names[i], item.Name)
		}

		// A replace reorders the lines and the read must follow.
		cart.Items[0], cart.Items[4] = cart.Items[4], cart.Items[0]
		require.NoError(t, repo.Replace(ctx, cart))

		got, err = repo.Get(ctx, "user_cart")
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Len(t, got.Items, len(names))
		assert.Equal(t, "Lemonade", got.Items[0].Name)
		assert.Equal(t, "Margherita", got.Items[4].Name)
	})

	t.Run("missing cart returns nil", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		got, err := repo.Get(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("clear removes the cart", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		cart := &model.Cart{
			UserID: "user_cart",
			Items:  []model.CartItem{{ID: uuid.New(), Name: "Margherita", Price: 9.99, Quantity: 1, PackID: &packID}},
		}
		cart.RecomputeTotal()
		require.NoError(t, repo.Replace(ctx, cart))
		require.NoError(t, repo.Clear(ctx, "user_cart"))

		got, err := repo.Get(ctx, "user_cart")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestOrderRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := SetupTestDB(t)
	repo := repository.NewOrderRepository(db.Pool, zerolog.Nop())
	ctx := context.Background()

	placeOrder := func(t *testing.T, userID string, status model.OrderStatus) uuid.UUID {
		t.Helper()

		order := &model.Order{
			ID:            uuid.New(),
			UserID:        userID,
			Status:        status,
			TotalPrice:    22.49,
			CustomerName:  "Dana Reeves",
			CustomerPhone: "555-0101",
			AddressLine:   "12 Elm St",
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}
		items := []model.OrderItem{
			{ID: uuid.New(), OrderID: order.ID, Name: "Margherita", Price: 9.99, Quantity: 1},
			{ID: uuid.New(), OrderID: order.ID, Name: "Custom Pizza", Price: 12.50, Quantity: 1, CustomBuild: &model.CustomBuild{
				Base: "Classic Dough", Sauce: "Tomato Sauce", Cheese: "Mozzarella",
			}},
		}

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, repo.CreateOrder(ctx, tx, order))
		require.NoError(t, repo.CreateOrderItems(ctx, tx, items))
		require.NoError(t, tx.Commit(ctx))
		return order.ID
	}

	t.Run("create and read back", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		id := placeOrder(t, "user_1", model.StatusOrderReceived)

		order, items, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, order)
		assert.Equal(t, model.StatusOrderReceived, order.Status)
		assert.InDelta(t, 22.49, order.TotalPrice, 0.001)
		require.Len(t, items, 2)
		assert.NotNil(t, items[1].CustomBuild)
	})

	t.Run("items come back in the submitted line order", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		order := &model.Order{
			ID:            uuid.New(),
			UserID:        "user_1",
			Status:        model.StatusOrderReceived,
			TotalPrice:    25.00,
			CustomerName:  "Dana Reeves",
			CustomerPhone: "555-0101",
			AddressLine:   "12 Elm St",
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}
		names := []string{"Margherita", "Custom Pizza", "Garlic Bread", "Tiramisu", "Lemonade"}
		var items []model.OrderItem
		for _, name := range names {
			items = append(items, model.OrderItem{ID: uuid.New(), OrderID: order.ID, Name: name, Price: 5.00, Quantity: 1})
		}

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, repo.CreateOrder(ctx, tx, order))
		require.NoError(t, repo.CreateOrderItems(ctx, tx, items))
		require.NoError(t, tx.Commit(ctx))

		_, got, err := repo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, got, len(names))
		for i, item := range got {
			assert.Equal(t, names[i], item.Name)
		}
	})

	t.Run("status update appends to the log", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		id := placeOrder(t, "user_1", model.StatusOrderReceived)

		err := repo.UpdateStatus(ctx, id, model.StatusOrderReceived, model.StatusInKitchen, "chef_1")
		require.NoError(t, err)

		order, _, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.StatusInKitchen, order.Status)

		var from, to, changedBy string
		err = db.Pool.QueryRow(ctx, `
			SELECT from_status, to_status, changed_by FROM order_status_log WHERE order_id = $1
		`, id).Scan(&from, &to, &changedBy)
		require.NoError(t, err)
		assert.Equal(t, "ORDER_RECEIVED", from)
		assert.Equal(t, "IN_KITCHEN", to)
		assert.Equal(t, "chef_1", changedBy)
	})

	t.Run("list by status returns feed orders oldest first", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		placeOrder(t, "user_1", model.StatusOrderReceived)
		placeOrder(t, "user_2", model.StatusInKitchen)
		placeOrder(t, "user_3", model.StatusDelivered)

		feed, err := repo.ListByStatus(ctx, []model.OrderStatus{model.StatusOrderReceived, model.StatusInKitchen})
		require.NoError(t, err)
		assert.Len(t, feed, 2)
		for _, detail := range feed {
			assert.NotEqual(t, model.StatusDelivered, detail.Order.Status)
			assert.Len(t, detail.Items, 2)
		}
	})

	t.Run("list by user is scoped", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		placeOrder(t, "user_1", model.StatusOrderReceived)
		placeOrder(t, "user_1", model.StatusDelivered)
		placeOrder(t, "user_2", model.StatusOrderReceived)

		mine, err := repo.ListByUser(ctx, "user_1")
		require.NoError(t, err)
		assert.Len(t, mine, 2)

		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})
}

func TestUserRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := SetupTestDB(t)
	repo := repository.NewUserRepository(db.Pool, zerolog.Nop())
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		user := &model.User{ID: "user_abc", Email: "dana@example.com", FullName: "Dana Reeves", Role: model.RoleUser}
		require.NoError(t, repo.Create(ctx, user))

		got, err := repo.GetByID(ctx, "user_abc")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, model.RoleUser, got.Role)
		assert.Equal(t, "dana@example.com", got.Email)
	})

	t.Run("upsert preserves the local role", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		user := &model.User{ID: "user_abc", Email: "dana@example.com", Role: model.RoleUser}
		require.NoError(t, repo.Create(ctx, user))
		require.NoError(t, repo.UpdateRole(ctx, "user_abc", model.RoleChef))

		// A webhook-driven profile sync must not clobber the promotion.
		synced := &model.User{ID: "user_abc", Email: "dana.new@example.com", FullName: "Dana R.", Role: model.RoleUser}
		require.NoError(t, repo.Upsert(ctx, synced))

		got, err := repo.GetByID(ctx, "user_abc")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, model.RoleChef, got.Role)
		assert.Equal(t, "dana.new@example.com", got.Email)
	})

	t.Run("delete removes the record", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		user := &model.User{ID: "user_abc", Role: model.RoleUser}
		require.NoError(t, repo.Create(ctx, user))
		require.NoError(t, repo.Delete(ctx, "user_abc"))

		got, err := repo.GetByID(ctx, "user_abc")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestAnalyticsRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := SetupTestDB(t)
	repo := repository.NewAnalyticsRepository(db.Pool, zerolog.Nop())
	orderRepo := repository.NewOrderRepository(db.Pool, zerolog.Nop())
	ctx := context.Background()

	placeOrder := func(t *testing.T, status model.OrderStatus, total float64) {
		t.Helper()

		order := &model.Order{
			ID:            uuid.New(),
			UserID:        "user_1",
			Status:        status,
			TotalPrice:    total,
			CustomerName:  "Dana Reeves",
			CustomerPhone: "555-0101",
			AddressLine:   "12 Elm St",
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}
		tx, err := orderRepo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, orderRepo.CreateOrder(ctx, tx, order))
		require.NoError(t, tx.Commit(ctx))
	}

	t.Run("aggregates the dashboard counters", func(t *testing.T) {
		CleanupDB(t, db.Pool)
		SeedCatalog(t, db.Pool)

		placeOrder(t, model.StatusOrderReceived, 20.00)
		placeOrder(t, model.StatusInKitchen, 15.00)
		placeOrder(t, model.StatusDelivered, 30.00)
		placeOrder(t, model.StatusPaymentFailed, 99.00)

		// Push one ingredient below its reorder point.
		_, err := db.Pool.Exec(ctx,
			"UPDATE ingredients SET quantity = 100 WHERE name = 'Mozzarella'")
		require.NoError(t, err)

		stats, err := repo.DashboardStats(ctx)
		require.NoError(t, err)
		require.NotNil(t, stats)

		assert.Equal(t, 2, stats.ActiveOrders)
		assert.Equal(t, 1, stats.LowStockCount)
		assert.InDelta(t, 65.00, stats.TodayRevenue, 0.001)
		assert.Equal(t, 1, stats.PackCount)
		assert.Equal(t, 5, stats.IngredientCount)
	})

	t.Run("empty database yields zeroes", func(t *testing.T) {
		CleanupDB(t, db.Pool)

		stats, err := repo.DashboardStats(ctx)
		require.NoError(t, err)
		require.NotNil(t, stats)
		assert.Equal(t, 0, stats.ActiveOrders)
		assert.Equal(t, 0.0, stats.TodayRevenue)
	})
}
