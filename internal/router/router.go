package router

import (
	"net/http"

	"slicehouse/internal/handler"
	"slicehouse/internal/middleware"
	"slicehouse/internal/model"

	"github.com/rs/zerolog"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Inventory *handler.InventoryHandler
	Cart      *handler.CartHandler
	Order     *handler.OrderHandler
	User      *handler.UserHandler
	Admin     *handler.AdminHandler
	Analytics *handler.AnalyticsHandler
	Webhook   *handler.WebhookHandler
}

// New creates the HTTP router with all routes and middleware configured.
// resolver maps bearer-token subjects to local users; jwtSecret verifies the
// tokens themselves.
func New(h Handlers, jwtSecret string, resolver middleware.UserResolver, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Identity webhook: authenticated by signature over the raw body, so it
	// stays outside the bearer middleware.
	mux.HandleFunc("POST /webhooks/clerk", h.Webhook.HandleIdentityEvent)

	auth := middleware.BearerAuth(jwtSecret, resolver, logger)
	kitchen := middleware.RequireRole(logger, model.RoleChef, model.RoleAdmin)
	delivery := middleware.RequireRole(logger, model.RoleDelivery, model.RoleAdmin)
	mover := middleware.RequireRole(logger, model.RoleChef, model.RoleDelivery)
	admin := middleware.RequireRole(logger, model.RoleAdmin)

	authed := func(fn http.HandlerFunc) http.Handler { return auth(fn) }
	role := func(gate func(http.Handler) http.Handler, fn http.HandlerFunc) http.Handler {
		return auth(gate(fn))
	}

	// Public catalog reads
	mux.HandleFunc("GET /inventory", h.Inventory.ListIngredients)
	mux.HandleFunc("GET /inventory/ingredients", h.Inventory.IngredientsByCategory)
	mux.HandleFunc("GET /inventory/packs", h.Inventory.ListPacks)

	// Inventory writes
	mux.Handle("POST /inventory", role(admin, h.Inventory.CreateIngredient))
	mux.Handle("PATCH /inventory/{id}", role(admin, h.Inventory.UpdateIngredient))

	// Cart
	mux.Handle("GET /cart", authed(h.Cart.Get))
	mux.Handle("DELETE /cart", authed(h.Cart.Clear))
	mux.Handle("POST /cart/add", authed(h.Cart.AddItem))
	mux.Handle("PATCH /cart/update", authed(h.Cart.UpdateItem))
	mux.Handle("DELETE /cart/remove", authed(h.Cart.RemoveItem))

	// Orders
	mux.Handle("POST /orders", authed(h.Order.Create))
	mux.Handle("GET /orders/my", authed(h.Order.MyOrders))
	mux.Handle("GET /orders/kitchen", role(kitchen, h.Order.KitchenFeed))
	mux.Handle("GET /orders/delivery", role(delivery, h.Order.DeliveryFeed))
	mux.Handle("PATCH /orders/{id}/status", role(mover, h.Order.UpdateStatus))
	mux.Handle("GET /orders/admin/all", role(admin, h.Admin.ListOrders))
	mux.Handle("PATCH /orders/admin/{id}/status", role(admin, h.Admin.SetOrderStatus))

	// Profile
	mux.Handle("GET /user/me", authed(h.User.Me))
	mux.Handle("PATCH /user/me", authed(h.User.UpdateMe))

	// Admin
	mux.Handle("GET /admin/users", role(admin, h.Admin.ListUsers))
	mux.Handle("PATCH /admin/users/{id}/role", role(admin, h.Admin.UpdateRole))
	mux.Handle("GET /analytics/dashboard", role(admin, h.Analytics.Dashboard))

	// Apply middleware in order: Recovery -> Logging -> CORS
	var root http.Handler = mux
	root = middleware.CORS(root)
	root = middleware.Logging(logger)(root)
	root = middleware.Recovery(logger)(root)

	return root
}
