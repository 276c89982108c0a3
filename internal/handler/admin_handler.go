package handler

import (
	"encoding/json"
	"net/http"

	"slicehouse/internal/middleware"
	"slicehouse/internal/model"
	"slicehouse/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AdminHandler handles admin-only HTTP requests: user management, the full
// order book and the status escape hatch.
type AdminHandler struct {
	users  service.UserService
	orders service.OrderService
	logger zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(users service.UserService, orders service.OrderService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		users:  users,
		orders: orders,
		logger: logger.With().Str("handler", "admin").Logger(),
	}
}

// ListUsers handles GET /admin/users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// UpdateRole handles PATCH /admin/users/{id}/role.
func (h *AdminHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "Missing bearer token", h.logger)
		return
	}

	targetID := r.PathValue("id")
	if targetID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "User ID is required", h.logger)
		return
	}

	var req model.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "Invalid request body", h.logger)
		return
	}

	role, err := model.ParseRole(req.Role)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	user, err := h.users.UpdateRole(r.Context(), actor.ID, targetID, role)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ListOrders handles GET /orders/admin/all.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.AllOrders(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// SetOrderStatus handles PATCH /orders/admin/{id}/status. Unlike the staff
// endpoint it accepts any valid status regardless of the current one.
func (h *AdminHandler) SetOrderStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "Missing bearer token", h.logger)
		return
	}

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "Invalid order ID", h.logger)
		return
	}

	var req model.StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "Invalid request body", h.logger)
		return
	}

	target, err := model.ParseOrderStatus(req.Status)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	order, err := h.orders.AdminSetStatus(r.Context(), actor, orderID, target)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
