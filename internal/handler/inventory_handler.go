package handler

import (
	"encoding/json"
	"net/http"

	"slicehouse/internal/model"
	"slicehouse/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// InventoryHandler handles catalog and inventory HTTP requests.
type InventoryHandler struct {
	service service.InventoryService
	logger  zerolog.Logger
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(service service.InventoryService, logger zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		logger:  logger.With().Str("handler", "inventory").Logger(),
	}
}

// ListIngredients handles GET /inventory.
func (h *InventoryHandler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.service.ListIngredients(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, ingredients)
}

// IngredientsByCategory handles GET /inventory/ingredients: the catalog keyed
// by category for the pizza builder.
func (h *InventoryHandler) IngredientsByCategory(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.service.IngredientsByCategory(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, grouped)
}

// ListPacks handles GET /inventory/packs.
func (h *InventoryHandler) ListPacks(w http.ResponseWriter, r *http.Request) {
	packs, err := h.service.ListPacks(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, packs)
}

// CreateIngredient handles POST /inventory.
func (h *InventoryHandler) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	var req model.CreateIngredientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "Invalid request body", h.logger)
		return
	}

	ingredient, err := h.service.CreateIngredient(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, ingredient)
}

// UpdateIngredient handles PATCH /inventory/{id}.
func (h *InventoryHandler) UpdateIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "Invalid ingredient ID", h.logger)
		return
	}

	var req model.UpdateIngredientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "Invalid request body", h.logger)
		return
	}

	ingredient, err := h.service.UpdateIngredient(r.Context(), id, &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, ingredient)
}
