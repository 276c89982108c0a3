package handler

import (
	"net/http"

	"slicehouse/internal/service"

	"github.com/rs/zerolog"
)

// AnalyticsHandler serves the admin dashboard aggregates.
type AnalyticsHandler struct {
	service service.AnalyticsService
	logger  zerolog.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(service service.AnalyticsService, logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  logger.With().Str("handler", "analytics").Logger(),
	}
}

// Dashboard handles GET /analytics/dashboard. Pass refresh=true to bypass
// the cached payload.
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	refresh := r.URL.Query().Get("refresh") == "true"
	stats, err := h.service.Dashboard(r.Context(), refresh)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
