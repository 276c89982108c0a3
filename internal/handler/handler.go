package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"slicehouse/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes a coded error response.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeDomainError maps a service error to the right HTTP status. Anything
// that is not a DomainError is reported as an opaque 500.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var de *model.DomainError
	if !errors.As(err, &de) {
		logger.Error().Err(err).Msg("unexpected handler error")
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
			Error:   model.ErrCodeInternalError,
			Message: "Something went wrong",
		})
		return
	}

	status := http.StatusBadRequest
	switch de.Code {
	case model.ErrCodeOrderNotFound,
		model.ErrCodeIngredientNotFound,
		model.ErrCodeCartItemNotFound,
		model.ErrCodeUserNotFound:
		status = http.StatusNotFound
	case model.ErrCodeIllegalTransition:
		status = http.StatusConflict
	case model.ErrCodeDuplicateName:
		status = http.StatusConflict
	case model.ErrCodeSelfDemotion, model.ErrCodeForbidden:
		status = http.StatusForbidden
	case model.ErrCodeUnauthorised:
		status = http.StatusUnauthorized
	case model.ErrCodeInternalError:
		status = http.StatusInternalServerError
	}

	writeError(w, status, de.Code, de.Message, logger)
}
