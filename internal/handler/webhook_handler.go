package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"slicehouse/internal/identity"
	"slicehouse/internal/model"
	"slicehouse/internal/service"

	"github.com/rs/zerolog"
	svix "github.com/svix/svix-webhooks/go"
)

// WebhookHandler receives identity-provider lifecycle events. The route is
// mounted outside the auth middleware; requests are authenticated by
// signature verification over the raw body instead.
type WebhookHandler struct {
	users   service.UserService
	webhook *svix.Webhook
	logger  zerolog.Logger
}

// NewWebhookHandler creates a new webhook handler. secret is the signing
// secret issued by the identity provider for this endpoint.
func NewWebhookHandler(users service.UserService, secret string, logger zerolog.Logger) (*WebhookHandler, error) {
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, err
	}
	return &WebhookHandler{
		users:   users,
		webhook: wh,
		logger:  logger.With().Str("handler", "webhook").Logger(),
	}, nil
}

// identityEvent is the provider's webhook envelope.
type identityEvent struct {
	Type string                `json:"type"`
	Data identity.ProviderUser `json:"data"`
}

// HandleIdentityEvent handles POST /webhooks/clerk.
func (h *WebhookHandler) HandleIdentityEvent(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "Unreadable request body", h.logger)
		return
	}

	if err := h.webhook.Verify(payload, r.Header); err != nil {
		h.logger.Warn().Err(err).Msg("webhook signature verification failed")
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "Invalid webhook signature", h.logger)
		return
	}

	var event identityEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "Invalid event payload", h.logger)
		return
	}

	switch event.Type {
	case "user.created", "user.updated":
		role := model.RoleUser
		if parsed, err := model.ParseRole(event.Data.PublicMetadata.Role); err == nil {
			role = parsed
		}
		user := &model.User{
			ID:        event.Data.ID,
			Email:     event.Data.Email(),
			Username:  event.Data.Username,
			FullName:  event.Data.FullName(),
			Role:      role,
			CreatedAt: time.Now(),
		}
		if err := h.users.SyncFromProvider(r.Context(), user); err != nil {
			writeDomainError(w, err, h.logger)
			return
		}

	case "user.deleted":
		if err := h.users.Delete(r.Context(), event.Data.ID); err != nil {
			writeDomainError(w, err, h.logger)
			return
		}

	default:
		h.logger.Debug().Str("type", event.Type).Msg("ignoring unhandled webhook event")
	}

	w.WriteHeader(http.StatusNoContent)
}
