package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ProviderUser is the subset of the identity provider's user object the
// backend cares about.
type ProviderUser struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
	PublicMetadata struct {
		Role string `json:"role"`
	} `json:"public_metadata"`
}

// Email returns the user's primary email address, if any.
func (u *ProviderUser) Email() string {
	if len(u.EmailAddresses) == 0 {
		return ""
	}
	return u.EmailAddresses[0].EmailAddress
}

// FullName joins the provider's name parts.
func (u *ProviderUser) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Client talks to the identity provider's backend API. It is used for lazy
// user provisioning and for pushing role metadata back to the provider.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a new identity provider API client.
func NewClient(baseURL, apiKey string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger.With().Str("component", "identity-client").Logger(),
	}
}

// GetUser fetches a user record from the provider. Returns nil when the
// provider does not know the subject.
func (c *Client) GetUser(ctx context.Context, id string) (*ProviderUser, error) {
	url := fmt.Sprintf("%s/v1/users/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("user_id", id).Msg("identity provider request failed")
		return nil, fmt.Errorf("identity provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error().Int("status", resp.StatusCode).Str("user_id", id).Msg("identity provider returned error")
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var user ProviderUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode identity response: %w", err)
	}

	return &user, nil
}

// UpdateRole pushes a role value into the provider's public metadata for the
// given subject. The call is idempotent: the metadata patch always carries
// the full desired role value.
func (c *Client) UpdateRole(ctx context.Context, id, role string) error {
	payload, err := json.Marshal(map[string]any{
		"public_metadata": map[string]string{"role": role},
	})
	if err != nil {
		return fmt.Errorf("failed to encode metadata payload: %w", err)
	}

	url := fmt.Sprintf("%s/v1/users/%s/metadata", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build metadata request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("identity metadata request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("identity metadata update returned status %d", resp.StatusCode)
	}

	c.logger.Debug().Str("user_id", id).Str("role", role).Msg("role pushed to identity provider")
	return nil
}
