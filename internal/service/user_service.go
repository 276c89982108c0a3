package service

import (
	"context"
	"fmt"
	"time"

	"slicehouse/internal/identity"
	"slicehouse/internal/model"
	"slicehouse/internal/repository"

	"github.com/rs/zerolog"
)

// UserFetcher is the part of the provider client the user service needs for
// lazy provisioning.
type UserFetcher interface {
	GetUser(ctx context.Context, id string) (*identity.ProviderUser, error)
}

// JobEnqueuer is the part of the cache client the user service needs for
// queueing role pushes.
type JobEnqueuer interface {
	Enqueue(ctx context.Context, queue string, job interface{}) error
}

// userService implements UserService.
type userService struct {
	userRepo repository.UserRepository
	provider UserFetcher
	queue    JobEnqueuer
	logger   zerolog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	userRepo repository.UserRepository,
	provider UserFetcher,
	queue JobEnqueuer,
	logger zerolog.Logger,
) UserService {
	return &userService{
		userRepo: userRepo,
		provider: provider,
		queue:    queue,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// ResolveBySubject returns the local user for an identity subject, lazily
// provisioning the record from the provider on first sight. A provider
// failure here fails the resolution: the caller stays unauthorised until the
// provider recovers.
func (s *userService) ResolveBySubject(ctx context.Context, subject string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	pu, err := s.provider.GetUser(ctx, subject)
	if err != nil {
		s.logger.Error().Err(err).Str("subject", subject).Msg("user provisioning failed")
		return nil, fmt.Errorf("failed to provision user: %w", err)
	}
	if pu == nil {
		return nil, model.ErrUserNotFound
	}

	role := model.RoleUser
	if parsed, err := model.ParseRole(pu.PublicMetadata.Role); err == nil {
		role = parsed
	}

	now := time.Now()
	user = &model.User{
		ID:        subject,
		Email:     pu.Email(),
		Username:  pu.Username,
		FullName:  pu.FullName(),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().
		Str("user_id", subject).
		Str("role", string(role)).
		Msg("user provisioned from identity provider")

	return user, nil
}

// GetByID retrieves a local user record.
func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile applies a partial profile update.
func (s *userService) UpdateProfile(ctx context.Context, id string, req *model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.ContactNumber != nil {
		user.ContactNumber = *req.ContactNumber
	}
	if req.AddressLabel != nil {
		user.AddressLabel = *req.AddressLabel
	}
	if req.AddressLine != nil {
		user.AddressLine = *req.AddressLine
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

// List retrieves all users (admin).
func (s *userService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateRole writes the role locally and enqueues the provider push. The
// local write is authoritative; a failed enqueue is logged and the stores
// stay divergent until the next role write.
func (s *userService) UpdateRole(ctx context.Context, actorID, targetID string, role model.Role) (*model.User, error) {
	if actorID == targetID {
		return nil, model.ErrSelfDemotion
	}

	if err := s.userRepo.UpdateRole(ctx, targetID, role); err != nil {
		return nil, err
	}

	job := identity.RoleSyncJob{UserID: targetID, Role: string(role)}
	if err := s.queue.Enqueue(ctx, identity.RoleSyncQueue, job); err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", targetID).
			Str("role", string(role)).
			Msg("failed to enqueue role sync, provider metadata stale")
	}

	s.logger.Info().
		Str("actor", actorID).
		Str("user_id", targetID).
		Str("role", string(role)).
		Msg("user role updated")

	return s.GetByID(ctx, targetID)
}

// SyncFromProvider upserts a user from an identity-provider webhook event.
// The role on an existing row is preserved: local is the source of truth.
func (s *userService) SyncFromProvider(ctx context.Context, user *model.User) error {
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user synced from provider event")
	return nil
}

// Delete removes a user record after a provider deletion event.
func (s *userService) Delete(ctx context.Context, id string) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted after provider event")
	return nil
}
