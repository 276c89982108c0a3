package identity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// RoleSyncQueue is the Redis list holding pending role pushes.
const RoleSyncQueue = "identity:role-sync"

// RoleSyncJob is one pending role push to the identity provider.
type RoleSyncJob struct {
	UserID   string `json:"userId"`
	Role     string `json:"role"`
	Attempts int    `json:"attempts"`
}

// RolePusher is the part of the provider client the syncer needs.
type RolePusher interface {
	UpdateRole(ctx context.Context, id, role string) error
}

// SyncQueue is the part of the cache client the syncer needs.
type SyncQueue interface {
	Enqueue(ctx context.Context, queue string, job interface{}) error
	Dequeue(ctx context.Context, queue string, timeout time.Duration) ([]byte, error)
}

// Syncer drains the role-sync queue in the background. The local user record
// is authoritative; pushes that keep failing past the attempt limit are
// dropped with an error log and the stores stay divergent until the next
// role write.
type Syncer struct {
	queue       SyncQueue
	pusher      RolePusher
	maxAttempts int
	logger      zerolog.Logger
}

// NewSyncer creates a new role syncer.
func NewSyncer(queue SyncQueue, pusher RolePusher, maxAttempts int, logger zerolog.Logger) *Syncer {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Syncer{
		queue:       queue,
		pusher:      pusher,
		maxAttempts: maxAttempts,
		logger:      logger.With().Str("component", "role-syncer").Logger(),
	}
}

// Run drains the queue until the context is cancelled.
func (s *Syncer) Run(ctx context.Context) {
	s.logger.Info().Msg("role syncer started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("role syncer stopped")
			return
		default:
		}

		data, err := s.queue.Dequeue(ctx, RoleSyncQueue, 5*time.Second)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			s.logger.Error().Err(err).Msg("failed to read role-sync queue")
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
			}
			continue
		}
		if data == nil {
			continue
		}

		var job RoleSyncJob
		if err := json.Unmarshal(data, &job); err != nil {
			s.logger.Error().Err(err).Msg("dropping malformed role-sync job")
			continue
		}

		s.process(ctx, job)
	}
}

func (s *Syncer) process(ctx context.Context, job RoleSyncJob) {
	err := s.pusher.UpdateRole(ctx, job.UserID, job.Role)
	if err == nil {
		s.logger.Info().
			Str("user_id", job.UserID).
			Str("role", job.Role).
			Int("attempts", job.Attempts+1).
			Msg("role synced to identity provider")
		return
	}

	job.Attempts++
	if job.Attempts >= s.maxAttempts {
		s.logger.Error().
			Err(err).
			Str("user_id", job.UserID).
			Str("role", job.Role).
			Int("attempts", job.Attempts).
			Msg("giving up on role sync, local record stays authoritative")
		return
	}

	s.logger.Warn().
		Err(err).
		Str("user_id", job.UserID).
		Int("attempts", job.Attempts).
		Msg("role sync failed, requeueing")

	// Linear backoff before the job becomes visible again. A shutdown
	// abandons the job rather than blocking on the full delay.
	select {
	case <-time.After(time.Duration(job.Attempts) * time.Second):
	case <-ctx.Done():
		return
	}

	if err := s.queue.Enqueue(ctx, RoleSyncQueue, job); err != nil {
		s.logger.Error().Err(err).Str("user_id", job.UserID).Msg("failed to requeue role-sync job")
	}
}
