package service

import (
	"context"
	"fmt"
	"time"

	"slicehouse/internal/model"
	"slicehouse/internal/repository"

	"github.com/rs/zerolog"
)

const dashboardCacheKey = "analytics:dashboard"

// JSONCache is the part of the cache client the analytics service needs.
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// analyticsService implements AnalyticsService with a Redis read-through
// cache in front of the aggregate query.
type analyticsService struct {
	repo        repository.AnalyticsRepository
	cache       JSONCache
	ttl         time.Duration
	pollSeconds int
	logger      zerolog.Logger
}

// NewAnalyticsService creates a new analytics service. pollSeconds is the
// refresh interval advertised to dashboard clients; ttl bounds how stale a
// cached payload may be.
func NewAnalyticsService(
	repo repository.AnalyticsRepository,
	cacheClient JSONCache,
	ttl time.Duration,
	pollSeconds int,
	logger zerolog.Logger,
) AnalyticsService {
	return &analyticsService{
		repo:        repo,
		cache:       cacheClient,
		ttl:         ttl,
		pollSeconds: pollSeconds,
		logger:      logger.With().Str("service", "analytics").Logger(),
	}
}

// Dashboard returns the current aggregates, served from cache when fresh.
// A forced refresh drops the cached payload and recomputes.
func (s *analyticsService) Dashboard(ctx context.Context, refresh bool) (*model.DashboardStats, error) {
	if refresh {
		if err := s.cache.Delete(ctx, dashboardCacheKey); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drop cached dashboard stats")
		}
	} else {
		var cached model.DashboardStats
		hit, err := s.cache.GetJSON(ctx, dashboardCacheKey, &cached)
		if err != nil {
			s.logger.Warn().Err(err).Msg("dashboard cache read failed, falling through")
		}
		if hit {
			return &cached, nil
		}
	}

	stats, err := s.repo.DashboardStats(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to compute dashboard stats")
		return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}
	stats.RefreshAfterSeconds = s.pollSeconds

	if err := s.cache.SetJSON(ctx, dashboardCacheKey, stats, s.ttl); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache dashboard stats")
	}

	return stats, nil
}
