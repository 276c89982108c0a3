package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"slicehouse/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAnalyticsRepository is a mock implementation of AnalyticsRepository.
type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DashboardStats), args.Error(1)
}

// MockJSONCache is a mock implementation of JSONCache.
type MockJSONCache struct {
	mock.Mock
}

func (m *MockJSONCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	args := m.Called(ctx, key, dest)
	if args.Bool(0) {
		*dest.(*model.DashboardStats) = *args.Get(2).(*model.DashboardStats)
	}
	return args.Bool(0), args.Error(1)
}

func (m *MockJSONCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockJSONCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func TestAnalyticsService_Dashboard_CacheMissQueriesAndStores(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	mockRepo := new(MockAnalyticsRepository)
	mockCache := new(MockJSONCache)
	svc := NewAnalyticsService(mockRepo, mockCache, 30*time.Second, 30, logger)

	stats := &model.DashboardStats{ActiveOrders: 4, LowStockCount: 2, TodayRevenue: 120.50}

	mockCache.On("GetJSON", ctx, "analytics:dashboard", mock.Anything).Return(false, nil, nil)
	mockRepo.On("DashboardStats", ctx).Return(stats, nil)
	mockCache.On("SetJSON", ctx, "analytics:dashboard", stats, 30*time.Second).Return(nil)

	got, err := svc.Dashboard(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 4, got.ActiveOrders)
	assert.Equal(t, 30, got.RefreshAfterSeconds)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestAnalyticsService_Dashboard_CacheHitSkipsQuery(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	mockRepo := new(MockAnalyticsRepository)
	mockCache := new(MockJSONCache)
	svc := NewAnalyticsService(mockRepo, mockCache, 30*time.Second, 30, logger)

	cached := &model.DashboardStats{ActiveOrders: 7, RefreshAfterSeconds: 30}
	mockCache.On("GetJSON", ctx, "analytics:dashboard", mock.Anything).Return(true, nil, cached)

	got, err := svc.Dashboard(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 7, got.ActiveOrders)
	mockRepo.AssertNotCalled(t, "DashboardStats", mock.Anything)
}

func TestAnalyticsService_Dashboard_ForcedRefreshDropsCache(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	mockRepo := new(MockAnalyticsRepository)
	mockCache := new(MockJSONCache)
	svc := NewAnalyticsService(mockRepo, mockCache, 30*time.Second, 30, logger)

	stats := &model.DashboardStats{ActiveOrders: 9}

	mockCache.On("Delete", ctx, "analytics:dashboard").Return(nil)
	mockRepo.On("DashboardStats", ctx).Return(stats, nil)
	mockCache.On("SetJSON", ctx, "analytics:dashboard", stats, 30*time.Second).Return(nil)

	got, err := svc.Dashboard(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 9, got.ActiveOrders)
	mockCache.AssertNotCalled(t, "GetJSON", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestAnalyticsService_Dashboard_CacheErrorFallsThrough(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	mockRepo := new(MockAnalyticsRepository)
	mockCache := new(MockJSONCache)
	svc := NewAnalyticsService(mockRepo, mockCache, 30*time.Second, 15, logger)

	stats := &model.DashboardStats{ActiveOrders: 1}

	mockCache.On("GetJSON", ctx, "analytics:dashboard", mock.Anything).
		Return(false, errors.New("redis down"), nil)
	mockRepo.On("DashboardStats", ctx).Return(stats, nil)
	mockCache.On("SetJSON", ctx, "analytics:dashboard", stats, 30*time.Second).
		Return(errors.New("redis down"))

	got, err := svc.Dashboard(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 15, got.RefreshAfterSeconds)
}
