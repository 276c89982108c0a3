package service

import (
	"context"
	"testing"

	"slicehouse/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCartRepository is a mock implementation of CartRepository.
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) Get(ctx context.Context, userID string) (*model.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartRepository) Replace(ctx context.Context, cart *model.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *MockCartRepository) Clear(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func TestCartService_Get_EmptyViewWhenNoCart(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	mockRepo := new(MockCartRepository)
	svc := NewCartService(mockRepo, logger)

	mockRepo.On("Get", ctx, "user_1").Return(nil, nil)

	cart, err := svc.Get(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, "user_1", cart.UserID)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalAmount)
}

func TestCartService_AddItem_MergesPackLines(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	packID := "margherita"

	mockRepo := new(MockCartRepository)
	svc := NewCartService(mockRepo, logger)

	existing := &model.Cart{
		UserID: "user_1",
		Items: []model.CartItem{
			{ID: uuid.New(), Name: "Margherita", Price: 9.99, Quantity: 1, PackID: &packID},
		},
	}
	mockRepo.On("Get", ctx, "user_1").Return(existing, nil)
	mockRepo.On("Replace", ctx, mock.AnythingOfType("*model.Cart")).Return(nil)

	cart, err := svc.AddItem(ctx, "user_1", &model.AddCartItemRequest{
		Name:     "Margherita",
		Price:    9.99,
		Quantity: 2,
		PackID:   &packID,
	})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.InDelta(t, 29.97, cart.TotalAmount, 0.001)
}

func TestCartService_AddItem_CustomBuildsNeverMerge(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	mockRepo := new(MockCartRepository)
	svc := NewCartService(mockRepo, logger)

	build := &model.CustomBuild{Base: "Classic Dough", Sauce: "Tomato Sauce", Cheese: "Mozzarella"}
	existing := &model.Cart{
		UserID: "user_1",
		Items: []model.CartItem{
			{ID: uuid.New(), Name: "Custom Pizza", Price: 10.50, Quantity: 1, CustomBuild: build},
		},
	}
	mockRepo.On("Get", ctx, "user_1").Return(existing, nil)
	mockRepo.On("Replace", ctx, mock.AnythingOfType("*model.Cart")).Return(nil)

	// The same build again still appends a new line.
	cart, err := svc.AddItem(ctx, "user_1", &model.AddCartItemRequest{
		Name:        "Custom Pizza",
		Price:       10.50,
		Quantity:    1,
		CustomBuild: build,
	})
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestCartService_AddItem_TotalAcrossMixedLines(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	packID := "pepperoni-feast"

	mockRepo := new(MockCartRepository)
	svc := NewCartService(mockRepo, logger)

	existing := &model.Cart{
		UserID: "user_1",
		Items: []model.CartItem{
			{ID: uuid.New(), Name: "Pepperoni Feast", Price: 14.99, Quantity: 1, PackID: &packID},
		},
	}
	mockRepo.On("Get", ctx, "user_1").Return(existing, nil)
	mockRepo.On("Replace", ctx, mock.AnythingOfType("*model.Cart")).Return(nil)

	cart, err := svc.AddItem(ctx, "user_1", &model.AddCartItemRequest{
		Name:     "Custom Pizza",
		Price:    7.00,
		Quantity: 1,
		CustomBuild: &model.CustomBuild{
			Base: "Classic Dough", Sauce: "BBQ Sauce", Cheese: "Cheddar",
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 21.99, cart.TotalAmount, 0.001)
}

func TestCartService_AddItem_Validation(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	svc := NewCartService(new(MockCartRepository), logger)

	_, err := svc.AddItem(ctx, "user_1", &model.AddCartItemRequest{Name: "", Price: 5, Quantity: 1})
	assert.Error(t, err)

	_, err = svc.AddItem(ctx, "user_1", &model.AddCartItemRequest{Name: "Margherita", Price: 5, Quantity: 0})
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)
}

func TestCartService_UpdateQuantity_ClampsToOne(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	itemID := uuid.New()

	mockRepo := new(MockCartRepository)
	svc := NewCartService(mockRepo, logger)

	existing := &model.Cart{
		UserID: "user_1",
		Items:  []model.CartItem{{ID: itemID, Name: "Margherita", Price: 9.99, Quantity: 3}},
	}
	mockRepo.On("Get", ctx, "user_1").Return(existing, nil)
	mockRepo.On("Replace", ctx, mock.AnythingOfType("*model.Cart")).Return(nil)

	cart, err := svc.UpdateQuantity(ctx, "user_1", itemID, -5)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.InDelta(t, 9.99, cart.TotalAmount, 0.001)
}

func TestCartService_UpdateQuantity_UnknownItem(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	mockRepo := new(MockCartRepository)
	svc := NewCartService(mockRepo, logger)

	mockRepo.On("Get", ctx, "user_1").Return(&model.Cart{UserID: "user_1"}, nil)

	_, err := svc.UpdateQuantity(ctx, "user_1", uuid.New(), 2)
	assert.ErrorIs(t, err, model.ErrCartItemNotFound)
}

func TestCartService_RemoveItem(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	keepID := uuid.New()
	dropID := uuid.New()

	mockRepo := new(MockCartRepository)
	svc := NewCartService(mockRepo, logger)

	existing := &model.Cart{
		UserID: "user_1",
		Items: []model.CartItem{
			{ID: keepID, Name: "Margherita", Price: 9.99, Quantity: 1},
			{ID: dropID, Name: "Custom Pizza", Price: 12.00, Quantity: 1},
		},
	}
	mockRepo.On("Get", ctx, "user_1").Return(existing, nil)
	mockRepo.On("Replace", ctx, mock.AnythingOfType("*model.Cart")).Return(nil)

	cart, err := svc.RemoveItem(ctx, "user_1", dropID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, keepID, cart.Items[0].ID)
	assert.InDelta(t, 9.99, cart.TotalAmount, 0.001)
}
