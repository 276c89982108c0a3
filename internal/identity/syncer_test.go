package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockSyncQueue is a mock implementation of SyncQueue.
type MockSyncQueue struct {
	mock.Mock
}

func (m *MockSyncQueue) Enqueue(ctx context.Context, queue string, job interface{}) error {
	args := m.Called(ctx, queue, job)
	return args.Error(0)
}

func (m *MockSyncQueue) Dequeue(ctx context.Context, queue string, timeout time.Duration) ([]byte, error) {
	args := m.Called(ctx, queue, timeout)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockRolePusher is a mock implementation of RolePusher.
type MockRolePusher struct {
	mock.Mock
}

func (m *MockRolePusher) UpdateRole(ctx context.Context, id, role string) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func TestSyncer_Process_SuccessDoesNotRequeue(t *testing.T) {
	ctx := context.Background()
	queue := new(MockSyncQueue)
	pusher := new(MockRolePusher)
	syncer := NewSyncer(queue, pusher, 5, zerolog.Nop())

	pusher.On("UpdateRole", ctx, "user_1", "CHEF").Return(nil)

	syncer.process(ctx, RoleSyncJob{UserID: "user_1", Role: "CHEF"})

	pusher.AssertExpectations(t)
	queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncer_Process_RequeuesFailedJobWithAttemptCount(t *testing.T) {
	ctx := context.Background()
	queue := new(MockSyncQueue)
	pusher := new(MockRolePusher)
	syncer := NewSyncer(queue, pusher, 5, zerolog.Nop())

	pusher.On("UpdateRole", ctx, "user_1", "CHEF").Return(errors.New("provider down"))
	queue.On("Enqueue", ctx, RoleSyncQueue, RoleSyncJob{UserID: "user_1", Role: "CHEF", Attempts: 1}).
		Return(nil)

	syncer.process(ctx, RoleSyncJob{UserID: "user_1", Role: "CHEF"})

	queue.AssertExpectations(t)
}

func TestSyncer_Process_GivesUpAtAttemptLimit(t *testing.T) {
	ctx := context.Background()
	queue := new(MockSyncQueue)
	pusher := new(MockRolePusher)
	syncer := NewSyncer(queue, pusher, 1, zerolog.Nop())

	pusher.On("UpdateRole", ctx, "user_1", "CHEF").Return(errors.New("provider down"))

	syncer.process(ctx, RoleSyncJob{UserID: "user_1", Role: "CHEF"})

	queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncer_Process_CancelledContextCutsBackoffShort(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	queue := new(MockSyncQueue)
	pusher := new(MockRolePusher)
	syncer := NewSyncer(queue, pusher, 5, zerolog.Nop())

	pusher.On("UpdateRole", ctx, "user_1", "CHEF").Return(errors.New("provider down"))

	// Attempts 3 would mean a 4 second backoff before the requeue.
	start := time.Now()
	syncer.process(ctx, RoleSyncJob{UserID: "user_1", Role: "CHEF", Attempts: 3})

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncer_Run_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	queue := new(MockSyncQueue)
	pusher := new(MockRolePusher)
	queue.On("Dequeue", mock.Anything, RoleSyncQueue, 5*time.Second).
		Return(nil, context.Canceled).Maybe()
	syncer := NewSyncer(queue, pusher, 5, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		syncer.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("syncer did not stop after cancellation")
	}
}
