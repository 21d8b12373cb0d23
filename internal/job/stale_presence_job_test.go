package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"signal-service/internal/domain"
)

// MockPresenceRepository is a mock implementation of PresenceRepository
type MockPresenceRepository struct {
	mock.Mock
}

func (m *MockPresenceRepository) SetStatus(ctx context.Context, userID uuid.UUID, status domain.PresenceStatus, customText *string) (*domain.UserPresence, error) {
	args := m.Called(ctx, userID, status, customText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserPresence), args.Error(1)
}

func (m *MockPresenceRepository) GetStatus(ctx context.Context, userID uuid.UUID) (*domain.UserPresence, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserPresence), args.Error(1)
}

func (m *MockPresenceRepository) FindStale(ctx context.Context, before time.Time) ([]domain.UserPresence, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserPresence), args.Error(1)
}

// MockPresenceService is a mock implementation of PresenceService
type MockPresenceService struct {
	mock.Mock
}

func (m *MockPresenceService) SetStatus(ctx context.Context, userID uuid.UUID, req *domain.UpdateStatusRequest) (*domain.UserPresence, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserPresence), args.Error(1)
}

func (m *MockPresenceService) GetStatus(ctx context.Context, userID uuid.UUID) (*domain.UserPresence, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserPresence), args.Error(1)
}

func TestStalePresenceJob_Run(t *testing.T) {
	t.Run("marks stale users offline", func(t *testing.T) {
		repo := new(MockPresenceRepository)
		svc := new(MockPresenceService)

		staleUser := uuid.New()
		repo.On("FindStale", mock.Anything, mock.AnythingOfType("time.Time")).
			Return([]domain.UserPresence{{UserID: staleUser, Status: domain.PresenceOnline}}, nil)
		svc.On("SetStatus", mock.Anything, staleUser, &domain.UpdateStatusRequest{Status: domain.PresenceOffline}).
			Return(&domain.UserPresence{UserID: staleUser, Status: domain.PresenceOffline}, nil)

		j := NewStalePresenceJob(repo, svc, 30*time.Minute, zap.NewNop())
		j.Run()

		repo.AssertExpectations(t)
		svc.AssertExpectations(t)
	})

	t.Run("no stale users", func(t *testing.T) {
		repo := new(MockPresenceRepository)
		svc := new(MockPresenceService)

		repo.On("FindStale", mock.Anything, mock.AnythingOfType("time.Time")).
			Return([]domain.UserPresence{}, nil)

		j := NewStalePresenceJob(repo, svc, 30*time.Minute, zap.NewNop())
		j.Run()

		repo.AssertExpectations(t)
		svc.AssertNotCalled(t, "SetStatus")
	})

	t.Run("query failure skips the sweep", func(t *testing.T) {
		repo := new(MockPresenceRepository)
		svc := new(MockPresenceService)

		repo.On("FindStale", mock.Anything, mock.AnythingOfType("time.Time")).
			Return(nil, errors.New("db down"))

		j := NewStalePresenceJob(repo, svc, 30*time.Minute, zap.NewNop())
		j.Run()

		svc.AssertNotCalled(t, "SetStatus")
	})

	t.Run("one failed write does not stop the sweep", func(t *testing.T) {
		repo := new(MockPresenceRepository)
		svc := new(MockPresenceService)

		userA := uuid.New()
		userB := uuid.New()
		repo.On("FindStale", mock.Anything, mock.AnythingOfType("time.Time")).
			Return([]domain.UserPresence{
				{UserID: userA, Status: domain.PresenceOnline},
				{UserID: userB, Status: domain.PresenceAway},
			}, nil)
		svc.On("SetStatus", mock.Anything, userA, mock.Anything).
			Return(nil, errors.New("db down"))
		svc.On("SetStatus", mock.Anything, userB, mock.Anything).
			Return(&domain.UserPresence{UserID: userB, Status: domain.PresenceOffline}, nil)

		j := NewStalePresenceJob(repo, svc, 30*time.Minute, zap.NewNop())
		j.Run()

		svc.AssertNumberOfCalls(t, "SetStatus", 2)
	})
}

func TestStalePresenceJob_StartStopsOnContextCancel(t *testing.T) {
	repo := new(MockPresenceRepository)
	svc := new(MockPresenceService)
	repo.On("FindStale", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]domain.UserPresence{}, nil).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	j := NewStalePresenceJob(repo, svc, 30*time.Minute, zap.NewNop())
	j.Start(ctx, 10*time.Millisecond)

	time.Sleep(35 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)

	calls := len(repo.Calls)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, len(repo.Calls), "expected no sweeps after cancel")
}
