package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"signal-service/internal/bus"
	"signal-service/internal/domain"
	"signal-service/internal/middleware"
	"signal-service/internal/repository"
)

// PresenceChannel is the bus channel carrying one user's presence updates.
func PresenceChannel(userID uuid.UUID) string {
	return fmt.Sprintf("presence:user:%s", userID.String())
}

type PresenceService interface {
	SetStatus(ctx context.Context, userID uuid.UUID, req *domain.UpdateStatusRequest) (*domain.UserPresence, error)
	GetStatus(ctx context.Context, userID uuid.UUID) (*domain.UserPresence, error)
}

type presenceService struct {
	repo      repository.PresenceRepository
	publisher bus.Publisher
	logger    *zap.Logger
}

func NewPresenceService(repo repository.PresenceRepository, publisher bus.Publisher, logger *zap.Logger) PresenceService {
	return &presenceService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// SetStatus persists the new status, then republishes the stored record to
// the user's presence channel. The write always completes before the
// publish is attempted, and a publish failure never fails the request:
// state updated, notification possibly missed.
func (s *presenceService) SetStatus(ctx context.Context, userID uuid.UUID, req *domain.UpdateStatusRequest) (*domain.UserPresence, error) {
	if !req.Status.Valid() {
		return nil, fmt.Errorf("unknown presence status %q", req.Status)
	}

	presence, err := s.repo.SetStatus(ctx, userID, req.Status, req.CustomText)
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, PresenceChannel(userID), domain.EventPresenceUpdate, presence); err != nil {
		middleware.RecordDroppedNotification()
		s.logger.Warn("presence broadcast dropped",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}
	middleware.RecordPresenceUpdate(string(req.Status))

	return presence, nil
}

func (s *presenceService) GetStatus(ctx context.Context, userID uuid.UUID) (*domain.UserPresence, error) {
	return s.repo.GetStatus(ctx, userID)
}
