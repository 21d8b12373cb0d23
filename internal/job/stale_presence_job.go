package job

import (
	"context"
	"time"

	"go.uber.org/zap"

	"signal-service/internal/domain"
	"signal-service/internal/repository"
	"signal-service/internal/service"
)

// StalePresenceJob marks users OFFLINE when their presence has not been
// refreshed within the configured window, and republishes the change so
// subscribers converge.
type StalePresenceJob struct {
	presenceRepo    repository.PresenceRepository
	presenceService service.PresenceService
	staleAfter      time.Duration
	logger          *zap.Logger
}

func NewStalePresenceJob(
	presenceRepo repository.PresenceRepository,
	presenceService service.PresenceService,
	staleAfter time.Duration,
	logger *zap.Logger,
) *StalePresenceJob {
	return &StalePresenceJob{
		presenceRepo:    presenceRepo,
		presenceService: presenceService,
		staleAfter:      staleAfter,
		logger:          logger,
	}
}

// Run performs one sweep.
func (j *StalePresenceJob) Run() {
	ctx := context.Background()

	cutoff := time.Now().UTC().Add(-j.staleAfter)
	stale, err := j.presenceRepo.FindStale(ctx, cutoff)
	if err != nil {
		j.logger.Error("Failed to find stale presences", zap.Error(err))
		return
	}

	if len(stale) == 0 {
		return
	}

	j.logger.Info("Sweeping stale presences", zap.Int("count", len(stale)))

	swept := 0
	for _, presence := range stale {
		req := &domain.UpdateStatusRequest{Status: domain.PresenceOffline}
		if _, err := j.presenceService.SetStatus(ctx, presence.UserID, req); err != nil {
			j.logger.Error("Failed to mark user offline",
				zap.String("user_id", presence.UserID.String()),
				zap.Error(err))
			continue
		}
		swept++
	}

	j.logger.Info("Stale presence sweep completed",
		zap.Int("swept", swept),
		zap.Int("failed", len(stale)-swept))
}

// Start runs the sweep on the given interval until the context is done.
func (j *StalePresenceJob) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				j.Run()
			}
		}
	}()
}
