package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"signal-service/internal/domain"
)

// PresenceRepository is the sole writer of user presence rows. Each user
// has at most one row; writes are single atomic upserts keyed by user_id,
// so the last write observed by the database wins.
type PresenceRepository interface {
	SetStatus(ctx context.Context, userID uuid.UUID, status domain.PresenceStatus, customText *string) (*domain.UserPresence, error)
	GetStatus(ctx context.Context, userID uuid.UUID) (*domain.UserPresence, error)
	FindStale(ctx context.Context, before time.Time) ([]domain.UserPresence, error)
}

type presenceRepository struct {
	db *gorm.DB
}

func NewPresenceRepository(db *gorm.DB) PresenceRepository {
	return &presenceRepository{db: db}
}

func (r *presenceRepository) SetStatus(ctx context.Context, userID uuid.UUID, status domain.PresenceStatus, customText *string) (*domain.UserPresence, error) {
	// Custom text only survives a CUSTOM write.
	if status != domain.PresenceCustom {
		customText = nil
	}

	presence := &domain.UserPresence{
		UserID:     userID,
		Status:     status,
		CustomText: customText,
		UpdatedAt:  time.Now().UTC(),
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "custom_text", "updated_at"}),
	}).Create(presence).Error
	if err != nil {
		return nil, err
	}
	return presence, nil
}

func (r *presenceRepository) GetStatus(ctx context.Context, userID uuid.UUID) (*domain.UserPresence, error) {
	var presence domain.UserPresence
	err := r.db.WithContext(ctx).First(&presence, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &presence, nil
}

// FindStale returns non-offline users whose last update is older than
// before. Used by the sweeper job.
func (r *presenceRepository) FindStale(ctx context.Context, before time.Time) ([]domain.UserPresence, error) {
	var presences []domain.UserPresence
	err := r.db.WithContext(ctx).
		Where("status <> ?", domain.PresenceOffline).
		Where("updated_at < ?", before).
		Find(&presences).Error
	return presences, err
}
