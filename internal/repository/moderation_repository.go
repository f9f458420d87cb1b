package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"adboard/internal/model"
)

// ModerationRepository defines moderation audit persistence. Records are
// append-only: there is deliberately no update or delete.
type ModerationRepository interface {
	Create(ctx context.Context, record *model.ModerationRecord) error
	ListByAd(ctx context.Context, adID uuid.UUID) ([]model.ModerationRecord, error)
}

type moderationRepository struct {
	db *gorm.DB
}

// NewModerationRepository creates a new moderation repository.
func NewModerationRepository(db *gorm.DB) ModerationRepository {
	return &moderationRepository{db: db}
}

// Create appends a new moderation record.
func (r *moderationRepository) Create(ctx context.Context, record *model.ModerationRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// ListByAd returns the moderation history of an ad, oldest first.
func (r *moderationRepository) ListByAd(ctx context.Context, adID uuid.UUID) ([]model.ModerationRecord, error) {
	var records []model.ModerationRecord
	if err := r.db.WithContext(ctx).
		Where("ad_id = ?", adID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
