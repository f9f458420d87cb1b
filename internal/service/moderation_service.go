package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"adboard/internal/cache"
	"adboard/internal/errors"
	"adboard/internal/model"
	"adboard/internal/repository"
)

// ModerationService reviews pending ads and records every decision in an
// append-only audit trail.
type ModerationService interface {
	ListPending(ctx context.Context) ([]model.AdView, error)
	Approve(ctx context.Context, adID, moderatorID uuid.UUID) error
	Reject(ctx context.Context, adID uuid.UUID, reason string, moderatorID uuid.UUID) error
	History(ctx context.Context, adID uuid.UUID) ([]model.ModerationRecord, error)
}

type moderationService struct {
	adRepo         repository.AdRepository
	moderationRepo repository.ModerationRepository
	cache          *cache.Client
}

// NewModerationService creates a new moderation service.
func NewModerationService(
	adRepo repository.AdRepository,
	moderationRepo repository.ModerationRepository,
	cache *cache.Client,
) ModerationService {
	return &moderationService{
		adRepo:         adRepo,
		moderationRepo: moderationRepo,
		cache:          cache,
	}
}

// ListPending returns all ads awaiting review, newest first, with owner and
// category names resolved.
func (s *moderationService) ListPending(ctx context.Context) ([]model.AdView, error) {
	ads, err := s.adRepo.ListByStatus(ctx, model.AdStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending ads: %w", err)
	}

	views := make([]model.AdView, 0, len(ads))
	for i := range ads {
		views = append(views, ads[i].View())
	}
	return views, nil
}

// Approve marks an ad approved, making it publicly visible, and appends an
// audit record. A stale rejection reason from an earlier decision is
// cleared; the historical reason survives on its ModerationRecord.
func (s *moderationService) Approve(ctx context.Context, adID, moderatorID uuid.UUID) error {
	ad, err := s.adRepo.FindByID(ctx, adID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrAdNotFound
		}
		return fmt.Errorf("find ad: %w", err)
	}

	ad.Status = model.AdStatusApproved
	ad.RejectionReason = ""
	if err := s.adRepo.Update(ctx, ad); err != nil {
		return fmt.Errorf("approve ad: %w", err)
	}

	record := &model.ModerationRecord{
		AdID:        adID,
		ModeratorID: moderatorID,
		Status:      model.AdStatusApproved,
	}
	if err := s.moderationRepo.Create(ctx, record); err != nil {
		return fmt.Errorf("record approval: %w", err)
	}

	_ = s.cache.Delete(ctx, adCacheKey(adID))
	return nil
}

// Reject marks an ad rejected with the given reason and appends an audit
// record. The reason is required.
func (s *moderationService) Reject(ctx context.Context, adID uuid.UUID, reason string, moderatorID uuid.UUID) error {
	if reason == "" {
		return errors.NewValidationError("reason")
	}

	ad, err := s.adRepo.FindByID(ctx, adID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrAdNotFound
		}
		return fmt.Errorf("find ad: %w", err)
	}

	ad.Status = model.AdStatusRejected
	ad.RejectionReason = reason
	if err := s.adRepo.Update(ctx, ad); err != nil {
		return fmt.Errorf("reject ad: %w", err)
	}

	record := &model.ModerationRecord{
		AdID:        adID,
		ModeratorID: moderatorID,
		Status:      model.AdStatusRejected,
		Reason:      reason,
	}
	if err := s.moderationRepo.Create(ctx, record); err != nil {
		return fmt.Errorf("record rejection: %w", err)
	}

	_ = s.cache.Delete(ctx, adCacheKey(adID))
	return nil
}

// History returns every moderation decision ever made for an ad, oldest
// first.
func (s *moderationService) History(ctx context.Context, adID uuid.UUID) ([]model.ModerationRecord, error) {
	records, err := s.moderationRepo.ListByAd(ctx, adID)
	if err != nil {
		return nil, fmt.Errorf("list moderation records: %w", err)
	}
	return records, nil
}
