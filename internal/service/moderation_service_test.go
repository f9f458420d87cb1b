package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"adboard/internal/errors"
	"adboard/internal/model"
)

func TestModerationService_ListPending(t *testing.T) {
	adRepo := new(MockAdRepository)
	adRepo.On("ListByStatus", mock.Anything, model.AdStatusPending).Return([]model.Ad{
		{Title: "Pending one", Status: model.AdStatusPending},
		{Title: "Pending two", Status: model.AdStatusPending},
	}, nil)

	svc := NewModerationService(adRepo, new(MockModerationRepository), nil)
	views, err := svc.ListPending(context.Background())

	assert.NoError(t, err)
	assert.Len(t, views, 2)
	adRepo.AssertExpectations(t)
}

func TestModerationService_Approve(t *testing.T) {
	adID := uuid.New()
	moderatorID := uuid.New()

	t.Run("approves and records the decision", func(t *testing.T) {
		adRepo := new(MockAdRepository)
		modRepo := new(MockModerationRepository)

		adRepo.On("FindByID", mock.Anything, adID).Return(&model.Ad{
			ID:              adID,
			Status:          model.AdStatusRejected,
			RejectionReason: "blurry photos",
		}, nil)

		var saved *model.Ad
		adRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Ad")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*model.Ad) }).
			Return(nil)

		var record *model.ModerationRecord
		modRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.ModerationRecord")).
			Run(func(args mock.Arguments) { record = args.Get(1).(*model.ModerationRecord) }).
			Return(nil)

		svc := NewModerationService(adRepo, modRepo, nil)
		err := svc.Approve(context.Background(), adID, moderatorID)

		assert.NoError(t, err)
		assert.Equal(t, model.AdStatusApproved, saved.Status)
		assert.Empty(t, saved.RejectionReason)
		assert.Equal(t, adID, record.AdID)
		assert.Equal(t, moderatorID, record.ModeratorID)
		assert.Equal(t, model.AdStatusApproved, record.Status)
		assert.Empty(t, record.Reason)

		adRepo.AssertExpectations(t)
		modRepo.AssertExpectations(t)
	})

	t.Run("unknown ad", func(t *testing.T) {
		adRepo := new(MockAdRepository)
		adRepo.On("FindByID", mock.Anything, adID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewModerationService(adRepo, new(MockModerationRepository), nil)
		err := svc.Approve(context.Background(), adID, moderatorID)

		assert.ErrorIs(t, err, errors.ErrAdNotFound)
		adRepo.AssertExpectations(t)
	})
}

func TestModerationService_Reject(t *testing.T) {
	adID := uuid.New()
	moderatorID := uuid.New()

	t.Run("rejects with reason and records the decision", func(t *testing.T) {
		adRepo := new(MockAdRepository)
		modRepo := new(MockModerationRepository)

		adRepo.On("FindByID", mock.Anything, adID).Return(&model.Ad{
			ID:     adID,
			Status: model.AdStatusPending,
		}, nil)

		var saved *model.Ad
		adRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Ad")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*model.Ad) }).
			Return(nil)

		var record *model.ModerationRecord
		modRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.ModerationRecord")).
			Run(func(args mock.Arguments) { record = args.Get(1).(*model.ModerationRecord) }).
			Return(nil)

		svc := NewModerationService(adRepo, modRepo, nil)
		err := svc.Reject(context.Background(), adID, "blurry photos", moderatorID)

		assert.NoError(t, err)
		assert.Equal(t, model.AdStatusRejected, saved.Status)
		assert.Equal(t, "blurry photos", saved.RejectionReason)
		assert.Equal(t, model.AdStatusRejected, record.Status)
		assert.Equal(t, "blurry photos", record.Reason)

		adRepo.AssertExpectations(t)
		modRepo.AssertExpectations(t)
	})

	t.Run("empty reason is refused before any lookup", func(t *testing.T) {
		adRepo := new(MockAdRepository)

		svc := NewModerationService(adRepo, new(MockModerationRepository), nil)
		err := svc.Reject(context.Background(), adID, "", moderatorID)

		var vErr *errors.ValidationError
		assert.ErrorAs(t, err, &vErr)
		assert.Equal(t, []string{"reason"}, vErr.Fields)
		adRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown ad", func(t *testing.T) {
		adRepo := new(MockAdRepository)
		adRepo.On("FindByID", mock.Anything, adID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewModerationService(adRepo, new(MockModerationRepository), nil)
		err := svc.Reject(context.Background(), adID, "spam", moderatorID)

		assert.ErrorIs(t, err, errors.ErrAdNotFound)
		adRepo.AssertExpectations(t)
	})
}

func TestModerationService_History(t *testing.T) {
	adID := uuid.New()

	modRepo := new(MockModerationRepository)
	modRepo.On("ListByAd", mock.Anything, adID).Return([]model.ModerationRecord{
		{AdID: adID, Status: model.AdStatusRejected, Reason: "blurry photos"},
		{AdID: adID, Status: model.AdStatusApproved},
	}, nil)

	svc := NewModerationService(new(MockAdRepository), modRepo, nil)
	records, err := svc.History(context.Background(), adID)

	assert.NoError(t, err)
	assert.Len(t, records, 2)
	// Earlier decisions are never rewritten by later ones.
	assert.Equal(t, "blurry photos", records[0].Reason)
	modRepo.AssertExpectations(t)
}
