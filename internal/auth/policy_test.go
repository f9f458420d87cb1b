package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"adboard/internal/model"
)

func TestPolicy_Can(t *testing.T) {
	ownerID := uuid.New()
	owner := Caller{ID: ownerID, Role: model.RoleUser}
	stranger := Caller{ID: uuid.New(), Role: model.RoleUser}
	moderator := Caller{ID: uuid.New(), Role: model.RoleModerator}
	anonymous := Caller{}

	approvedAd := &model.Ad{ID: uuid.New(), UserID: ownerID, Status: model.AdStatusApproved}
	pendingAd := &model.Ad{ID: uuid.New(), UserID: ownerID, Status: model.AdStatusPending}
	rejectedAd := &model.Ad{ID: uuid.New(), UserID: ownerID, Status: model.AdStatusRejected}

	tests := []struct {
		name     string
		caller   Caller
		action   Action
		resource *model.Ad
		want     bool
	}{
		{"authenticated user can create", owner, ActionCreateAd, nil, true},
		{"anonymous cannot create", anonymous, ActionCreateAd, nil, false},
		{"anonymous cannot list own ads", anonymous, ActionListOwnAds, nil, false},

		{"owner can edit", owner, ActionEditAd, pendingAd, true},
		{"stranger cannot edit", stranger, ActionEditAd, pendingAd, false},
		{"moderator cannot edit another user's ad", moderator, ActionEditAd, pendingAd, false},
		{"anonymous cannot edit", anonymous, ActionEditAd, pendingAd, false},
		{"edit without a resource is refused", owner, ActionEditAd, nil, false},

		{"anyone can view an approved ad", anonymous, ActionViewAd, approvedAd, true},
		{"owner can view own pending ad", owner, ActionViewAd, pendingAd, true},
		{"owner can view own rejected ad", owner, ActionViewAd, rejectedAd, true},
		{"moderator can view any pending ad", moderator, ActionViewAd, pendingAd, true},
		{"stranger cannot view a pending ad", stranger, ActionViewAd, pendingAd, false},
		{"anonymous cannot view a rejected ad", anonymous, ActionViewAd, rejectedAd, false},

		{"moderator can moderate", moderator, ActionModerate, nil, true},
		{"user cannot moderate", owner, ActionModerate, nil, false},
		{"moderator can manage taxonomy", moderator, ActionManageTaxon, nil, true},
		{"user cannot manage taxonomy", stranger, ActionManageTaxon, nil, false},

		{"unknown action is refused", moderator, Action("ad:delete"), approvedAd, false},
	}

	policy := NewPolicy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Can(tt.caller, tt.action, tt.resource))
		})
	}
}

func TestCaller_Anonymous(t *testing.T) {
	assert.True(t, Caller{}.Anonymous())
	assert.False(t, Caller{ID: uuid.New()}.Anonymous())
}
