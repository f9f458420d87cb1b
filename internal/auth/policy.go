package auth

import (
	"github.com/google/uuid"

	"adboard/internal/model"
)

// Caller is the resolved identity of the requester. A zero Caller is an
// anonymous visitor.
type Caller struct {
	ID   uuid.UUID
	Role model.Role
}

// Anonymous reports whether the caller is unauthenticated.
func (c Caller) Anonymous() bool {
	return c.ID == uuid.Nil
}

// Action names an operation a caller may attempt against a resource.
type Action string

const (
	ActionCreateAd    Action = "ad:create"
	ActionEditAd      Action = "ad:edit"
	ActionViewAd      Action = "ad:view"
	ActionListOwnAds  Action = "ad:list-own"
	ActionModerate    Action = "moderation:decide"
	ActionManageTaxon Action = "taxonomy:manage"
)

// Policy decides whether a caller may perform an action on a resource.
// Centralizing the role and ownership rules here keeps the services and
// handlers free of scattered role checks.
type Policy struct{}

// NewPolicy creates the authorization policy.
func NewPolicy() *Policy {
	return &Policy{}
}

// Can returns true when the caller is allowed to perform action on
// resource. Resource is the *model.Ad for ad actions and may be nil for
// actions that are purely role-gated.
func (p *Policy) Can(caller Caller, action Action, resource *model.Ad) bool {
	switch action {
	case ActionCreateAd, ActionListOwnAds:
		return !caller.Anonymous()
	case ActionEditAd:
		if caller.Anonymous() || resource == nil {
			return false
		}
		return resource.UserID == caller.ID
	case ActionViewAd:
		// Approved ads are public. Anything else is visible only to the
		// owner or a moderator.
		if resource == nil {
			return false
		}
		if resource.Status == model.AdStatusApproved {
			return true
		}
		return caller.Role == model.RoleModerator || resource.UserID == caller.ID
	case ActionModerate, ActionManageTaxon:
		return caller.Role == model.RoleModerator
	default:
		return false
	}
}
