package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ModerationRecord is an append-only audit entry for one moderation
// decision. Records are never updated or deleted; an ad accumulates one per
// decision across its history of edits and re-reviews.
type ModerationRecord struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	AdID        uuid.UUID `json:"ad_id" gorm:"type:char(36);not null;index"`
	ModeratorID uuid.UUID `json:"moderator_id" gorm:"type:char(36);not null;index"`
	Status      AdStatus  `json:"status" gorm:"type:varchar(20);not null"`
	Reason      string    `json:"reason,omitempty" gorm:"size:500"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Ad        Ad   `json:"-" gorm:"foreignKey:AdID"`
	Moderator User `json:"-" gorm:"foreignKey:ModeratorID"`
}

// BeforeCreate sets UUID before creating the record.
func (m *ModerationRecord) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
