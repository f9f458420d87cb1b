package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AdStatus represents the moderation state of an ad.
type AdStatus string

const (
	AdStatusPending  AdStatus = "pending"
	AdStatusApproved AdStatus = "approved"
	AdStatusRejected AdStatus = "rejected"
)

const (
	// TitleMaxLen is the maximum allowed ad title length.
	TitleMaxLen = 100
	// DescriptionMaxLen is the maximum allowed ad description length.
	DescriptionMaxLen = 2000
)

// StringList stores an ordered list of strings as a JSON text column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
}

// Ad represents a single classified listing. Every edit by the owner puts
// the ad back into the pending state for re-review.
type Ad struct {
	ID              uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Title           string          `json:"title" gorm:"size:100;not null"`
	Description     string          `json:"description" gorm:"size:2000;not null"`
	Price           decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null"`
	CategoryID      uuid.UUID       `json:"category_id" gorm:"type:char(36);not null;index"`
	SubcategoryID   uuid.UUID       `json:"subcategory_id" gorm:"type:char(36);not null;index"`
	UserID          uuid.UUID       `json:"user_id" gorm:"type:char(36);not null;index"`
	City            string          `json:"city" gorm:"size:100;not null;index:idx_location"`
	Country         string          `json:"country" gorm:"size:100;not null;index:idx_location"`
	Images          StringList      `json:"images" gorm:"type:text"`
	Status          AdStatus        `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	RejectionReason string          `json:"rejection_reason,omitempty" gorm:"size:500"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Relations
	Category    Category    `json:"-" gorm:"foreignKey:CategoryID"`
	Subcategory Subcategory `json:"-" gorm:"foreignKey:SubcategoryID"`
	User        User        `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Ad) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// AdView is an ad with its references resolved to display fields.
type AdView struct {
	Ad
	CategoryName    string `json:"category_name"`
	SubcategoryName string `json:"subcategory_name"`
	OwnerName       string `json:"owner_name"`
	OwnerEmail      string `json:"owner_email,omitempty"`
}

// View resolves the preloaded relations into an AdView.
func (a *Ad) View() AdView {
	return AdView{
		Ad:              *a,
		CategoryName:    a.Category.Name,
		SubcategoryName: a.Subcategory.Name,
		OwnerName:       a.User.Name,
		OwnerEmail:      a.User.Email,
	}
}
