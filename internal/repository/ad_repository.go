package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"adboard/internal/model"
)

// AdFilter narrows a catalog search. Nil/empty fields are ignored.
type AdFilter struct {
	Status        model.AdStatus
	CategoryID    *uuid.UUID
	SubcategoryID *uuid.UUID
	SearchText    string
	Limit         int
}

// AdRepository defines ad persistence operations.
type AdRepository interface {
	Create(ctx context.Context, ad *model.Ad) error
	Update(ctx context.Context, ad *model.Ad) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Ad, error)
	FindByIDResolved(ctx context.Context, id uuid.UUID) (*model.Ad, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Ad, error)
	ListByStatus(ctx context.Context, status model.AdStatus) ([]model.Ad, error)
	Search(ctx context.Context, filter AdFilter) ([]model.Ad, error)
}

type adRepository struct {
	db *gorm.DB
}

// NewAdRepository creates a new ad repository.
func NewAdRepository(db *gorm.DB) AdRepository {
	return &adRepository{db: db}
}

// Create creates a new ad.
func (r *adRepository) Create(ctx context.Context, ad *model.Ad) error {
	return r.db.WithContext(ctx).Create(ad).Error
}

// Update saves all fields of an existing ad. Last write wins; there is no
// optimistic concurrency token.
func (r *adRepository) Update(ctx context.Context, ad *model.Ad) error {
	return r.db.WithContext(ctx).Save(ad).Error
}

// FindByID finds an ad by ID without resolving relations.
func (r *adRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Ad, error) {
	var ad model.Ad
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ad).Error; err != nil {
		return nil, err
	}
	return &ad, nil
}

// FindByIDResolved finds an ad by ID with category, subcategory and owner
// relations loaded.
func (r *adRepository) FindByIDResolved(ctx context.Context, id uuid.UUID) (*model.Ad, error) {
	var ad model.Ad
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Subcategory").
		Preload("User").
		Where("id = ?", id).
		First(&ad).Error; err != nil {
		return nil, err
	}
	return &ad, nil
}

// ListByOwner returns all ads of one owner, newest first, regardless of
// moderation state.
func (r *adRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Ad, error) {
	var ads []model.Ad
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Subcategory").
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&ads).Error; err != nil {
		return nil, err
	}
	return ads, nil
}

// ListByStatus returns all ads in the given status, newest first, with
// relations resolved.
func (r *adRepository) ListByStatus(ctx context.Context, status model.AdStatus) ([]model.Ad, error) {
	var ads []model.Ad
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Subcategory").
		Preload("User").
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&ads).Error; err != nil {
		return nil, err
	}
	return ads, nil
}

// Search returns ads matching the filter, newest first, capped at
// filter.Limit. Text search is a case-insensitive substring match against
// title or description; MySQL LIKE is case-insensitive under the default
// collation, LOWER() keeps it so regardless of column collation.
func (r *adRepository) Search(ctx context.Context, filter AdFilter) ([]model.Ad, error) {
	query := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Subcategory").
		Preload("User")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.SubcategoryID != nil {
		query = query.Where("subcategory_id = ?", *filter.SubcategoryID)
	}
	if filter.SearchText != "" {
		pattern := "%" + strings.ToLower(filter.SearchText) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var ads []model.Ad
	if err := query.Order("created_at DESC").Find(&ads).Error; err != nil {
		return nil, err
	}
	return ads, nil
}
