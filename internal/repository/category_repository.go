package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"adboard/internal/model"
)

// CategoryRepository defines category and subcategory persistence operations.
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	FindByName(ctx context.Context, name string) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)

	CreateSubcategory(ctx context.Context, sub *model.Subcategory) error
	UpdateSubcategory(ctx context.Context, sub *model.Subcategory) error
	DeleteSubcategory(ctx context.Context, id uuid.UUID) error
	FindSubcategoryByID(ctx context.Context, id uuid.UUID) (*model.Subcategory, error)
	FindSubcategoryByName(ctx context.Context, categoryID uuid.UUID, name string) (*model.Subcategory, error)
	ListSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]model.Subcategory, error)
	DeleteSubcategoriesByCategory(ctx context.Context, categoryID uuid.UUID) error

	// WithTransaction executes fn against a repository bound to a single
	// database transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo CategoryRepository) error) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create creates a new category.
func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// Update updates an existing category.
func (r *categoryRepository) Update(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// Delete deletes a category by ID.
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Category{}, "id = ?", id).Error
}

// FindByID finds a category by ID.
func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByName finds a category by its unique name.
func (r *categoryRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// List returns all categories ordered by name.
func (r *categoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateSubcategory creates a new subcategory.
func (r *categoryRepository) CreateSubcategory(ctx context.Context, sub *model.Subcategory) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// UpdateSubcategory updates an existing subcategory.
func (r *categoryRepository) UpdateSubcategory(ctx context.Context, sub *model.Subcategory) error {
	return r.db.WithContext(ctx).Save(sub).Error
}

// DeleteSubcategory deletes a subcategory by ID.
func (r *categoryRepository) DeleteSubcategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Subcategory{}, "id = ?", id).Error
}

// FindSubcategoryByID finds a subcategory by ID.
func (r *categoryRepository) FindSubcategoryByID(ctx context.Context, id uuid.UUID) (*model.Subcategory, error) {
	var sub model.Subcategory
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// FindSubcategoryByName finds a subcategory by name within a category.
func (r *categoryRepository) FindSubcategoryByName(ctx context.Context, categoryID uuid.UUID, name string) (*model.Subcategory, error) {
	var sub model.Subcategory
	if err := r.db.WithContext(ctx).
		Where("category_id = ? AND name = ?", categoryID, name).
		First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListSubcategories returns subcategories, optionally filtered by category.
func (r *categoryRepository) ListSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]model.Subcategory, error) {
	query := r.db.WithContext(ctx).Order("name ASC")
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	var subs []model.Subcategory
	if err := query.Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// DeleteSubcategoriesByCategory deletes every subcategory of a category.
func (r *categoryRepository) DeleteSubcategoriesByCategory(ctx context.Context, categoryID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Subcategory{}, "category_id = ?", categoryID).Error
}

// WithTransaction executes a function within a database transaction.
func (r *categoryRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo CategoryRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &categoryRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
