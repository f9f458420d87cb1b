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

// CategoryService manages the category tree. All writes are moderator-only
// (enforced at the route level) and invalidate the cached category list.
type CategoryService interface {
	CreateCategory(ctx context.Context, name string) (*model.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, name string) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CreateSubcategory(ctx context.Context, name string, categoryID uuid.UUID) (*model.Subcategory, error)
	UpdateSubcategory(ctx context.Context, id uuid.UUID, name string) (*model.Subcategory, error)
	DeleteSubcategory(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	cache        *cache.Client
}

// NewCategoryService creates a new category service.
func NewCategoryService(categoryRepo repository.CategoryRepository, cache *cache.Client) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		cache:        cache,
	}
}

func (s *categoryService) invalidateList(ctx context.Context) {
	_ = s.cache.Delete(ctx, categoryListCacheKey)
}

// CreateCategory creates a category with a globally unique name.
func (s *categoryService) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	if name == "" {
		return nil, errors.NewValidationError("name")
	}

	existing, err := s.categoryRepo.FindByName(ctx, name)
	if err == nil && existing != nil {
		return nil, errors.ErrDuplicateName
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check category name: %w", err)
	}

	category := &model.Category{Name: name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.invalidateList(ctx)
	return category, nil
}

// UpdateCategory renames a category, keeping names unique.
func (s *categoryService) UpdateCategory(ctx context.Context, id uuid.UUID, name string) (*model.Category, error) {
	if name == "" {
		return nil, errors.NewValidationError("name")
	}

	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}

	existing, err := s.categoryRepo.FindByName(ctx, name)
	if err == nil && existing != nil && existing.ID != id {
		return nil, errors.ErrDuplicateName
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check category name: %w", err)
	}

	category.Name = name
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	s.invalidateList(ctx)
	return category, nil
}

// DeleteCategory removes a category and every subcategory under it. Both
// deletes run in one transaction so a crash cannot leave orphaned
// subcategories behind.
func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrCategoryNotFound
		}
		return fmt.Errorf("find category: %w", err)
	}

	err := s.categoryRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.CategoryRepository) error {
		if err := repo.DeleteSubcategoriesByCategory(ctx, id); err != nil {
			return fmt.Errorf("delete subcategories: %w", err)
		}
		if err := repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateList(ctx)
	return nil
}

// CreateSubcategory creates a subcategory under an existing category. The
// name only needs to be unique within that category.
func (s *categoryService) CreateSubcategory(ctx context.Context, name string, categoryID uuid.UUID) (*model.Subcategory, error) {
	if name == "" {
		return nil, errors.NewValidationError("name")
	}

	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}

	existing, err := s.categoryRepo.FindSubcategoryByName(ctx, categoryID, name)
	if err == nil && existing != nil {
		return nil, errors.ErrDuplicateName
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check subcategory name: %w", err)
	}

	sub := &model.Subcategory{Name: name, CategoryID: categoryID}
	if err := s.categoryRepo.CreateSubcategory(ctx, sub); err != nil {
		return nil, fmt.Errorf("create subcategory: %w", err)
	}

	s.invalidateList(ctx)
	return sub, nil
}

// UpdateSubcategory renames a subcategory within its category.
func (s *categoryService) UpdateSubcategory(ctx context.Context, id uuid.UUID, name string) (*model.Subcategory, error) {
	if name == "" {
		return nil, errors.NewValidationError("name")
	}

	sub, err := s.categoryRepo.FindSubcategoryByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrSubcategoryNotFound
		}
		return nil, fmt.Errorf("find subcategory: %w", err)
	}

	existing, err := s.categoryRepo.FindSubcategoryByName(ctx, sub.CategoryID, name)
	if err == nil && existing != nil && existing.ID != id {
		return nil, errors.ErrDuplicateName
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check subcategory name: %w", err)
	}

	sub.Name = name
	if err := s.categoryRepo.UpdateSubcategory(ctx, sub); err != nil {
		return nil, fmt.Errorf("update subcategory: %w", err)
	}

	s.invalidateList(ctx)
	return sub, nil
}

// DeleteSubcategory removes a single subcategory.
func (s *categoryService) DeleteSubcategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindSubcategoryByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrSubcategoryNotFound
		}
		return fmt.Errorf("find subcategory: %w", err)
	}

	if err := s.categoryRepo.DeleteSubcategory(ctx, id); err != nil {
		return fmt.Errorf("delete subcategory: %w", err)
	}

	s.invalidateList(ctx)
	return nil
}
