package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"adboard/internal/cache"
	"adboard/internal/model"
	"adboard/internal/repository"
)

const (
	// DefaultSearchLimit caps catalog results when the caller gives no limit.
	DefaultSearchLimit = 20
	// MaxSearchLimit is the hard ceiling on catalog page size.
	MaxSearchLimit = 100

	categoryListCacheKey = "categories:all"
	categoryListCacheTTL = 5 * time.Minute
)

// SearchQuery narrows a public catalog search. Zero values mean "no filter".
type SearchQuery struct {
	CategoryID    *uuid.UUID
	SubcategoryID *uuid.UUID
	SearchText    string
	Limit         int
}

// CatalogService serves the public browse surface: approved-ad search and
// the category tree.
type CatalogService interface {
	Search(ctx context.Context, query SearchQuery) ([]model.AdView, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]model.Subcategory, error)
}

type catalogService struct {
	adRepo       repository.AdRepository
	categoryRepo repository.CategoryRepository
	cache        *cache.Client
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	adRepo repository.AdRepository,
	categoryRepo repository.CategoryRepository,
	cache *cache.Client,
) CatalogService {
	return &catalogService{
		adRepo:       adRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
	}
}

// Search returns approved ads matching the query, newest first. Only
// approved ads ever leave this method regardless of the filters supplied.
func (s *catalogService) Search(ctx context.Context, query SearchQuery) ([]model.AdView, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	ads, err := s.adRepo.Search(ctx, repository.AdFilter{
		Status:        model.AdStatusApproved,
		CategoryID:    query.CategoryID,
		SubcategoryID: query.SubcategoryID,
		SearchText:    query.SearchText,
		Limit:         limit,
	})
	if err != nil {
		return nil, fmt.Errorf("search ads: %w", err)
	}

	views := make([]model.AdView, 0, len(ads))
	for i := range ads {
		views = append(views, ads[i].View())
	}
	return views, nil
}

// ListCategories returns all categories, served from cache when warm.
func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	if data, _ := s.cache.Get(ctx, categoryListCacheKey); data != nil {
		var cached []model.Category
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	if payload, err := json.Marshal(categories); err == nil {
		_ = s.cache.Set(ctx, categoryListCacheKey, payload, categoryListCacheTTL)
	}

	return categories, nil
}

// ListSubcategories returns subcategories, optionally scoped to one category.
func (s *catalogService) ListSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]model.Subcategory, error) {
	subs, err := s.categoryRepo.ListSubcategories(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	return subs, nil
}
