package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"adboard/internal/auth"
	"adboard/internal/cache"
	"adboard/internal/errors"
	"adboard/internal/model"
	"adboard/internal/repository"
	"adboard/internal/upload"
)

const adCacheTTL = 5 * time.Minute

// ImageAttachment carries the raw bytes of one uploaded image.
type ImageAttachment struct {
	Filename string
	Data     []byte
}

// AdInput is the caller-supplied data for creating or updating an ad.
// Price arrives as the raw form string and is parsed during validation.
// RetainedImages is only meaningful on update: the existing image URLs the
// owner chose to keep, in display order.
type AdInput struct {
	Title          string
	Description    string
	Price          string
	CategoryID     string
	SubcategoryID  string
	City           string
	Country        string
	Images         []ImageAttachment
	RetainedImages []string
}

// AdService handles the ad lifecycle: creation, edits, and owner views.
type AdService interface {
	Create(ctx context.Context, input AdInput, callerID uuid.UUID) (uuid.UUID, error)
	Update(ctx context.Context, adID uuid.UUID, input AdInput, callerID uuid.UUID) (*model.AdView, error)
	FetchByID(ctx context.Context, adID uuid.UUID) (*model.AdView, error)
	ListMine(ctx context.Context, callerID uuid.UUID) ([]model.AdView, error)
}

type adService struct {
	adRepo       repository.AdRepository
	categoryRepo repository.CategoryRepository
	uploader     upload.Uploader
	policy       *auth.Policy
	cache        *cache.Client
}

// NewAdService creates a new ad service.
func NewAdService(
	adRepo repository.AdRepository,
	categoryRepo repository.CategoryRepository,
	uploader upload.Uploader,
	policy *auth.Policy,
	cache *cache.Client,
) AdService {
	return &adService{
		adRepo:       adRepo,
		categoryRepo: categoryRepo,
		uploader:     uploader,
		policy:       policy,
		cache:        cache,
	}
}

func adCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("ad:%s", id.String())
}

// validatedInput holds the parsed fields of an AdInput that passed validation.
type validatedInput struct {
	price         decimal.Decimal
	categoryID    uuid.UUID
	subcategoryID uuid.UUID
}

// validate checks every required field and returns a ValidationError naming
// all missing or invalid ones at once.
func (s *adService) validate(ctx context.Context, input AdInput) (*validatedInput, error) {
	var fields []string
	parsed := &validatedInput{}

	if input.Title == "" || len(input.Title) > model.TitleMaxLen {
		fields = append(fields, "title")
	}
	if input.Description == "" || len(input.Description) > model.DescriptionMaxLen {
		fields = append(fields, "description")
	}

	if input.Price == "" {
		fields = append(fields, "price")
	} else {
		price, err := decimal.NewFromString(input.Price)
		if err != nil || price.IsNegative() {
			fields = append(fields, "price")
		} else {
			parsed.price = price
		}
	}

	if input.City == "" {
		fields = append(fields, "city")
	}
	if input.Country == "" {
		fields = append(fields, "country")
	}

	categoryID, err := uuid.Parse(input.CategoryID)
	if err != nil {
		fields = append(fields, "category")
	} else if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("resolve category: %w", err)
		}
		fields = append(fields, "category")
	} else {
		parsed.categoryID = categoryID
	}

	subcategoryID, err := uuid.Parse(input.SubcategoryID)
	if err != nil {
		fields = append(fields, "subcategory")
	} else if sub, err := s.categoryRepo.FindSubcategoryByID(ctx, subcategoryID); err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("resolve subcategory: %w", err)
		}
		fields = append(fields, "subcategory")
	} else if parsed.categoryID != uuid.Nil && sub.CategoryID != parsed.categoryID {
		// Subcategory must belong to the chosen category.
		fields = append(fields, "subcategory")
	} else {
		parsed.subcategoryID = subcategoryID
	}

	if len(fields) > 0 {
		return nil, errors.NewValidationError(fields...)
	}
	return parsed, nil
}

// uploadImages sends each attachment to the image host one at a time and
// returns the hosted URLs in attachment order. A failure partway through
// aborts the operation; images already uploaded stay at the host.
func (s *adService) uploadImages(ctx context.Context, attachments []ImageAttachment) ([]string, error) {
	urls := make([]string, 0, len(attachments))
	for _, att := range attachments {
		url, err := s.uploader.Upload(ctx, att.Filename, att.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrUploadFailed, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// Create validates the input, uploads any attached images, and persists a
// new ad. Status is always pending regardless of anything the caller sent.
func (s *adService) Create(ctx context.Context, input AdInput, callerID uuid.UUID) (uuid.UUID, error) {
	if callerID == uuid.Nil {
		return uuid.Nil, errors.ErrNotOwner
	}

	parsed, err := s.validate(ctx, input)
	if err != nil {
		return uuid.Nil, err
	}

	images, err := s.uploadImages(ctx, input.Images)
	if err != nil {
		return uuid.Nil, err
	}

	ad := &model.Ad{
		Title:         input.Title,
		Description:   input.Description,
		Price:         parsed.price,
		CategoryID:    parsed.categoryID,
		SubcategoryID: parsed.subcategoryID,
		UserID:        callerID,
		City:          input.City,
		Country:       input.Country,
		Images:        images,
		Status:        model.AdStatusPending,
	}

	if err := s.adRepo.Create(ctx, ad); err != nil {
		return uuid.Nil, fmt.Errorf("create ad: %w", err)
	}

	return ad.ID, nil
}

// Update overwrites the mutable fields of an ad owned by the caller. Any
// edit invalidates prior approval: status is forced back to pending and the
// rejection reason is cleared so the ad is re-reviewed from a clean slate.
func (s *adService) Update(ctx context.Context, adID uuid.UUID, input AdInput, callerID uuid.UUID) (*model.AdView, error) {
	ad, err := s.adRepo.FindByID(ctx, adID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrAdNotFound
		}
		return nil, fmt.Errorf("find ad: %w", err)
	}

	if !s.policy.Can(auth.Caller{ID: callerID}, auth.ActionEditAd, ad) {
		return nil, errors.ErrNotOwner
	}

	parsed, err := s.validate(ctx, input)
	if err != nil {
		return nil, err
	}

	uploaded, err := s.uploadImages(ctx, input.Images)
	if err != nil {
		return nil, err
	}

	// Final image list: retained existing images first, then new uploads.
	images := make(model.StringList, 0, len(input.RetainedImages)+len(uploaded))
	images = append(images, input.RetainedImages...)
	images = append(images, uploaded...)

	ad.Title = input.Title
	ad.Description = input.Description
	ad.Price = parsed.price
	ad.CategoryID = parsed.categoryID
	ad.SubcategoryID = parsed.subcategoryID
	ad.City = input.City
	ad.Country = input.Country
	ad.Images = images
	ad.Status = model.AdStatusPending
	ad.RejectionReason = ""

	if err := s.adRepo.Update(ctx, ad); err != nil {
		return nil, fmt.Errorf("update ad: %w", err)
	}

	_ = s.cache.Delete(ctx, adCacheKey(ad.ID))

	resolved, err := s.adRepo.FindByIDResolved(ctx, ad.ID)
	if err != nil {
		return nil, fmt.Errorf("reload ad: %w", err)
	}
	view := resolved.View()
	return &view, nil
}

// FetchByID returns the ad with its references resolved to display fields.
// Visibility of non-approved ads is the caller's concern, not this layer's.
func (s *adService) FetchByID(ctx context.Context, adID uuid.UUID) (*model.AdView, error) {
	if data, _ := s.cache.Get(ctx, adCacheKey(adID)); data != nil {
		var cached model.AdView
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	ad, err := s.adRepo.FindByIDResolved(ctx, adID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrAdNotFound
		}
		return nil, fmt.Errorf("find ad: %w", err)
	}

	view := ad.View()
	if payload, err := json.Marshal(view); err == nil {
		_ = s.cache.Set(ctx, adCacheKey(adID), payload, adCacheTTL)
	}

	return &view, nil
}

// ListMine returns all ads owned by the caller, newest first, with category
// and subcategory names resolved. No status filter: owners see everything.
func (s *adService) ListMine(ctx context.Context, callerID uuid.UUID) ([]model.AdView, error) {
	ads, err := s.adRepo.ListByOwner(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list ads: %w", err)
	}

	views := make([]model.AdView, 0, len(ads))
	for i := range ads {
		views = append(views, ads[i].View())
	}
	return views, nil
}
