package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"adboard/internal/auth"
	"adboard/internal/errors"
	"adboard/internal/model"
)

func validAdInput(categoryID, subcategoryID uuid.UUID) AdInput {
	return AdInput{
		Title:         "Mountain bike, barely used",
		Description:   "29-inch wheels, hydraulic brakes, serviced this spring.",
		Price:         "250.00",
		CategoryID:    categoryID.String(),
		SubcategoryID: subcategoryID.String(),
		City:          "Rotterdam",
		Country:       "Netherlands",
	}
}

func expectTaxonomy(m *MockCategoryRepository, categoryID, subcategoryID uuid.UUID) {
	m.On("FindByID", mock.Anything, categoryID).
		Return(&model.Category{ID: categoryID, Name: "Sports"}, nil)
	m.On("FindSubcategoryByID", mock.Anything, subcategoryID).
		Return(&model.Subcategory{ID: subcategoryID, Name: "Bikes", CategoryID: categoryID}, nil)
}

func TestAdService_Create(t *testing.T) {
	ownerID := uuid.New()
	categoryID := uuid.New()
	subcategoryID := uuid.New()

	tests := []struct {
		name         string
		input        func() AdInput
		callerID     uuid.UUID
		setupMocks   func(*MockAdRepository, *MockCategoryRepository, *MockUploader)
		wantErr      error
		wantFields   []string
		checkCreated func(*testing.T, *model.Ad)
	}{
		{
			name:     "status is forced to pending",
			input:    func() AdInput { return validAdInput(categoryID, subcategoryID) },
			callerID: ownerID,
			setupMocks: func(adRepo *MockAdRepository, catRepo *MockCategoryRepository, up *MockUploader) {
				expectTaxonomy(catRepo, categoryID, subcategoryID)
				adRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Ad")).Return(nil)
			},
			checkCreated: func(t *testing.T, ad *model.Ad) {
				assert.Equal(t, model.AdStatusPending, ad.Status)
				assert.Equal(t, ownerID, ad.UserID)
				assert.Empty(t, ad.RejectionReason)
			},
		},
		{
			name: "negative price is rejected",
			input: func() AdInput {
				in := validAdInput(categoryID, subcategoryID)
				in.Price = "-5"
				return in
			},
			callerID: ownerID,
			setupMocks: func(adRepo *MockAdRepository, catRepo *MockCategoryRepository, up *MockUploader) {
				expectTaxonomy(catRepo, categoryID, subcategoryID)
			},
			wantFields: []string{"price"},
		},
		{
			name: "missing required fields are all reported",
			input: func() AdInput {
				in := validAdInput(categoryID, subcategoryID)
				in.Title = ""
				in.City = ""
				return in
			},
			callerID: ownerID,
			setupMocks: func(adRepo *MockAdRepository, catRepo *MockCategoryRepository, up *MockUploader) {
				expectTaxonomy(catRepo, categoryID, subcategoryID)
			},
			wantFields: []string{"title", "city"},
		},
		{
			name:     "unknown category fails validation",
			input:    func() AdInput { return validAdInput(categoryID, subcategoryID) },
			callerID: ownerID,
			setupMocks: func(adRepo *MockAdRepository, catRepo *MockCategoryRepository, up *MockUploader) {
				catRepo.On("FindByID", mock.Anything, categoryID).
					Return(nil, gorm.ErrRecordNotFound)
				catRepo.On("FindSubcategoryByID", mock.Anything, subcategoryID).
					Return(&model.Subcategory{ID: subcategoryID, CategoryID: categoryID}, nil)
			},
			wantFields: []string{"category"},
		},
		{
			name: "subcategory of a different category fails validation",
			input: func() AdInput {
				return validAdInput(categoryID, subcategoryID)
			},
			callerID: ownerID,
			setupMocks: func(adRepo *MockAdRepository, catRepo *MockCategoryRepository, up *MockUploader) {
				catRepo.On("FindByID", mock.Anything, categoryID).
					Return(&model.Category{ID: categoryID}, nil)
				catRepo.On("FindSubcategoryByID", mock.Anything, subcategoryID).
					Return(&model.Subcategory{ID: subcategoryID, CategoryID: uuid.New()}, nil)
			},
			wantFields: []string{"subcategory"},
		},
		{
			name:     "anonymous caller is refused",
			input:    func() AdInput { return validAdInput(categoryID, subcategoryID) },
			callerID: uuid.Nil,
			setupMocks: func(adRepo *MockAdRepository, catRepo *MockCategoryRepository, up *MockUploader) {
			},
			wantErr: errors.ErrNotOwner,
		},
		{
			name: "images are uploaded sequentially in attachment order",
			input: func() AdInput {
				in := validAdInput(categoryID, subcategoryID)
				in.Images = []ImageAttachment{
					{Filename: "front.jpg", Data: []byte{1}},
					{Filename: "side.jpg", Data: []byte{2}},
				}
				return in
			},
			callerID: ownerID,
			setupMocks: func(adRepo *MockAdRepository, catRepo *MockCategoryRepository, up *MockUploader) {
				expectTaxonomy(catRepo, categoryID, subcategoryID)
				up.On("Upload", mock.Anything, "front.jpg", []byte{1}).Return("https://img.host/a", nil)
				up.On("Upload", mock.Anything, "side.jpg", []byte{2}).Return("https://img.host/b", nil)
				adRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Ad")).Return(nil)
			},
			checkCreated: func(t *testing.T, ad *model.Ad) {
				assert.Equal(t, model.StringList{"https://img.host/a", "https://img.host/b"}, ad.Images)
			},
		},
		{
			name: "upload failure aborts creation",
			input: func() AdInput {
				in := validAdInput(categoryID, subcategoryID)
				in.Images = []ImageAttachment{{Filename: "front.jpg", Data: []byte{1}}}
				return in
			},
			callerID: ownerID,
			setupMocks: func(adRepo *MockAdRepository, catRepo *MockCategoryRepository, up *MockUploader) {
				expectTaxonomy(catRepo, categoryID, subcategoryID)
				up.On("Upload", mock.Anything, "front.jpg", []byte{1}).
					Return("", assert.AnError)
			},
			wantErr: errors.ErrUploadFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adRepo := new(MockAdRepository)
			catRepo := new(MockCategoryRepository)
			up := new(MockUploader)
			tt.setupMocks(adRepo, catRepo, up)

			var created *model.Ad
			for _, call := range adRepo.ExpectedCalls {
				if call.Method == "Create" {
					call.Run(func(args mock.Arguments) {
						created = args.Get(1).(*model.Ad)
					})
				}
			}

			svc := NewAdService(adRepo, catRepo, up, auth.NewPolicy(), nil)
			id, err := svc.Create(context.Background(), tt.input(), tt.callerID)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				adRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			case tt.wantFields != nil:
				var vErr *errors.ValidationError
				assert.ErrorAs(t, err, &vErr)
				assert.ElementsMatch(t, tt.wantFields, vErr.Fields)
				adRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			default:
				assert.NoError(t, err)
				assert.NotEqual(t, uuid.Nil, id)
				if tt.checkCreated != nil {
					assert.NotNil(t, created)
					tt.checkCreated(t, created)
				}
			}

			adRepo.AssertExpectations(t)
			catRepo.AssertExpectations(t)
			up.AssertExpectations(t)
		})
	}
}

func TestAdService_Update(t *testing.T) {
	ownerID := uuid.New()
	strangerID := uuid.New()
	adID := uuid.New()
	categoryID := uuid.New()
	subcategoryID := uuid.New()

	existing := func() *model.Ad {
		return &model.Ad{
			ID:              adID,
			Title:           "Old title",
			UserID:          ownerID,
			Status:          model.AdStatusRejected,
			RejectionReason: "blurry photos",
			Images:          model.StringList{"https://img.host/old1", "https://img.host/old2"},
		}
	}

	t.Run("unknown ad", func(t *testing.T) {
		adRepo := new(MockAdRepository)
		adRepo.On("FindByID", mock.Anything, adID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewAdService(adRepo, new(MockCategoryRepository), new(MockUploader), auth.NewPolicy(), nil)
		_, err := svc.Update(context.Background(), adID, validAdInput(categoryID, subcategoryID), ownerID)

		assert.ErrorIs(t, err, errors.ErrAdNotFound)
		adRepo.AssertExpectations(t)
	})

	t.Run("non-owner is refused and ad is untouched", func(t *testing.T) {
		adRepo := new(MockAdRepository)
		adRepo.On("FindByID", mock.Anything, adID).Return(existing(), nil)

		svc := NewAdService(adRepo, new(MockCategoryRepository), new(MockUploader), auth.NewPolicy(), nil)
		_, err := svc.Update(context.Background(), adID, validAdInput(categoryID, subcategoryID), strangerID)

		assert.ErrorIs(t, err, errors.ErrNotOwner)
		adRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		adRepo.AssertExpectations(t)
	})

	t.Run("owner edit resets status and clears rejection reason", func(t *testing.T) {
		adRepo := new(MockAdRepository)
		catRepo := new(MockCategoryRepository)
		up := new(MockUploader)

		ad := existing()
		adRepo.On("FindByID", mock.Anything, adID).Return(ad, nil)
		expectTaxonomy(catRepo, categoryID, subcategoryID)
		up.On("Upload", mock.Anything, "new.jpg", []byte{9}).Return("https://img.host/new", nil)

		var saved *model.Ad
		adRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Ad")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*model.Ad) }).
			Return(nil)
		adRepo.On("FindByIDResolved", mock.Anything, adID).Return(ad, nil)

		input := validAdInput(categoryID, subcategoryID)
		input.RetainedImages = []string{"https://img.host/old2"}
		input.Images = []ImageAttachment{{Filename: "new.jpg", Data: []byte{9}}}

		svc := NewAdService(adRepo, catRepo, up, auth.NewPolicy(), nil)
		view, err := svc.Update(context.Background(), adID, input, ownerID)

		assert.NoError(t, err)
		assert.NotNil(t, view)
		assert.NotNil(t, saved)
		assert.Equal(t, model.AdStatusPending, saved.Status)
		assert.Empty(t, saved.RejectionReason)
		// Retained images come first, new uploads after.
		assert.Equal(t, model.StringList{"https://img.host/old2", "https://img.host/new"}, saved.Images)
		assert.Equal(t, "Mountain bike, barely used", saved.Title)

		adRepo.AssertExpectations(t)
		catRepo.AssertExpectations(t)
		up.AssertExpectations(t)
	})
}

func TestAdService_FetchByID(t *testing.T) {
	adID := uuid.New()

	t.Run("resolves display fields", func(t *testing.T) {
		adRepo := new(MockAdRepository)
		adRepo.On("FindByIDResolved", mock.Anything, adID).Return(&model.Ad{
			ID:          adID,
			Title:       "Sofa",
			Status:      model.AdStatusApproved,
			Category:    model.Category{Name: "Home & Garden"},
			Subcategory: model.Subcategory{Name: "Furniture"},
			User:        model.User{Name: "Dana", Email: "dana@example.com"},
		}, nil)

		svc := NewAdService(adRepo, new(MockCategoryRepository), new(MockUploader), auth.NewPolicy(), nil)
		view, err := svc.FetchByID(context.Background(), adID)

		assert.NoError(t, err)
		assert.Equal(t, "Home & Garden", view.CategoryName)
		assert.Equal(t, "Furniture", view.SubcategoryName)
		assert.Equal(t, "Dana", view.OwnerName)
		assert.Equal(t, "dana@example.com", view.OwnerEmail)
		adRepo.AssertExpectations(t)
	})

	t.Run("unknown ad", func(t *testing.T) {
		adRepo := new(MockAdRepository)
		adRepo.On("FindByIDResolved", mock.Anything, adID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewAdService(adRepo, new(MockCategoryRepository), new(MockUploader), auth.NewPolicy(), nil)
		_, err := svc.FetchByID(context.Background(), adID)

		assert.ErrorIs(t, err, errors.ErrAdNotFound)
		adRepo.AssertExpectations(t)
	})
}

func TestAdService_ListMine(t *testing.T) {
	ownerID := uuid.New()

	adRepo := new(MockAdRepository)
	adRepo.On("ListByOwner", mock.Anything, ownerID).Return([]model.Ad{
		{Title: "Newest", Status: model.AdStatusPending},
		{Title: "Older", Status: model.AdStatusRejected},
	}, nil)

	svc := NewAdService(adRepo, new(MockCategoryRepository), new(MockUploader), auth.NewPolicy(), nil)
	views, err := svc.ListMine(context.Background(), ownerID)

	assert.NoError(t, err)
	assert.Len(t, views, 2)
	// Owners see every status, in the order the repository returns.
	assert.Equal(t, "Newest", views[0].Title)
	assert.Equal(t, model.AdStatusRejected, views[1].Status)
	adRepo.AssertExpectations(t)
}
