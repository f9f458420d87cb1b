package handler

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"adboard/internal/auth"
	"adboard/internal/errors"
	"adboard/internal/middleware"
	"adboard/internal/service"
)

// maxImageBytes caps a single uploaded image at 10 MiB.
const maxImageBytes = 10 << 20

// AdHandler handles ad lifecycle endpoints.
type AdHandler struct {
	adService service.AdService
	policy    *auth.Policy
}

// NewAdHandler creates a new ad handler.
func NewAdHandler(adService service.AdService, policy *auth.Policy) *AdHandler {
	return &AdHandler{adService: adService, policy: policy}
}

// CreateAdResponse is returned after a successful ad creation.
type CreateAdResponse struct {
	Message string `json:"message"`
	AdID    string `json:"ad_id"`
}

// adInputFromForm reads the multipart fields shared by create and update.
func adInputFromForm(c echo.Context) (service.AdInput, error) {
	input := service.AdInput{
		Title:         c.FormValue("title"),
		Description:   c.FormValue("description"),
		Price:         c.FormValue("price"),
		CategoryID:    c.FormValue("category_id"),
		SubcategoryID: c.FormValue("subcategory_id"),
		City:          c.FormValue("city"),
		Country:       c.FormValue("country"),
	}

	if retained := c.FormValue("existing_images"); retained != "" {
		if err := json.Unmarshal([]byte(retained), &input.RetainedImages); err != nil {
			return input, errors.NewValidationError("existing_images")
		}
	}

	form, err := c.MultipartForm()
	if err != nil {
		// No multipart body at all; treat as a form without images.
		return input, nil
	}
	for _, fh := range form.File["images"] {
		data, err := readImage(fh)
		if err != nil {
			return input, err
		}
		input.Images = append(input.Images, service.ImageAttachment{
			Filename: fh.Filename,
			Data:     data,
		})
	}
	return input, nil
}

func readImage(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > maxImageBytes {
		return nil, errors.NewValidationError("images")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, errors.NewValidationError("images")
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxImageBytes))
}

// Create godoc
// @Summary Post a new ad
// @Description Creates an ad in pending state awaiting moderation. Accepts multipart form data with image files under "images".
// @Tags ads
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title (max 100 chars)"
// @Param description formData string true "Description (max 2000 chars)"
// @Param price formData string true "Price (non-negative)"
// @Param category_id formData string true "Category ID"
// @Param subcategory_id formData string true "Subcategory ID"
// @Param city formData string true "City"
// @Param country formData string true "Country"
// @Success 201 {object} CreateAdResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /ads [post]
func (h *AdHandler) Create(c echo.Context) error {
	caller := middleware.CallerFromContext(c)

	input, err := adInputFromForm(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	adID, err := h.adService.Create(c.Request().Context(), input, caller.ID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, CreateAdResponse{
		Message: "ad created and pending approval",
		AdID:    adID.String(),
	})
}

// Update godoc
// @Summary Edit an ad
// @Description Owner-only. Any edit puts the ad back into pending review. "existing_images" is a JSON array of retained image URLs; new files go under "images".
// @Tags ads
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ad ID"
// @Success 200 {object} model.AdView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /ads/{id} [put]
func (h *AdHandler) Update(c echo.Context) error {
	caller := middleware.CallerFromContext(c)

	adID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid ad id",
			Code:  "INVALID_ID",
		})
	}

	input, err := adInputFromForm(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	view, err := h.adService.Update(c.Request().Context(), adID, input, caller.ID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, view)
}

// Get godoc
// @Summary Get an ad by ID
// @Description Non-approved ads are only visible to their owner or a moderator; other callers get 404.
// @Tags ads
// @Produce json
// @Param id path string true "Ad ID"
// @Success 200 {object} model.AdView
// @Failure 404 {object} errors.ErrorResponse
// @Router /ads/{id} [get]
func (h *AdHandler) Get(c echo.Context) error {
	adID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, errors.ErrorResponse{
			Error: "ad not found",
			Code:  "AD_NOT_FOUND",
		})
	}

	view, err := h.adService.FetchByID(c.Request().Context(), adID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	// Visibility rule: a non-approved ad exists only for its owner and
	// moderators. Everyone else sees the same 404 as for a missing ad.
	caller := middleware.CallerFromContext(c)
	if !h.policy.Can(caller, auth.ActionViewAd, &view.Ad) {
		return echo.NewHTTPError(http.StatusNotFound, errors.ErrorResponse{
			Error: "ad not found",
			Code:  "AD_NOT_FOUND",
		})
	}

	return c.JSON(http.StatusOK, view)
}

// ListMine godoc
// @Summary List the caller's own ads
// @Description Returns all of the caller's ads regardless of moderation state, newest first.
// @Tags ads
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.AdView
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /my/ads [get]
func (h *AdHandler) ListMine(c echo.Context) error {
	caller := middleware.CallerFromContext(c)

	views, err := h.adService.ListMine(c.Request().Context(), caller.ID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, views)
}
