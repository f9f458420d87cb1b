package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"adboard/internal/errors"
	"adboard/internal/service"
)

// CatalogHandler serves the public browse endpoints.
type CatalogHandler struct {
	catalogService service.CatalogService
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// Search godoc
// @Summary Search approved ads
// @Description Filtered, newest-first listing of approved ads. Text search matches title or description case-insensitively.
// @Tags catalog
// @Produce json
// @Param category query string false "Category ID"
// @Param subcategory query string false "Subcategory ID"
// @Param search query string false "Free-text search"
// @Param limit query int false "Max results (default 20, max 100)"
// @Success 200 {array} model.AdView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /ads [get]
func (h *CatalogHandler) Search(c echo.Context) error {
	var query service.SearchQuery

	if raw := c.QueryParam("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid category id",
				Code:  "INVALID_ID",
			})
		}
		query.CategoryID = &id
	}
	if raw := c.QueryParam("subcategory"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid subcategory id",
				Code:  "INVALID_ID",
			})
		}
		query.SubcategoryID = &id
	}
	query.SearchText = c.QueryParam("search")
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid limit",
				Code:  "INVALID_LIMIT",
			})
		}
		query.Limit = limit
	}

	views, err := h.catalogService.Search(c.Request().Context(), query)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, views)
}

// ListCategories godoc
// @Summary List all categories
// @Tags catalog
// @Produce json
// @Success 200 {array} model.Category
// @Failure 500 {object} errors.ErrorResponse
// @Router /categories [get]
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.catalogService.ListCategories(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, categories)
}

// ListSubcategories godoc
// @Summary List subcategories
// @Tags catalog
// @Produce json
// @Param category_id query string false "Scope to one category"
// @Success 200 {array} model.Subcategory
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /subcategories [get]
func (h *CatalogHandler) ListSubcategories(c echo.Context) error {
	var categoryID *uuid.UUID
	if raw := c.QueryParam("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid category id",
				Code:  "INVALID_ID",
			})
		}
		categoryID = &id
	}

	subs, err := h.catalogService.ListSubcategories(c.Request().Context(), categoryID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, subs)
}
