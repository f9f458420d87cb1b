package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"adboard/internal/errors"
	"adboard/internal/middleware"
	"adboard/internal/service"
)

// ModerationHandler handles moderator review endpoints.
type ModerationHandler struct {
	moderationService service.ModerationService
}

// NewModerationHandler creates a new moderation handler.
func NewModerationHandler(moderationService service.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

// ApproveRequest identifies the ad to approve.
type ApproveRequest struct {
	AdID string `json:"ad_id" validate:"required,uuid"`
}

// RejectRequest identifies the ad to reject and the mandatory reason.
type RejectRequest struct {
	AdID   string `json:"ad_id" validate:"required,uuid"`
	Reason string `json:"reason" validate:"required"`
}

// ListPending godoc
// @Summary List ads awaiting review
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.AdView
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /moderation/pending [get]
func (h *ModerationHandler) ListPending(c echo.Context) error {
	views, err := h.moderationService.ListPending(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, views)
}

// Approve godoc
// @Summary Approve a pending ad
// @Tags moderation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ApproveRequest true "Ad to approve"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /moderation/approve [post]
func (h *ModerationHandler) Approve(c echo.Context) error {
	var req ApproveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	adID, err := uuid.Parse(req.AdID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid ad id",
			Code:  "INVALID_ID",
		})
	}

	caller := middleware.CallerFromContext(c)
	if err := h.moderationService.Approve(c.Request().Context(), adID, caller.ID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "ad approved",
	})
}

// Reject godoc
// @Summary Reject a pending ad with a reason
// @Tags moderation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RejectRequest true "Ad to reject and why"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /moderation/reject [post]
func (h *ModerationHandler) Reject(c echo.Context) error {
	var req RejectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	adID, err := uuid.Parse(req.AdID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid ad id",
			Code:  "INVALID_ID",
		})
	}

	caller := middleware.CallerFromContext(c)
	if err := h.moderationService.Reject(c.Request().Context(), adID, req.Reason, caller.ID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "ad rejected",
	})
}

// History godoc
// @Summary Moderation history of one ad
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ad ID"
// @Success 200 {array} model.ModerationRecord
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /moderation/ads/{id}/history [get]
func (h *ModerationHandler) History(c echo.Context) error {
	adID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid ad id",
			Code:  "INVALID_ID",
		})
	}

	records, err := h.moderationService.History(c.Request().Context(), adID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, records)
}
