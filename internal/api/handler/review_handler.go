package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octodock/marketplace-api/internal/api/metrics"
	"github.com/octodock/marketplace-api/internal/core/domain"
	"github.com/octodock/marketplace-api/internal/core/ports"
)

type ReviewHandler struct {
	service ports.ReviewService
}

func NewReviewHandler(service ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

type createReviewRequest struct {
	Accommodation string `json:"accommodation" validate:"required"`
	Rating        int    `json:"rating" validate:"gte=1,lte=5"`
	Comment       string `json:"comment"`
}

type updateReviewRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Comment *string `json:"comment"`
}

// List returns reviews, optionally for one accommodation.
//
// @Summary      List reviews
// @Tags         reviews
// @Produce      json
// @Param        accommodation  query     string  false  "Accommodation ID"
// @Success      200            {array}   domain.Review
// @Router       /reviews [get]
func (h *ReviewHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context(), ports.ReviewFilter{
		AccommodationID: c.QueryParam("accommodation"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Get returns one review.
//
// @Summary      Get review
// @Tags         reviews
// @Produce      json
// @Param        id   path      string  true  "Review ID"
// @Success      200  {object}  domain.Review
// @Failure      404  {object}  api.errorResponse
// @Router       /reviews/{id} [get]
func (h *ReviewHandler) Get(c echo.Context) error {
	r, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// Create reviews an accommodation as the caller.
//
// @Summary      Create review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createReviewRequest  true  "Review"
// @Success      201   {object}  domain.Review
// @Failure      400   {object}  api.errorResponse
// @Failure      404   {object}  api.errorResponse
// @Router       /reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	var req createReviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	r, err := h.service.Create(c.Request().Context(), currentPrincipal(c), ports.CreateReviewInput{
		AccommodationID: req.Accommodation,
		Rating:          req.Rating,
		Comment:         req.Comment,
	})
	if err != nil {
		return err
	}

	metrics.ResourcesCreatedTotal.WithLabelValues("review").Inc()
	return c.JSON(http.StatusCreated, r)
}

// Update changes a review written by the caller.
//
// @Summary      Update review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Review ID"
// @Param        body  body      updateReviewRequest  true  "Fields to change"
// @Success      200   {object}  domain.Review
// @Failure      403   {object}  api.errorResponse
// @Failure      404   {object}  api.errorResponse
// @Router       /reviews/{id} [put]
func (h *ReviewHandler) Update(c echo.Context) error {
	var req updateReviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	r, err := h.service.Update(c.Request().Context(), currentPrincipal(c), c.Param("id"), domain.ReviewPatch{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// Delete removes a review written by the caller.
//
// @Summary      Delete review
// @Tags         reviews
// @Security     BearerAuth
// @Param        id   path  string  true  "Review ID"
// @Success      204
// @Failure      403  {object}  api.errorResponse
// @Failure      404  {object}  api.errorResponse
// @Router       /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), currentPrincipal(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
