package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octodock/marketplace-api/internal/api/metrics"
	"github.com/octodock/marketplace-api/internal/core/domain"
	"github.com/octodock/marketplace-api/internal/core/ports"
)

type BookingHandler struct {
	service ports.BookingService
}

func NewBookingHandler(service ports.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// date accepts either an RFC 3339 timestamp or a plain YYYY-MM-DD day.
type date struct {
	time.Time
}

func (d *date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

func (d *date) ptr() *time.Time {
	if d == nil {
		return nil
	}
	return &d.Time
}

type createBookingRequest struct {
	Accommodation string `json:"accommodation" validate:"required"`
	StartDate     date   `json:"startDate"`
	EndDate       date   `json:"endDate"`
	Guests        int    `json:"guests" validate:"gte=1"`
}

type updateBookingRequest struct {
	StartDate *date   `json:"startDate"`
	EndDate   *date   `json:"endDate"`
	Guests    *int    `json:"guests"`
	Status    *string `json:"status" validate:"omitempty,oneof=confirmed cancelled"`
}

// Create books an accommodation for the caller.
//
// @Summary      Create booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBookingRequest  true  "Booking"
// @Success      201   {object}  domain.Booking
// @Failure      400   {object}  api.errorResponse
// @Failure      401   {object}  api.errorResponse
// @Failure      404   {object}  api.errorResponse
// @Router       /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	b, err := h.service.Create(c.Request().Context(), currentPrincipal(c), ports.CreateBookingInput{
		AccommodationID: req.Accommodation,
		StartDate:       req.StartDate.Time,
		EndDate:         req.EndDate.Time,
		Guests:          req.Guests,
	})
	if err != nil {
		return err
	}

	metrics.ResourcesCreatedTotal.WithLabelValues("booking").Inc()
	return c.JSON(http.StatusCreated, b)
}

// List returns the caller's bookings.
//
// @Summary      List bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Booking
// @Failure      401  {object}  api.errorResponse
// @Router       /bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context(), currentPrincipal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Get returns one of the caller's bookings.
//
// @Summary      Get booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  domain.Booking
// @Failure      403  {object}  api.errorResponse
// @Failure      404  {object}  api.errorResponse
// @Router       /bookings/{id} [get]
func (h *BookingHandler) Get(c echo.Context) error {
	b, err := h.service.Get(c.Request().Context(), currentPrincipal(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

// Update changes the dates or guests of a booking, or cancels it.
//
// @Summary      Update booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Booking ID"
// @Param        body  body      updateBookingRequest  true  "Fields to change"
// @Success      200   {object}  domain.Booking
// @Failure      400   {object}  api.errorResponse
// @Failure      403   {object}  api.errorResponse
// @Failure      404   {object}  api.errorResponse
// @Router       /bookings/{id} [put]
func (h *BookingHandler) Update(c echo.Context) error {
	var req updateBookingRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	patch := domain.BookingPatch{
		StartDate: req.StartDate.ptr(),
		EndDate:   req.EndDate.ptr(),
		Guests:    req.Guests,
	}
	if req.Status != nil {
		status := domain.BookingStatus(*req.Status)
		patch.Status = &status
	}

	b, err := h.service.Update(c.Request().Context(), currentPrincipal(c), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

// Delete removes one of the caller's bookings.
//
// @Summary      Delete booking
// @Tags         bookings
// @Security     BearerAuth
// @Param        id   path  string  true  "Booking ID"
// @Success      204
// @Failure      403  {object}  api.errorResponse
// @Failure      404  {object}  api.errorResponse
// @Router       /bookings/{id} [delete]
func (h *BookingHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), currentPrincipal(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
