package handler

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octodock/marketplace-api/internal/api/metrics"
	"github.com/octodock/marketplace-api/internal/core/domain"
	"github.com/octodock/marketplace-api/internal/core/ports"
)

type AccommodationHandler struct {
	service ports.AccommodationService
}

func NewAccommodationHandler(service ports.AccommodationService) *AccommodationHandler {
	return &AccommodationHandler{service: service}
}

type createAccommodationRequest struct {
	Name          string  `json:"name" validate:"required"`
	Description   string  `json:"description"`
	Location      string  `json:"location" validate:"required"`
	City          string  `json:"city"`
	PricePerNight float64 `json:"pricePerNight" validate:"gt=0"`
	MaxGuests     int     `json:"maxGuests" validate:"gt=0"`
}

type updateAccommodationRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Location      *string  `json:"location"`
	City          *string  `json:"city"`
	PricePerNight *float64 `json:"pricePerNight"`
	MaxGuests     *int     `json:"maxGuests"`
}

// List returns all accommodations; ?owner=me narrows to the caller's own.
//
// @Summary      List accommodations
// @Tags         accommodations
// @Produce      json
// @Param        owner  query     string  false  "\"me\" for the caller's accommodations"
// @Success      200    {array}   domain.Accommodation
// @Failure      401    {object}  api.errorResponse
// @Router       /accommodations [get]
func (h *AccommodationHandler) List(c echo.Context) error {
	var filter ports.AccommodationFilter
	switch owner := strings.TrimSpace(c.QueryParam("owner")); owner {
	case "":
	case "me":
		principal := currentPrincipal(c)
		if principal == nil {
			return domain.ErrMissingToken
		}
		filter.OwnerID = principal.ID
	default:
		filter.OwnerID = owner
	}

	items, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Search filters accommodations by city and price range.
//
// @Summary      Search accommodations
// @Tags         accommodations
// @Produce      json
// @Param        city      query     string  false  "Case-insensitive city substring"
// @Param        minPrice  query     number  false  "Inclusive lower bound on pricePerNight"
// @Param        maxPrice  query     number  false  "Inclusive upper bound on pricePerNight"
// @Success      200       {array}   domain.Accommodation
// @Failure      400       {object}  api.errorResponse
// @Router       /accommodations/search [get]
func (h *AccommodationHandler) Search(c echo.Context) error {
	var problems []string
	minPrice, err := priceParam(c, "minPrice")
	if err != nil {
		problems = append(problems, err.Error())
	}
	maxPrice, err := priceParam(c, "maxPrice")
	if err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return domain.Validation(problems...)
	}

	items, err := h.service.List(c.Request().Context(), ports.AccommodationFilter{
		City:     c.QueryParam("city"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func priceParam(c echo.Context, name string) (*float64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, domain.Validation(name + " must be a number")
	}
	return &v, nil
}

// Create lists a new accommodation owned by the caller.
//
// @Summary      Create accommodation
// @Tags         accommodations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAccommodationRequest  true  "Accommodation"
// @Success      201   {object}  domain.Accommodation
// @Failure      400   {object}  api.errorResponse
// @Failure      401   {object}  api.errorResponse
// @Router       /accommodations [post]
func (h *AccommodationHandler) Create(c echo.Context) error {
	var req createAccommodationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	acc, err := h.service.Create(c.Request().Context(), currentPrincipal(c), ports.CreateAccommodationInput{
		Name:          req.Name,
		Description:   req.Description,
		Location:      req.Location,
		City:          req.City,
		PricePerNight: req.PricePerNight,
		MaxGuests:     req.MaxGuests,
	})
	if err != nil {
		return err
	}

	metrics.ResourcesCreatedTotal.WithLabelValues("accommodation").Inc()
	return c.JSON(http.StatusCreated, acc)
}

// Get returns one accommodation.
//
// @Summary      Get accommodation
// @Tags         accommodations
// @Produce      json
// @Param        id   path      string  true  "Accommodation ID"
// @Success      200  {object}  domain.Accommodation
// @Failure      404  {object}  api.errorResponse
// @Router       /accommodations/{id} [get]
func (h *AccommodationHandler) Get(c echo.Context) error {
	acc, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, acc)
}

// Update changes an accommodation owned by the caller.
//
// @Summary      Update accommodation
// @Tags         accommodations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                      true  "Accommodation ID"
// @Param        body  body      updateAccommodationRequest  true  "Fields to change"
// @Success      200   {object}  domain.Accommodation
// @Failure      400   {object}  api.errorResponse
// @Failure      403   {object}  api.errorResponse
// @Failure      404   {object}  api.errorResponse
// @Router       /accommodations/{id} [put]
func (h *AccommodationHandler) Update(c echo.Context) error {
	var req updateAccommodationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	acc, err := h.service.Update(c.Request().Context(), currentPrincipal(c), c.Param("id"), domain.AccommodationPatch{
		Name:          req.Name,
		Description:   req.Description,
		Location:      req.Location,
		City:          req.City,
		PricePerNight: req.PricePerNight,
		MaxGuests:     req.MaxGuests,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, acc)
}

// Delete removes an accommodation owned by the caller.
//
// @Summary      Delete accommodation
// @Tags         accommodations
// @Security     BearerAuth
// @Param        id   path  string  true  "Accommodation ID"
// @Success      204
// @Failure      403  {object}  api.errorResponse
// @Failure      404  {object}  api.errorResponse
// @Router       /accommodations/{id} [delete]
func (h *AccommodationHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), currentPrincipal(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
