package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octodock/marketplace-api/internal/api/metrics"
	"github.com/octodock/marketplace-api/internal/core/ports"
)

type WishlistHandler struct {
	service ports.WishlistService
}

func NewWishlistHandler(service ports.WishlistService) *WishlistHandler {
	return &WishlistHandler{service: service}
}

type addWishlistRequest struct {
	Accommodation string `json:"accommodation"`
}

// List returns the caller's wishlist.
//
// @Summary      Wishlist
// @Tags         wishlist
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.WishlistItem
// @Router       /wishlist [get]
func (h *WishlistHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context(), currentPrincipal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Add bookmarks an accommodation for the caller.
//
// @Summary      Add to wishlist
// @Tags         wishlist
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addWishlistRequest  true  "Accommodation to add"
// @Success      201   {object}  domain.WishlistItem
// @Failure      400   {object}  api.errorResponse
// @Failure      404   {object}  api.errorResponse
// @Router       /wishlist [post]
func (h *WishlistHandler) Add(c echo.Context) error {
	var req addWishlistRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	item, err := h.service.Add(c.Request().Context(), currentPrincipal(c), req.Accommodation)
	if err != nil {
		return err
	}

	metrics.ResourcesCreatedTotal.WithLabelValues("wishlist_item").Inc()
	return c.JSON(http.StatusCreated, item)
}

// Remove deletes an item from the caller's wishlist.
//
// @Summary      Remove from wishlist
// @Tags         wishlist
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Wishlist item ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  api.errorResponse
// @Failure      404  {object}  api.errorResponse
// @Router       /wishlist/{id} [delete]
func (h *WishlistHandler) Remove(c echo.Context) error {
	if err := h.service.Remove(c.Request().Context(), currentPrincipal(c), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "removed from wishlist"})
}
