package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octodock/marketplace-api/internal/api/metrics"
	"github.com/octodock/marketplace-api/internal/core/ports"
)

type MessageHandler struct {
	service ports.MessageService
}

func NewMessageHandler(service ports.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

type sendMessageRequest struct {
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
}

// Send delivers a message from the caller.
//
// @Summary      Send message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sendMessageRequest  true  "Message"
// @Success      201   {object}  domain.Message
// @Failure      400   {object}  api.errorResponse
// @Failure      404   {object}  api.errorResponse
// @Router       /messages [post]
func (h *MessageHandler) Send(c echo.Context) error {
	var req sendMessageRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	m, err := h.service.Send(c.Request().Context(), currentPrincipal(c), req.RecipientID, req.Content)
	if err != nil {
		return err
	}

	metrics.ResourcesCreatedTotal.WithLabelValues("message").Inc()
	return c.JSON(http.StatusCreated, m)
}

// List returns every message the caller sent or received.
//
// @Summary      List messages
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Message
// @Router       /messages [get]
func (h *MessageHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context(), currentPrincipal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Get returns a message the caller takes part in.
//
// @Summary      Get message
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Message ID"
// @Success      200  {object}  domain.Message
// @Failure      404  {object}  api.errorResponse
// @Router       /messages/{id} [get]
func (h *MessageHandler) Get(c echo.Context) error {
	m, err := h.service.Get(c.Request().Context(), currentPrincipal(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

// Conversation returns the messages between the caller and another user,
// oldest first.
//
// @Summary      Conversation
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "Other user's ID"
// @Success      200     {array}   domain.Message
// @Router       /messages/conversation/{userId} [get]
func (h *MessageHandler) Conversation(c echo.Context) error {
	items, err := h.service.Conversation(c.Request().Context(), currentPrincipal(c), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Delete removes a message sent by the caller.
//
// @Summary      Delete message
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Message ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  api.errorResponse
// @Failure      404  {object}  api.errorResponse
// @Router       /messages/{id} [delete]
func (h *MessageHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), currentPrincipal(c), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "message deleted"})
}
