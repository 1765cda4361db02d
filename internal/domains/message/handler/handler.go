package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gigmarket-backend/internal/domains/message/model"
	"gigmarket-backend/internal/domains/message/service"
	ordermodel "gigmarket-backend/internal/domains/order/model"
	"gigmarket-backend/internal/shared/middleware"
	"gigmarket-backend/internal/shared/response"
)

// =====================================================
// MESSAGE HANDLER
// =====================================================

type MessageHandler struct {
	messageService service.MessageService
}

func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// RegisterRoutes mounts the conversation routes. All require auth.
func (h *MessageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/orders/:id/messages", h.Send)
	rg.GET("/orders/:id/messages", h.List)
	rg.POST("/orders/:id/messages/read", h.MarkRead)
	rg.GET("/messages/unread", h.UnreadCount)
}

func (h *MessageHandler) Send(c *gin.Context) {
	orderID, ok := h.orderID(c)
	if !ok {
		return
	}

	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	message, err := h.messageService.Send(c.Request.Context(), middleware.ActorFrom(c), orderID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, message)
}

func (h *MessageHandler) List(c *gin.Context) {
	orderID, ok := h.orderID(c)
	if !ok {
		return
	}

	var req model.ListMessagesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	messages, total, err := h.messageService.List(c.Request.Context(), middleware.ActorFrom(c), orderID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, messages, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	orderID, ok := h.orderID(c)
	if !ok {
		return
	}

	marked, err := h.messageService.MarkRead(c.Request.Context(), middleware.ActorFrom(c), orderID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"marked_read": marked})
}

func (h *MessageHandler) UnreadCount(c *gin.Context) {
	count, err := h.messageService.UnreadCount(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unread": count})
}

func (h *MessageHandler) orderID(c *gin.Context) (uuid.UUID, bool) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return uuid.Nil, false
	}
	return orderID, true
}

func (h *MessageHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrMessageForbidden):
		response.Forbidden(c, "conversation is only visible to the order's participants")
	case errors.Is(err, ordermodel.ErrOrderNotFound):
		response.NotFound(c, "order not found")
	default:
		response.BadRequest(c, err.Error())
	}
}
