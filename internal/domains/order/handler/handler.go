package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	gigmodel "gigmarket-backend/internal/domains/gig/model"
	"gigmarket-backend/internal/domains/order/model"
	"gigmarket-backend/internal/domains/order/service"
	"gigmarket-backend/internal/shared"
	"gigmarket-backend/internal/shared/middleware"
	"gigmarket-backend/internal/shared/response"
)

// =====================================================
// ORDER HANDLER
// =====================================================

type OrderHandler struct {
	orderService  service.OrderService
	reportService service.ReportService
}

func NewOrderHandler(orderService service.OrderService, reportService service.ReportService) *OrderHandler {
	return &OrderHandler{
		orderService:  orderService,
		reportService: reportService,
	}
}

// RegisterRoutes mounts the order routes. All routes require auth.
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.ListMine)
		orders.GET("/selling", h.ListSelling)
		orders.GET("/:id", h.Get)
		orders.GET("/:id/history", h.History)

		orders.POST("/:id/accept", h.Accept)
		orders.POST("/:id/start", h.Start)
		orders.POST("/:id/deliver", h.Deliver)
		orders.POST("/:id/revisions", h.RequestRevision)
		orders.POST("/:id/complete", h.Complete)
		orders.POST("/:id/cancel", h.Cancel)
		orders.POST("/:id/dispute", h.Dispute)
		orders.POST("/:id/resolve", middleware.AdminMiddleware(), h.ResolveDispute)
	}

	sellers := rg.Group("/sellers")
	{
		sellers.GET("/:id/earnings", h.Earnings)
		sellers.GET("/:id/earnings/export", h.ExportEarnings)
	}
}

// =====================================================
// CREATE / READ
// =====================================================

func (h *OrderHandler) Create(c *gin.Context) {
	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), middleware.ActorFrom(c), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, order)
}

func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := h.orderID(c)
	if !ok {
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), middleware.ActorFrom(c), orderID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, order)
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	h.list(c, h.orderService.ListForBuyer)
}

func (h *OrderHandler) ListSelling(c *gin.Context) {
	h.list(c, h.orderService.ListForSeller)
}

type listFunc func(ctx context.Context, actor shared.Actor, req *model.ListOrdersRequest) ([]model.OrderResponse, int, error)

func (h *OrderHandler) list(c *gin.Context, fn listFunc) {
	var req model.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	orders, total, err := fn(c.Request.Context(), middleware.ActorFrom(c), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, orders, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

func (h *OrderHandler) History(c *gin.Context) {
	orderID, ok := h.orderID(c)
	if !ok {
		return
	}

	history, err := h.orderService.StatusHistory(c.Request.Context(), middleware.ActorFrom(c), orderID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, history)
}

// =====================================================
// TRANSITIONS
// =====================================================

func (h *OrderHandler) Accept(c *gin.Context) {
	h.transition(c, func(orderID uuid.UUID, actor shared.Actor) (*model.OrderResponse, error) {
		return h.orderService.Accept(c.Request.Context(), actor, orderID)
	})
}

func (h *OrderHandler) Start(c *gin.Context) {
	h.transition(c, func(orderID uuid.UUID, actor shared.Actor) (*model.OrderResponse, error) {
		return h.orderService.Start(c.Request.Context(), actor, orderID)
	})
}

func (h *OrderHandler) Deliver(c *gin.Context) {
	var req model.DeliverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	h.transition(c, func(orderID uuid.UUID, actor shared.Actor) (*model.OrderResponse, error) {
		return h.orderService.Deliver(c.Request.Context(), actor, orderID, &req)
	})
}

func (h *OrderHandler) RequestRevision(c *gin.Context) {
	var req model.RequestRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	h.transition(c, func(orderID uuid.UUID, actor shared.Actor) (*model.OrderResponse, error) {
		return h.orderService.RequestRevision(c.Request.Context(), actor, orderID, &req)
	})
}

func (h *OrderHandler) Complete(c *gin.Context) {
	h.transition(c, func(orderID uuid.UUID, actor shared.Actor) (*model.OrderResponse, error) {
		return h.orderService.Complete(c.Request.Context(), actor, orderID)
	})
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	var req model.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	h.transition(c, func(orderID uuid.UUID, actor shared.Actor) (*model.OrderResponse, error) {
		return h.orderService.Cancel(c.Request.Context(), actor, orderID, &req)
	})
}

func (h *OrderHandler) Dispute(c *gin.Context) {
	var req model.DisputeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	h.transition(c, func(orderID uuid.UUID, actor shared.Actor) (*model.OrderResponse, error) {
		return h.orderService.Dispute(c.Request.Context(), actor, orderID, &req)
	})
}

func (h *OrderHandler) ResolveDispute(c *gin.Context) {
	var req model.ResolveDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	h.transition(c, func(orderID uuid.UUID, actor shared.Actor) (*model.OrderResponse, error) {
		return h.orderService.ResolveDispute(c.Request.Context(), actor, orderID, &req)
	})
}

// =====================================================
// EARNINGS
// =====================================================

func (h *OrderHandler) Earnings(c *gin.Context) {
	sellerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid seller id")
		return
	}

	summary, err := h.orderService.Earnings(c.Request.Context(), middleware.ActorFrom(c), sellerID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

func (h *OrderHandler) ExportEarnings(c *gin.Context) {
	sellerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid seller id")
		return
	}

	from, to, err := parsePeriod(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	data, filename, err := h.reportService.ExportEarnings(c.Request.Context(), middleware.ActorFrom(c), sellerID, from, to)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// =====================================================
// HELPERS
// =====================================================

func (h *OrderHandler) orderID(c *gin.Context) (uuid.UUID, bool) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return uuid.Nil, false
	}
	return orderID, true
}

func (h *OrderHandler) transition(c *gin.Context, fn func(orderID uuid.UUID, actor shared.Actor) (*model.OrderResponse, error)) {
	orderID, ok := h.orderID(c)
	if !ok {
		return
	}

	order, err := fn(orderID, middleware.ActorFrom(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, order)
}

func parsePeriod(c *gin.Context) (time.Time, time.Time, error) {
	const layout = "2006-01-02"
	now := time.Now().UTC()

	from := now.AddDate(0, -1, 0)
	to := now

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse(layout, v)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("from must be formatted as YYYY-MM-DD")
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse(layout, v)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("to must be formatted as YYYY-MM-DD")
		}
		to = parsed.AddDate(0, 0, 1)
	}
	return from, to, nil
}

// handleError maps domain errors onto HTTP responses
func (h *OrderHandler) handleError(c *gin.Context, err error) {
	var orderErr *model.OrderError
	if errors.As(err, &orderErr) {
		switch {
		case errors.Is(err, model.ErrInvalidTransition):
			response.ErrorResponse(c, http.StatusConflict, orderErr.Code, orderErr.Message)
		case errors.Is(err, model.ErrForbidden):
			response.ErrorResponse(c, http.StatusForbidden, orderErr.Code, orderErr.Message)
		case errors.Is(err, model.ErrRevisionLimitExceeded):
			response.ErrorResponse(c, http.StatusUnprocessableEntity, orderErr.Code, orderErr.Message)
		case errors.Is(err, model.ErrGigNotFound), errors.Is(err, model.ErrOrderNotFound):
			response.ErrorResponse(c, http.StatusNotFound, orderErr.Code, orderErr.Message)
		default:
			response.ErrorResponse(c, http.StatusBadRequest, orderErr.Code, orderErr.Message)
		}
		return
	}

	switch {
	case errors.Is(err, model.ErrOrderNotFound):
		response.NotFound(c, "order not found")
	case errors.Is(err, gigmodel.ErrGigNotFound):
		response.NotFound(c, "gig not found")
	default:
		response.InternalServerError(c, "something went wrong")
	}
}
