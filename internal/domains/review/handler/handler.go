package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gigmarket-backend/internal/domains/review/model"
	"gigmarket-backend/internal/domains/review/service"
	"gigmarket-backend/internal/shared/middleware"
	"gigmarket-backend/internal/shared/response"
)

// =====================================================
// REVIEW HANDLER
// =====================================================

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// RegisterPublicRoutes mounts the read-only review routes
func (h *ReviewHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/gigs/:id/reviews", h.ListByGig)
	rg.GET("/sellers/:id/reviews", h.ListBySeller)
}

// RegisterRoutes mounts the authenticated review routes
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reviews := rg.Group("/reviews")
	{
		reviews.POST("", h.Create)
		reviews.GET("/:id", h.Get)
		reviews.POST("/:id/helpful", h.MarkHelpful)
		reviews.DELETE("/:id/helpful", h.UnmarkHelpful)
		reviews.POST("/:id/flag", h.Flag)
		reviews.POST("/:id/response", h.Respond)
		reviews.PATCH("/:id/status", middleware.AdminMiddleware(), h.Moderate)
	}
	rg.GET("/orders/:id/review", h.GetByOrder)
}

func (h *ReviewHandler) Create(c *gin.Context) {
	var req model.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), middleware.ActorFrom(c), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, review)
}

func (h *ReviewHandler) Get(c *gin.Context) {
	id, ok := h.reviewID(c)
	if !ok {
		return
	}

	review, err := h.reviewService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, review)
}

func (h *ReviewHandler) GetByOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	review, err := h.reviewService.GetByOrder(c.Request.Context(), middleware.ActorFrom(c), orderID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, review)
}

func (h *ReviewHandler) ListByGig(c *gin.Context) {
	gigID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid gig id")
		return
	}
	h.list(c, func(req *model.ListReviewsRequest) ([]model.ReviewResponse, int, error) {
		return h.reviewService.ListByGig(c.Request.Context(), gigID, req)
	})
}

func (h *ReviewHandler) ListBySeller(c *gin.Context) {
	sellerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid seller id")
		return
	}
	h.list(c, func(req *model.ListReviewsRequest) ([]model.ReviewResponse, int, error) {
		return h.reviewService.ListBySeller(c.Request.Context(), sellerID, req)
	})
}

func (h *ReviewHandler) MarkHelpful(c *gin.Context) {
	id, ok := h.reviewID(c)
	if !ok {
		return
	}

	review, err := h.reviewService.MarkHelpful(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, review)
}

func (h *ReviewHandler) UnmarkHelpful(c *gin.Context) {
	id, ok := h.reviewID(c)
	if !ok {
		return
	}

	review, err := h.reviewService.UnmarkHelpful(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, review)
}

func (h *ReviewHandler) Flag(c *gin.Context) {
	id, ok := h.reviewID(c)
	if !ok {
		return
	}

	var req model.FlagReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.reviewService.Flag(c.Request.Context(), middleware.ActorFrom(c), id, &req); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusNoContent, nil)
}

func (h *ReviewHandler) Respond(c *gin.Context) {
	id, ok := h.reviewID(c)
	if !ok {
		return
	}

	var req model.SellerResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	review, err := h.reviewService.Respond(c.Request.Context(), middleware.ActorFrom(c), id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, review)
}

func (h *ReviewHandler) Moderate(c *gin.Context) {
	id, ok := h.reviewID(c)
	if !ok {
		return
	}

	var req model.ModerateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	review, err := h.reviewService.Moderate(c.Request.Context(), middleware.ActorFrom(c), id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, review)
}

// =====================================================
// HELPERS
// =====================================================

func (h *ReviewHandler) reviewID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid review id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *ReviewHandler) list(c *gin.Context, fn func(req *model.ListReviewsRequest) ([]model.ReviewResponse, int, error)) {
	var req model.ListReviewsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	reviews, total, err := fn(&req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, reviews, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

func (h *ReviewHandler) handleError(c *gin.Context, err error) {
	var reviewErr *model.ReviewError
	if errors.As(err, &reviewErr) {
		switch {
		case errors.Is(err, model.ErrReviewForbidden):
			response.ErrorResponse(c, http.StatusForbidden, reviewErr.Code, reviewErr.Message)
		case errors.Is(err, model.ErrOrderNotReviewable):
			response.ErrorResponse(c, http.StatusUnprocessableEntity, reviewErr.Code, reviewErr.Message)
		default:
			response.ErrorResponse(c, http.StatusBadRequest, reviewErr.Code, reviewErr.Message)
		}
		return
	}

	switch {
	case errors.Is(err, model.ErrReviewNotFound):
		response.NotFound(c, "review not found")
	case errors.Is(err, model.ErrDuplicateReview):
		response.Conflict(c, "this order already has a review")
	case errors.Is(err, model.ErrAlreadyResponded):
		response.Conflict(c, "a response has already been posted")
	default:
		response.InternalServerError(c, "something went wrong")
	}
}
