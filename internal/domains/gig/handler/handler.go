package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gigmarket-backend/internal/domains/gig/model"
	"gigmarket-backend/internal/domains/gig/service"
	"gigmarket-backend/internal/shared/middleware"
	"gigmarket-backend/internal/shared/response"
)

// =====================================================
// GIG HANDLER
// =====================================================

const maxCoverUploadBytes = 10 << 20

type GigHandler struct {
	gigService service.GigService
}

func NewGigHandler(gigService service.GigService) *GigHandler {
	return &GigHandler{gigService: gigService}
}

// RegisterPublicRoutes mounts the catalog routes that need no auth
func (h *GigHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	gigs := rg.Group("/gigs")
	{
		gigs.GET("", h.List)
		gigs.GET("/:id", h.Get)
		gigs.GET("/slug/:slug", h.GetBySlug)
	}
}

// RegisterRoutes mounts the authenticated gig routes
func (h *GigHandler) RegisterRoutes(rg *gin.RouterGroup) {
	gigs := rg.Group("/gigs")
	{
		gigs.POST("", h.Create)
		gigs.PATCH("/:id", h.Update)
		gigs.POST("/:id/cover", h.UploadCover)
	}
}

func (h *GigHandler) Create(c *gin.Context) {
	var req model.CreateGigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	gig, err := h.gigService.Create(c.Request.Context(), middleware.ActorFrom(c), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gig)
}

func (h *GigHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid gig id")
		return
	}

	gig, err := h.gigService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gig)
}

func (h *GigHandler) GetBySlug(c *gin.Context) {
	gig, err := h.gigService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gig)
}

func (h *GigHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid gig id")
		return
	}

	var req model.UpdateGigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	gig, err := h.gigService.Update(c.Request.Context(), middleware.ActorFrom(c), id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gig)
}

func (h *GigHandler) List(c *gin.Context) {
	var req model.ListGigsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	gigs, total, err := h.gigService.List(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, gigs, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

func (h *GigHandler) UploadCover(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid gig id")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "image file is required")
		return
	}
	if fileHeader.Size > maxCoverUploadBytes {
		response.BadRequest(c, "image must be 10MB or smaller")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "unreadable image file")
		return
	}
	defer file.Close()

	gig, err := h.gigService.UploadCover(c.Request.Context(), middleware.ActorFrom(c), id, file)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gig)
}

func (h *GigHandler) handleError(c *gin.Context, err error) {
	var gigErr *model.GigError
	if errors.As(err, &gigErr) {
		switch {
		case errors.Is(err, model.ErrGigForbidden):
			response.ErrorResponse(c, http.StatusForbidden, gigErr.Code, gigErr.Message)
		case errors.Is(err, model.ErrGigNotFound):
			response.ErrorResponse(c, http.StatusNotFound, gigErr.Code, gigErr.Message)
		default:
			response.ErrorResponse(c, http.StatusBadRequest, gigErr.Code, gigErr.Message)
		}
		return
	}

	switch {
	case errors.Is(err, model.ErrGigNotFound):
		response.NotFound(c, "gig not found")
	case errors.Is(err, model.ErrDuplicateSlug):
		response.Conflict(c, "a gig with this title already exists")
	default:
		response.InternalServerError(c, "something went wrong")
	}
}
