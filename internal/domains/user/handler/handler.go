package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gigmarket-backend/internal/domains/user/model"
	"gigmarket-backend/internal/domains/user/service"
	"gigmarket-backend/internal/shared/middleware"
	"gigmarket-backend/internal/shared/response"
)

// =====================================================
// USER HANDLER
// =====================================================

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterPublicRoutes mounts auth and public profile routes
func (h *UserHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
	}
	rg.GET("/sellers/:id/profile", h.GetSellerProfile)
}

// RegisterRoutes mounts the authenticated profile routes
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.GET("/me", h.Me)
		users.PATCH("/me", h.UpdateProfile)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	auth, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, auth)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	auth, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, auth)
}

func (h *UserHandler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	auth, err := h.userService.Refresh(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, auth)
}

func (h *UserHandler) Me(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	profile, err := h.userService.GetProfile(c.Request.Context(), actor.ID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), middleware.ActorFrom(c), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

func (h *UserHandler) GetSellerProfile(c *gin.Context) {
	sellerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid seller id")
		return
	}

	profile, err := h.userService.GetSellerProfile(c.Request.Context(), sellerID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

func (h *UserHandler) handleError(c *gin.Context, err error) {
	var userErr *model.UserError
	if errors.As(err, &userErr) {
		response.ErrorResponse(c, http.StatusBadRequest, userErr.Code, userErr.Message)
		return
	}

	switch {
	case errors.Is(err, model.ErrUserNotFound):
		response.NotFound(c, "user not found")
	case errors.Is(err, model.ErrDuplicateEmail):
		response.Conflict(c, "email or username already registered")
	case errors.Is(err, model.ErrInvalidCredentials):
		response.Unauthorized(c, "invalid email or password")
	default:
		response.InternalServerError(c, "something went wrong")
	}
}
