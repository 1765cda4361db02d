package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	gigHandler "gigmarket-backend/internal/domains/gig/handler"
	messageHandler "gigmarket-backend/internal/domains/message/handler"
	orderHandler "gigmarket-backend/internal/domains/order/handler"
	reviewHandler "gigmarket-backend/internal/domains/review/handler"
	uploadHandler "gigmarket-backend/internal/domains/upload/handler"
	userHandler "gigmarket-backend/internal/domains/user/handler"
	"gigmarket-backend/internal/shared/middleware"
	"gigmarket-backend/pkg/container"
)

// setupRouter builds the gin engine with all middleware and routes
func setupRouter(c *container.Container) *gin.Engine {
	if c.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	router.GET("/health", func(ctx *gin.Context) {
		status := http.StatusOK
		checks := gin.H{"database": "up", "cache": "up"}

		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			checks["database"] = "down"
		}
		if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			checks["cache"] = "down"
		}

		ctx.JSON(status, gin.H{
			"service": c.Config.App.Name,
			"version": c.Config.App.Version,
			"checks":  checks,
		})
	})

	users := userHandler.NewUserHandler(c.UserService)
	gigs := gigHandler.NewGigHandler(c.GigService)
	orders := orderHandler.NewOrderHandler(c.OrderService, c.ReportService)
	reviews := reviewHandler.NewReviewHandler(c.ReviewService)
	messages := messageHandler.NewMessageHandler(c.MessageService)
	uploads := uploadHandler.NewUploadHandler(c.Storage)

	public := router.Group("/api/v1")
	{
		users.RegisterPublicRoutes(public)
		gigs.RegisterPublicRoutes(public)
		reviews.RegisterPublicRoutes(public)
	}

	authed := router.Group("/api/v1")
	authed.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		users.RegisterRoutes(authed)
		gigs.RegisterRoutes(authed)
		orders.RegisterRoutes(authed)
		reviews.RegisterRoutes(authed)
		messages.RegisterRoutes(authed)
		uploads.RegisterRoutes(authed)
	}

	return router
}
