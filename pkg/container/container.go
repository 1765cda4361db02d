package container

import (
	"context"
	"fmt"
	"time"

	"gigmarket-backend/internal/config"
	infraCache "gigmarket-backend/internal/infrastructure/cache"
	"gigmarket-backend/internal/infrastructure/database"
	"gigmarket-backend/internal/infrastructure/queue"
	"gigmarket-backend/internal/infrastructure/storage"
	"gigmarket-backend/pkg/cache"
	"gigmarket-backend/pkg/jwt"
	"gigmarket-backend/pkg/logger"

	gigRepo "gigmarket-backend/internal/domains/gig/repository"
	gigService "gigmarket-backend/internal/domains/gig/service"
	messageRepo "gigmarket-backend/internal/domains/message/repository"
	messageService "gigmarket-backend/internal/domains/message/service"
	orderRepo "gigmarket-backend/internal/domains/order/repository"
	orderService "gigmarket-backend/internal/domains/order/service"
	ratingService "gigmarket-backend/internal/domains/rating/service"
	reviewRepo "gigmarket-backend/internal/domains/review/repository"
	reviewService "gigmarket-backend/internal/domains/review/service"
	userRepo "gigmarket-backend/internal/domains/user/repository"
	userService "gigmarket-backend/internal/domains/user/service"
)

// =====================================================
// CONTAINER
// =====================================================

// Container is the root of the dependency graph. Everything in it is a
// singleton built once at startup.
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager
	Storage    storage.ObjectStorage
	TaskClient *queue.Client

	UserRepo    userRepo.UserRepository
	GigRepo     gigRepo.GigRepository
	OrderRepo   orderRepo.OrderRepository
	ReviewRepo  reviewRepo.ReviewRepository
	MessageRepo messageRepo.MessageRepository

	UserService    userService.UserService
	GigService     gigService.GigService
	OrderService   orderService.OrderService
	ReportService  orderService.ReportService
	RatingService  ratingService.RatingService
	ReviewService  reviewService.ReviewService
	MessageService messageService.MessageService

	redisCache *infraCache.RedisCache
}

// NewContainer builds the full dependency graph and connects to all
// backing services.
func NewContainer() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(cfg.App.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Infrastructure
	db := database.NewPostgresDB(&cfg.Database)
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Connect(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	objectStorage, err := storage.NewMinioStorage(&cfg.MinIO)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init object storage: %w", err)
	}
	if err := objectStorage.EnsureBucket(ctx); err != nil {
		logger.Warn("storage bucket check failed", map[string]interface{}{"error": err.Error()})
	}

	taskClient := queue.NewClient(cfg.Redis.Host, cfg.Redis.Password)
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	c := &Container{
		Config:     cfg,
		DB:         db,
		Cache:      redisCache,
		JWTManager: jwtManager,
		Storage:    objectStorage,
		TaskClient: taskClient,
		redisCache: redisCache,
	}

	c.buildRepositories()
	c.buildServices()

	logger.Info("container initialized", map[string]interface{}{
		"env": cfg.App.Environment,
	})
	return c, nil
}

func (c *Container) buildRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresUserRepository(pool)
	c.GigRepo = gigRepo.NewCachedGigRepository(gigRepo.NewPostgresGigRepository(pool), c.Cache)
	c.OrderRepo = orderRepo.NewPostgresOrderRepository(pool)
	c.ReviewRepo = reviewRepo.NewPostgresReviewRepository(pool)
	c.MessageRepo = messageRepo.NewPostgresMessageRepository(pool)
}

func (c *Container) buildServices() {
	autoCompleteAfter := time.Duration(c.Config.Jobs.AutoCompleteAfterDays) * 24 * time.Hour

	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
	c.GigService = gigService.NewGigService(c.GigRepo, c.Storage)
	c.OrderService = orderService.NewOrderService(c.OrderRepo, c.GigRepo, autoCompleteAfter)
	c.ReportService = orderService.NewReportService(c.OrderRepo)
	c.RatingService = ratingService.NewRatingService(c.ReviewRepo, c.GigRepo, c.UserRepo)
	c.ReviewService = reviewService.NewReviewService(c.ReviewRepo, c.OrderRepo, c.RatingService, c.TaskClient)
	c.MessageService = messageService.NewMessageService(c.MessageRepo, c.OrderRepo)
}

// Cleanup releases all held connections
func (c *Container) Cleanup() {
	if c.TaskClient != nil {
		if err := c.TaskClient.Close(); err != nil {
			logger.Error("failed to close task client", err)
		}
	}
	if c.redisCache != nil {
		if err := c.redisCache.Close(); err != nil {
			logger.Error("failed to close redis", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	logger.Info("container cleaned up", map[string]interface{}{})
}
