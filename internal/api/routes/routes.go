package routes

import (
	"time"

	"reelchat-service/internal/api/handlers"
	"reelchat-service/internal/api/middleware"
	"reelchat-service/internal/services"
	"reelchat-service/internal/websocket"

	"github.com/gin-gonic/gin"
)

type Router struct {
	engine              *gin.Engine
	wsHandler           *handlers.WSHandler
	authHandler         *handlers.AuthHandler
	userHandler         *handlers.UserHandler
	reelHandler         *handlers.ReelHandler
	notificationHandler *handlers.NotificationHandler
	rateLimitMW         *middleware.RateLimitMiddleware
	authMW              *middleware.AuthMiddleware
}

func NewRouter(
	hub *websocket.Hub,
	userService *services.UserService,
	reelService *services.ReelService,
	notificationService *services.NotificationService,
	redisService *services.RedisService,
	jwtSecret string,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	// Add middlewares
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS())
	engine.Use(middleware.LogApi())

	return &Router{
		engine:              engine,
		wsHandler:           handlers.NewWSHandler(hub),
		authHandler:         handlers.NewAuthHandler(userService),
		userHandler:         handlers.NewUserHandler(userService, redisService),
		reelHandler:         handlers.NewReelHandler(reelService),
		notificationHandler: handlers.NewNotificationHandler(notificationService),
		rateLimitMW:         middleware.NewRateLimitMiddleware(redisService),
		authMW:              middleware.NewAuthMiddleware(jwtSecret),
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.engine.Group("/api/v1")

	// WebSocket endpoint; identity is negotiated over the socket
	api.GET("/ws", r.wsHandler.HandleWebSocket)

	// Authenticated routes
	auth := api.Group("/")
	auth.Use(r.authMW.RequireAuth())
	{
		users := auth.Group("/users")
		users.Use(r.rateLimitMW.RateLimit(100, time.Minute)) // 100 requests per minute
		{
			users.GET("/profile", r.userHandler.GetProfile)
			users.PUT("/profile", r.userHandler.UpdateProfile)
			users.GET("/search", r.userHandler.SearchUsersByUsername)
			users.GET("/:id/online", r.userHandler.GetOnlineStatus)
		}

		reels := auth.Group("/reels")
		reels.Use(r.rateLimitMW.RateLimit(100, time.Minute)) // 100 requests per minute
		{
			reels.GET("", r.reelHandler.GetFeed)
			reels.POST("", r.reelHandler.CreateReel)
			reels.GET("/user/:id", r.reelHandler.GetUserReels)
			reels.POST("/:id/like", r.reelHandler.LikeReel)
			reels.POST("/:id/comments", r.reelHandler.CommentOnReel)
			reels.DELETE("/:id", r.reelHandler.DeleteReel)
		}

		notifications := auth.Group("/notifications")
		notifications.Use(r.rateLimitMW.RateLimit(100, time.Minute)) // 100 requests per minute
		{
			notifications.GET("", r.notificationHandler.GetHistory)
			notifications.PUT("/read", r.notificationHandler.MarkRead)
		}
	}

	// Public routes (no authentication required)
	public := api.Group("/")
	{
		authRoutes := public.Group("/auth")
		authRoutes.Use(r.rateLimitMW.RateLimitIP(50, time.Minute)) // 50 requests per minute per IP
		{
			authRoutes.POST("/register", r.authHandler.Register)
			authRoutes.POST("/login", r.authHandler.Login)
		}
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
