package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reelchat-service/internal/adapters/kafka"
	"reelchat-service/internal/adapters/storage"
	"reelchat-service/internal/api/routes"
	"reelchat-service/internal/config"
	"reelchat-service/internal/database"
	"reelchat-service/internal/repositories/mongodb"
	"reelchat-service/internal/repositories/postgres"
	"reelchat-service/internal/services"
	"reelchat-service/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	slog.Info("Starting reelchat server")

	// Initialize PostgreSQL connection
	db, err := database.NewPostgresConnection(cfg.Database.URI)
	if err != nil {
		slog.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Initialize Redis connection
	redisClient, err := database.NewRedisConnection(&cfg.Redis)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// Initialize MongoDB connection
	mongoDB, err := database.NewMongoConnection(&cfg.Mongo)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer mongoDB.Close(context.Background())

	// Initialize Kafka producer
	producer, err := kafka.InitKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		slog.Error("Failed to connect to Kafka", "error", err)
		os.Exit(1)
	}
	defer producer.Close()

	// Initialize MinIO storage
	minioClient, err := storage.NewMinIOClient(cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.Bucket)
	if err != nil {
		slog.Error("Failed to connect to MinIO", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	reelRepo := postgres.NewReelRepository(db)
	notificationRepo := mongodb.NewNotificationRepository(mongoDB.DB)

	// Initialize services
	userService := services.NewUserService(userRepo, cfg.JWT.Secret, cfg.JWT.ExpirationTime)
	reelService := services.NewReelService(reelRepo, userRepo, minioClient)
	redisService := services.NewRedisService(redisClient)
	notificationService := services.NewNotificationService(notificationRepo, producer, cfg.Kafka.Topic)

	// Initialize WebSocket hub
	hub := websocket.NewHub(userService, redisService, notificationService)
	go hub.Run()

	// Initialize router with all dependencies
	router := routes.NewRouter(
		hub,
		userService,
		reelService,
		notificationService,
		redisService,
		cfg.JWT.Secret,
	)
	router.SetupRoutes()

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop WebSocket hub
	hub.Stop()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server stopped")
}
