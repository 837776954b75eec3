package main

import (
	"log"
	"log/slog"

	"reelchat-service/internal/config"
	"reelchat-service/internal/database"
	"reelchat-service/internal/models"
	"reelchat-service/internal/repositories/postgres"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	slog.Info("Starting database seeding...")

	// Connect to database
	db, err := database.NewPostgresConnection(cfg.Database.URI)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	slog.Info("Database connection established")

	userRepo := postgres.NewUserRepository(db)

	// Seed initial users
	slog.Info("Creating initial users...")

	testUsers := []struct {
		username string
		email    string
		password string
		bio      string
	}{
		{"admin", "admin@reelchat.com", "123456", "Keeping the lights on"},
		{"alice", "alice@reelchat.com", "123456", "Film buff"},
		{"bob", "bob@reelchat.com", "123456", "Always watching something"},
		{"charlie", "charlie@reelchat.com", "123456", ""},
	}

	for _, userData := range testUsers {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(userData.password), bcrypt.DefaultCost)
		user := &models.User{
			Username: userData.username,
			Email:    userData.email,
			Password: string(hashedPassword),
			Bio:      userData.bio,
		}

		if err := userRepo.Create(user); err != nil {
			slog.Warn("User might already exist", "username", userData.username, "error", err)
		} else {
			slog.Info("Created user", "username", userData.username, "id", user.ID)
		}
	}

	// Seed sample reels
	slog.Info("Creating sample reels...")
	if err := seedSampleReels(db, userRepo); err != nil {
		slog.Warn("Failed to seed sample reels", "error", err)
	} else {
		slog.Info("Sample reels created successfully")
	}

	slog.Info("Database seeding completed successfully!")
}

func seedSampleReels(db *gorm.DB, userRepo *postgres.UserRepository) error {
	alice, err := userRepo.FindByEmail("alice@reelchat.com")
	if err != nil {
		return err
	}

	bob, err := userRepo.FindByEmail("bob@reelchat.com")
	if err != nil {
		return err
	}

	reels := []models.Reel{
		{
			UserID:   alice.ID,
			MediaURL: "https://cdn.reelchat.local/seed/sunset.mp4",
			Script:   "Golden hour never disappoints",
			Location: "Lisbon",
		},
		{
			UserID:   alice.ID,
			MediaURL: "https://cdn.reelchat.local/seed/coffee.mp4",
			Script:   "Morning ritual",
		},
		{
			UserID:   bob.ID,
			MediaURL: "https://cdn.reelchat.local/seed/skate.mp4",
			Script:   "Finally landed it",
			Location: "Barcelona",
		},
	}

	for _, reel := range reels {
		if err := db.Create(&reel).Error; err != nil {
			slog.Warn("Failed to create reel", "error", err)
		}
	}

	return nil
}
