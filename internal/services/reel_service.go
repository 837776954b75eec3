package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"reelchat-service/internal/adapters/storage"
	"reelchat-service/internal/models"
	"reelchat-service/internal/repositories/postgres"

	"gorm.io/gorm"
)

var ErrReelNotFound = errors.New("reel not found")

// ReelStore is the persistence surface the service needs. Satisfied by
// *postgres.ReelRepository.
type ReelStore interface {
	Create(reel *models.Reel) error
	FindByID(id uint) (*models.Reel, error)
	FindByUserID(userID uint) ([]models.Reel, error)
	ListFeed(limit, offset int) ([]models.Reel, error)
	IncrementLikes(reelID uint) error
	AddComment(comment *models.ReelComment) error
	Delete(reelID, userID uint) error
}

type ReelService struct {
	repo     ReelStore
	userRepo *postgres.UserRepository
	storage  *storage.MinIOClient
}

func NewReelService(repo ReelStore, userRepo *postgres.UserRepository, storage *storage.MinIOClient) *ReelService {
	return &ReelService{
		repo:     repo,
		userRepo: userRepo,
		storage:  storage,
	}
}

// CreateReel uploads the media file to object storage and persists the metadata.
func (s *ReelService) CreateReel(ctx context.Context, userID uint, req *models.CreateReelRequest, file *multipart.FileHeader) (*models.ReelResponse, error) {
	mediaURL, err := s.storage.UploadMedia(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload media: %w", err)
	}

	reel := models.Reel{
		UserID:     userID,
		MediaURL:   mediaURL,
		Script:     req.Script,
		Location:   req.Location,
		Commenting: true,
	}
	if err := s.repo.Create(&reel); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	return toReelResponse(&reel, user.Username), nil
}

func (s *ReelService) GetFeed(limit, offset int) ([]models.ReelResponse, error) {
	reels, err := s.repo.ListFeed(limit, offset)
	if err != nil {
		return nil, err
	}
	responses := make([]models.ReelResponse, 0, len(reels))
	for i := range reels {
		responses = append(responses, *toReelResponse(&reels[i], reels[i].User.Username))
	}
	return responses, nil
}

func (s *ReelService) GetUserReels(userID uint) ([]models.ReelResponse, error) {
	reels, err := s.repo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	responses := make([]models.ReelResponse, 0, len(reels))
	for i := range reels {
		responses = append(responses, *toReelResponse(&reels[i], reels[i].User.Username))
	}
	return responses, nil
}

func (s *ReelService) LikeReel(reelID uint) error {
	if _, err := s.repo.FindByID(reelID); err != nil {
		return ErrReelNotFound
	}
	return s.repo.IncrementLikes(reelID)
}

func (s *ReelService) CommentOnReel(reelID, userID uint, text string) error {
	reel, err := s.repo.FindByID(reelID)
	if err != nil {
		return ErrReelNotFound
	}
	if !reel.Commenting {
		return errors.New("commenting is disabled for this reel")
	}
	return s.repo.AddComment(&models.ReelComment{
		ReelID: reelID,
		UserID: userID,
		Text:   text,
	})
}

func (s *ReelService) DeleteReel(reelID, userID uint) error {
	if err := s.repo.Delete(reelID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReelNotFound
		}
		return err
	}
	return nil
}

func toReelResponse(reel *models.Reel, username string) *models.ReelResponse {
	return &models.ReelResponse{
		ID:           reel.ID,
		UserID:       reel.UserID,
		Username:     username,
		MediaURL:     reel.MediaURL,
		PosterImage:  reel.PosterImage,
		Script:       reel.Script,
		LikeCount:    reel.LikeCount,
		CommentCount: reel.CommentCount,
		CreatedAt:    reel.CreatedAt,
	}
}
