package postgres

import (
	"fmt"

	"reelchat-service/internal/models"

	"gorm.io/gorm"
)

type ReelRepository struct {
	db *gorm.DB
}

func NewReelRepository(db *gorm.DB) *ReelRepository {
	return &ReelRepository{db: db}
}

func (r *ReelRepository) Create(reel *models.Reel) error {
	if err := r.db.Create(reel).Error; err != nil {
		return fmt.Errorf("failed to create reel: %w", err)
	}
	return nil
}

func (r *ReelRepository) FindByID(id uint) (*models.Reel, error) {
	var reel models.Reel
	err := r.db.Preload("User").Preload("Comments").Preload("Comments.User").
		Where("id = ? AND deleted_at IS NULL", id).First(&reel).Error
	if err != nil {
		return nil, err
	}
	return &reel, nil
}

func (r *ReelRepository) FindByUserID(userID uint) ([]models.Reel, error) {
	var reels []models.Reel
	err := r.db.Preload("User").
		Where("user_id = ? AND deleted_at IS NULL", userID).
		Order("created_at DESC").Find(&reels).Error
	return reels, err
}

// ListFeed returns the most recent reels, newest first. The watch party plays
// through the returned slice by index.
func (r *ReelRepository) ListFeed(limit, offset int) ([]models.Reel, error) {
	var reels []models.Reel
	err := r.db.Preload("User").
		Where("deleted_at IS NULL").
		Order("created_at DESC").
		Limit(limit).Offset(offset).Find(&reels).Error
	return reels, err
}

func (r *ReelRepository) IncrementLikes(reelID uint) error {
	return r.db.Model(&models.Reel{}).Where("id = ?", reelID).
		UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
}

func (r *ReelRepository) AddComment(comment *models.ReelComment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		return tx.Model(&models.Reel{}).Where("id = ?", comment.ReelID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error
	})
}

func (r *ReelRepository) Delete(reelID, userID uint) error {
	res := r.db.Where("id = ? AND user_id = ?", reelID, userID).Delete(&models.Reel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
