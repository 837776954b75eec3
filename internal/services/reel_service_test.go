package services

import (
	"errors"
	"testing"

	"reelchat-service/internal/models"

	"gorm.io/gorm"
)

type stubReelStore struct {
	deleteErr error
}

func (s *stubReelStore) Create(*models.Reel) error { return nil }

func (s *stubReelStore) FindByID(uint) (*models.Reel, error) { return nil, gorm.ErrRecordNotFound }

func (s *stubReelStore) FindByUserID(uint) ([]models.Reel, error) { return nil, nil }

func (s *stubReelStore) ListFeed(int, int) ([]models.Reel, error) { return nil, nil }

func (s *stubReelStore) IncrementLikes(uint) error { return nil }

func (s *stubReelStore) AddComment(*models.ReelComment) error { return nil }

func (s *stubReelStore) Delete(reelID, userID uint) error { return s.deleteErr }

func TestDeleteReelTranslatesMissingRecord(t *testing.T) {
	svc := NewReelService(&stubReelStore{deleteErr: gorm.ErrRecordNotFound}, nil, nil)

	if err := svc.DeleteReel(1, 2); !errors.Is(err, ErrReelNotFound) {
		t.Errorf("expected ErrReelNotFound for a missing reel, got %v", err)
	}
}

func TestDeleteReelPassesThroughOtherErrors(t *testing.T) {
	dbErr := errors.New("connection reset")
	svc := NewReelService(&stubReelStore{deleteErr: dbErr}, nil, nil)

	if err := svc.DeleteReel(1, 2); !errors.Is(err, dbErr) {
		t.Errorf("expected the repository error to pass through, got %v", err)
	}
}
