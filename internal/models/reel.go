package models

import (
	"time"

	"gorm.io/gorm"
)

/** --------------------ENTITIES-------------------- */
// Reel represents a short media post that watch-party rooms play through.
type Reel struct {
	gorm.Model
	UserID      uint   `gorm:"not null;type:uint" json:"userId"`
	MediaURL    string `gorm:"not null" json:"mediaUrl"`
	PosterImage string `json:"posterImage,omitempty"`
	Script      string `json:"script,omitempty"`   // caption text
	Location    string `json:"location,omitempty"` // optional geotag

	Commenting       bool `gorm:"default:true" json:"commenting"`
	LikeCountVisible bool `gorm:"default:true" json:"likeCountVisible"`
	Pinned           bool `gorm:"default:false" json:"pinned"`

	LikeCount    int `gorm:"default:0" json:"likeCount"`
	CommentCount int `gorm:"default:0" json:"commentCount"`

	User     User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Comments []ReelComment `gorm:"foreignKey:ReelID" json:"comments,omitempty"`
}

// ReelComment is a single comment on a reel.
type ReelComment struct {
	gorm.Model
	ReelID uint   `gorm:"not null;type:uint" json:"reelId"`
	UserID uint   `gorm:"not null;type:uint" json:"userId"`
	Text   string `gorm:"not null" json:"text"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

/** -------------------- DTOs -------------------- */
// Request
type CreateReelRequest struct {
	Script   string `form:"script"`
	Location string `form:"location"`
}

type CommentReelRequest struct {
	Text string `json:"text" binding:"required"`
}

// Response
type ReelResponse struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"userId"`
	Username     string    `json:"username"`
	MediaURL     string    `json:"mediaUrl"`
	PosterImage  string    `json:"posterImage,omitempty"`
	Script       string    `json:"script,omitempty"`
	LikeCount    int       `json:"likeCount"`
	CommentCount int       `json:"commentCount"`
	CreatedAt    time.Time `json:"createdAt"`
}
