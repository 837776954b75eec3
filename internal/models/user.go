package models

import (
	"time"

	"gorm.io/gorm"
)

/** --------------------ENTITIES-------------------- */
// User represents the user entity
type User struct {
	gorm.Model
	Username string `gorm:"uniqueIndex;not null" json:"username"` // Stable identity string used by the realtime protocol
	Email    string `gorm:"uniqueIndex;not null" json:"email"`    // Unique email for the user
	Password string `json:"-"`                                    // Password is hashed and not returned in responses

	// ProfileImage and Bio are the profile fields cached by the presence registry.
	ProfileImage string `json:"profileImage,omitempty"`
	Bio          string `json:"bio,omitempty"`

	IsPrivate bool `gorm:"default:false" json:"isPrivate"`

	Reels []*Reel `gorm:"foreignKey:UserID" json:"reels,omitempty"`
}

/** -------------------- DTOs -------------------- */
// Request
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents the request for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Response
type UserResponse struct {
	ID           uint      `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	CreatedAt    time.Time `json:"created_at"`
	ProfileImage string    `json:"profileImage,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	IsPrivate    bool      `json:"isPrivate"`
}

// LoginResponse represents the response for a successful login
// swagger:model
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// Update user request
type UpdateUserRequest struct {
	Username     *string `json:"username,omitempty" binding:"omitempty,min=3,max=50"`
	Password     *string `json:"password,omitempty" binding:"omitempty,min=6"`
	ProfileImage *string `json:"profileImage,omitempty"`
	Bio          *string `json:"bio,omitempty"`
	IsPrivate    *bool   `json:"isPrivate,omitempty"`
}

// ProfileFields is the subset of account data the presence registry caches.
type ProfileFields struct {
	ProfileImage string `json:"profileImage"`
	Bio          string `json:"bio"`
}
