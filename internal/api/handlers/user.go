package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"reelchat-service/internal/models"
	"reelchat-service/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService  *services.UserService
	redisService *services.RedisService
}

func NewUserHandler(userService *services.UserService, redisService *services.RedisService) *UserHandler {
	return &UserHandler{userService: userService, redisService: redisService}
}

// GetProfile returns the authenticated user's profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile applies partial updates to the authenticated user's profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrUserAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// SearchUsersByUsername returns users whose username matches the query prefix.
func (h *UserHandler) SearchUsersByUsername(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	users, err := h.userService.SearchUsersByUsername(query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetOnlineStatus reports whether a user currently has a live connection.
func (h *UserHandler) GetOnlineStatus(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	targetID := c.Param("id")
	online, err := h.redisService.IsUserOnline(c.Request.Context(), targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"userId": targetID, "online": online})
}

// currentUserID pulls the authenticated user id the auth middleware stored.
func currentUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, false
	}
	userIDUint, ok := userID.(uint)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "invalid user ID type",
			"details": "user_id in context is not of type uint",
		})
		return 0, false
	}
	return userIDUint, true
}
