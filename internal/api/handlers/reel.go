package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"reelchat-service/internal/models"
	"reelchat-service/internal/services"

	"github.com/gin-gonic/gin"
)

type ReelHandler struct {
	reelService *services.ReelService
}

func NewReelHandler(reelService *services.ReelService) *ReelHandler {
	return &ReelHandler{reelService: reelService}
}

// CreateReel accepts multipart form data: the media file plus metadata fields.
func (h *ReelHandler) CreateReel(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateReelRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := c.FormFile("media")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "media file is required"})
		return
	}

	reel, err := h.reelService.CreateReel(c.Request.Context(), userID, &req, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, reel)
}

// GetFeed returns the most recent reels, paginated.
func (h *ReelHandler) GetFeed(c *gin.Context) {
	limit := parseQueryInt(c, "limit", 20, 100)
	offset := parseQueryInt(c, "offset", 0, 10000)

	reels, err := h.reelService.GetFeed(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, reels)
}

// GetUserReels lists one user's reels, newest first.
func (h *ReelHandler) GetUserReels(c *gin.Context) {
	targetID, err := parseUintParam(c, "id")
	if err != nil {
		return
	}

	reels, err := h.reelService.GetUserReels(targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, reels)
}

func (h *ReelHandler) LikeReel(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	reelID, err := parseUintParam(c, "id")
	if err != nil {
		return
	}

	if err := h.reelService.LikeReel(reelID); err != nil {
		if errors.Is(err, services.ErrReelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "reel not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "liked"})
}

func (h *ReelHandler) CommentOnReel(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	reelID, err := parseUintParam(c, "id")
	if err != nil {
		return
	}

	var req models.CommentReelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.reelService.CommentOnReel(reelID, userID, req.Text); err != nil {
		if errors.Is(err, services.ErrReelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "reel not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "commented"})
}

func (h *ReelHandler) DeleteReel(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	reelID, err := parseUintParam(c, "id")
	if err != nil {
		return
	}

	if err := h.reelService.DeleteReel(reelID, userID); err != nil {
		if errors.Is(err, services.ErrReelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "reel not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func parseUintParam(c *gin.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " parameter"})
		return 0, err
	}
	return uint(value), nil
}

func parseQueryInt(c *gin.Context, name string, fallback, max int) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil || value < 0 || value > max {
		return fallback
	}
	return value
}
