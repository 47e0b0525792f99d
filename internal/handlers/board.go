package handlers

import (
	"net/http"
	"time"

	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/database"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/models"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/store"
	apperrors "github.com/RUTHVIKMATURU/campus-connect-sub000/pkg/errors"
	"github.com/gin-gonic/gin"
)

const boardFeedCacheKey = "board:feed"

// GetBoardMessages returns the full group feed, newest first. Clients
// re-derive thread order (top-level messages plus one level of replies).
func GetBoardMessages(c *gin.Context) {
	var cached []models.Message
	if err := database.CacheGet(boardFeedCacheKey, &cached); err == nil {
		c.JSON(http.StatusOK, gin.H{"messages": cached, "source": "cache"})
		return
	}

	messages, err := store.QueryGroup()
	if err != nil {
		status, msg := statusForStoreError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	go database.CacheSet(boardFeedCacheKey, messages, 30*time.Second)

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// PostBoardMessage appends a group message, optionally as a reply to a
// top-level message. Replies to replies are rejected at append time.
func PostBoardMessage(c *gin.Context) {
	senderID := c.MustGet("userId").(string)

	// Fixed-window limit on posts (1 per 30 seconds) when Redis is up
	allowed, err := database.CheckPostRateLimit(senderID, 1, 30*time.Second)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Rate limit check failed"})
		return
	}
	if !allowed {
		abortWith(c, apperrors.TooManyRequests("You're posting too fast. Please wait 30 seconds."))
		return
	}

	var req struct {
		Body            string  `json:"body" binding:"required"`
		ParentID        *string `json:"parentId"`
		ClientMessageID *string `json:"clientMessageId"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg := models.Message{
		SenderID:        senderID,
		Body:            req.Body,
		ParentID:        req.ParentID,
		ClientMessageID: req.ClientMessageID,
	}

	if err := store.Append(&msg); err != nil {
		status, errMsg := statusForStoreError(err)
		c.JSON(status, gin.H{"error": errMsg})
		return
	}

	database.DB.Preload("Sender").First(&msg, "id = ?", msg.ID)

	go database.CacheInvalidate(boardFeedCacheKey + "*")

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}
