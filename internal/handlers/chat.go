package handlers

import (
	"errors"
	"net/http"

	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/database"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/models"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/store"
	apperrors "github.com/RUTHVIKMATURU/campus-connect-sub000/pkg/errors"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
)

// abortWith renders a typed AppError and stops the handler.
func abortWith(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

// statusForStoreError maps store sentinel errors onto HTTP statuses.
// Raw storage errors never reach the client verbatim.
func statusForStoreError(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, err.Error()
	default:
		logger.Error().Err(err).Msg("Store failure")
		return http.StatusInternalServerError, "Something went wrong, please try again"
	}
}

// GetMessages returns the direct conversation with another participant,
// oldest first. Polling clients call this on a short interval.
func GetMessages(c *gin.Context) {
	currentUserID := c.MustGet("userId").(string)
	otherUserID := c.Query("userId")

	if otherUserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
		return
	}

	var other models.User
	if err := database.DB.Select("id").First(&other, "id = ?", otherUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return
	}

	messages, err := store.QueryRoom(currentUserID, otherUserID)
	if err != nil {
		status, msg := statusForStoreError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// SendMessage appends a direct message to the conversation.
func SendMessage(c *gin.Context) {
	senderID := c.MustGet("userId").(string)
	var req struct {
		ReceiverID      string  `json:"receiverId" binding:"required"`
		Body            string  `json:"body" binding:"required"`
		ClientMessageID *string `json:"clientMessageId"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var receiver models.User
	if err := database.DB.Select("id").First(&receiver, "id = ?", req.ReceiverID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipient not found"})
		return
	}

	msg := models.Message{
		SenderID:        senderID,
		ReceiverID:      &req.ReceiverID,
		Body:            req.Body,
		ClientMessageID: req.ClientMessageID,
	}

	if err := store.Append(&msg); err != nil {
		status, errMsg := statusForStoreError(err)
		c.JSON(status, gin.H{"error": errMsg})
		return
	}

	// Populate sender for the response
	database.DB.Preload("Sender").First(&msg, "id = ?", msg.ID)

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// GetContacts enumerates participants the caller has exchanged direct
// messages with, most recent conversation first.
func GetContacts(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	ids, err := store.Counterparts(userID)
	if err != nil {
		status, msg := statusForStoreError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	contacts := make([]models.User, 0, len(ids))
	if len(ids) > 0 {
		var users []models.User
		if err := database.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contacts"})
			return
		}
		// Preserve recency order from Counterparts
		byID := make(map[string]models.User, len(users))
		for _, u := range users {
			byID[u.ID] = u
		}
		for _, id := range ids {
			if u, ok := byID[id]; ok {
				contacts = append(contacts, u)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"contacts": contacts})
}
