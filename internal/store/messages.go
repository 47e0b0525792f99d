// Package store is the persistence boundary for the messaging core.
// It is the only contract the rest of the application needs from the
// database: append plus indexed range queries.
package store

import (
	"errors"
	"fmt"

	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/database"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/models"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/rooms"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/pkg/utils"
)

// Sentinel errors for the handler layer to map onto HTTP statuses.
// Store-layer failures are never retried here; retry policy belongs to
// the delivery client.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage failure")
)

// Append validates and persists a message. The caller fills SenderID,
// Body and, for direct messages, ReceiverID; RoomID is derived here.
// Group replies must reference an existing top-level board message:
// replies to replies are rejected rather than flattened.
func Append(msg *models.Message) error {
	msg.Body = utils.TrimBody(msg.Body)

	if msg.SenderID == "" {
		return fmt.Errorf("%w: sender is required", ErrValidation)
	}
	if msg.Body == "" {
		return fmt.Errorf("%w: message body is empty", ErrValidation)
	}
	if utils.BodyTooLong(msg.Body) {
		return fmt.Errorf("%w: message body exceeds %d characters", ErrValidation, utils.MaxMessageLength)
	}

	if msg.ReceiverID != nil {
		if *msg.ReceiverID == "" {
			return fmt.Errorf("%w: receiver is required", ErrValidation)
		}
		if msg.ParentID != nil {
			return fmt.Errorf("%w: direct messages cannot be replies", ErrValidation)
		}
		roomID := rooms.DirectRoomID(msg.SenderID, *msg.ReceiverID)
		msg.RoomID = &roomID
	} else if msg.ParentID != nil {
		var parent models.Message
		if err := database.DB.First(&parent, "id = ?", *msg.ParentID).Error; err != nil {
			return fmt.Errorf("%w: parent message %s", ErrNotFound, *msg.ParentID)
		}
		if !parent.IsGroup() {
			return fmt.Errorf("%w: parent is not a board message", ErrValidation)
		}
		if parent.ParentID != nil {
			return fmt.Errorf("%w: replies to replies are not allowed", ErrValidation)
		}
	}

	if err := database.DB.Create(msg).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// QueryRoom returns the full direct conversation between two
// participants, created_at ascending. The symmetric room key covers
// both orderings of the pair and is what the (room_id, created_at)
// index serves.
func QueryRoom(a, b string) ([]models.Message, error) {
	var messages []models.Message
	err := database.DB.Where("room_id = ?", rooms.DirectRoomID(a, b)).
		Order("created_at asc").Preload("Sender").Find(&messages).Error

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return messages, nil
}

// QueryGroup returns every board message, created_at descending.
// Thread order is re-derived client-side (rooms.PartitionThreads).
func QueryGroup() ([]models.Message, error) {
	var messages []models.Message
	err := database.DB.Where("receiver_id IS NULL").
		Order("created_at desc").Preload("Sender").Find(&messages).Error

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return messages, nil
}

// Counterparts enumerates the distinct participants who have exchanged
// direct messages with the given participant, most recent conversation
// first. The participant itself is never included.
func Counterparts(id string) ([]string, error) {
	var msgs []models.Message
	err := database.DB.
		Where("sender_id = ? OR receiver_id = ?", id, id).
		Where("receiver_id IS NOT NULL").
		Order("created_at desc").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	seen := make(map[string]bool)
	var out []string
	for _, m := range msgs {
		other := m.SenderID
		if other == id && m.ReceiverID != nil {
			other = *m.ReceiverID
		}
		if other == id || seen[other] {
			continue
		}
		seen[other] = true
		out = append(out, other)
	}
	return out, nil
}
