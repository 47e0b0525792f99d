package models

import (
	"time"

	"github.com/RUTHVIKMATURU/campus-connect-sub000/pkg/utils"
	"gorm.io/gorm"
)

// Message is the single chat entity. Direct messages carry a ReceiverID
// and a symmetric RoomID; group (board) messages carry neither and may
// reference a top-level message through ParentID for one level of replies.
// Messages are immutable once created: there is no edit or delete path.
type Message struct {
	ID string `gorm:"primaryKey;type:text" json:"id"`

	SenderID string `gorm:"index;type:text;not null" json:"senderId"`

	// Nil for group messages.
	ReceiverID *string `gorm:"index;type:text" json:"receiverId,omitempty"`

	Body string `gorm:"type:text;not null" json:"body"`

	// Symmetric direct-room key, sort([a,b]) joined with "_". Nil for
	// group messages, which all share the one implicit room.
	RoomID *string `gorm:"index;type:text" json:"roomId,omitempty"`

	// Group messages only: id of the top-level message this replies to.
	ParentID *string `gorm:"index;type:text" json:"parentId,omitempty"`

	// Idempotency/correlation token generated client-side and echoed
	// back so optimistic entries reconcile by token, not by content.
	ClientMessageID *string `gorm:"index;type:text" json:"clientMessageId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`

	// Relations
	Sender User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = utils.GenerateID()
	}
	return
}

// IsGroup reports whether the message belongs to the shared board.
func (m *Message) IsGroup() bool {
	return m.ReceiverID == nil
}

func (Message) TableName() string {
	return "messages"
}
