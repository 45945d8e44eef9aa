package models

import "gorm.io/gorm"

// Message is one durable chat message. The embedded gorm.Model provides the
// ID and CreatedAt; CreatedAt (with ID as tiebreaker) defines the per-room
// total order. Rows are immutable except for IsRead, which only ever moves
// false -> true.
type Message struct {
	gorm.Model

	RoomID     string `gorm:"type:text;not null;index:idx_room_msg" json:"roomId"`
	SenderID   string `gorm:"type:text;not null;index" json:"senderId"`
	ReceiverID string `gorm:"type:text;not null;index" json:"receiverId"`
	Content    string `gorm:"type:text;not null" json:"content"`
	// MediaURL optionally references an uploaded attachment.
	MediaURL string `gorm:"type:text" json:"media,omitempty"`
	IsRead   bool   `gorm:"not null;default:false;index" json:"isRead"`
}
