package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatRoom is a durable two-party messaging channel scoped to one event.
// UserAID/UserBID hold the lexicographically smaller/larger of the pair so
// the unique index collapses (A,B) and (B,A) into one room.
type ChatRoom struct {
	RoomID    string    `gorm:"primaryKey" json:"roomId"`
	EventID   string    `gorm:"type:text;not null;uniqueIndex:idx_event_pair" json:"eventId"`
	UserAID   string    `gorm:"type:text;not null;uniqueIndex:idx_event_pair" json:"userAId"`
	UserBID   string    `gorm:"type:text;not null;uniqueIndex:idx_event_pair" json:"userBId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	// LastMessageAt is bumped in the same transaction as every append.
	LastMessageAt time.Time `gorm:"index" json:"lastMessageAt"`
}

func (r *ChatRoom) BeforeCreate(tx *gorm.DB) (err error) {
	if r.RoomID == "" {
		r.RoomID = uuid.New().String()
	}
	return
}

// PeerOf returns the other member of the room's pair.
func (r *ChatRoom) PeerOf(userID string) string {
	if r.UserAID == userID {
		return r.UserBID
	}
	return r.UserAID
}

// RoomParticipant authorizes a user to act within a room. Rows are created
// alongside the room for exactly the two validated parties and are
// soft-deactivated, never deleted.
type RoomParticipant struct {
	gorm.Model

	RoomID   string    `gorm:"type:text;not null;uniqueIndex:idx_room_user"`
	UserID   string    `gorm:"type:text;not null;uniqueIndex:idx_room_user"`
	IsActive bool      `gorm:"not null;default:true"`
	JoinedAt time.Time `gorm:"not null"`
}

// RoomSummary is the read-only projection served by the room listing
// endpoint: the room, its last message preview and the caller's unread count.
type RoomSummary struct {
	Room        ChatRoom `json:"room"`
	PeerID      string   `json:"peerId"`
	LastMessage *Message `json:"lastMessage,omitempty"`
	UnreadCount int64    `json:"unreadCount"`
}
