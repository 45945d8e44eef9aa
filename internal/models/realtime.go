package models

import (
	"encoding/json"
	"time"
)

// Wire event names, shared by clients and the hub.
const (
	EventJoinRoom            = "joinRoom"
	EventLeaveRoom           = "leaveRoom"
	EventSendMessage         = "sendMessage"
	EventNewMessage          = "newMessage"
	EventMessageNotification = "messageNotification"
	EventMarkAsRead          = "markAsRead"
	EventMessageRead         = "messageRead"
	EventTyping              = "typing"
	EventStopTyping          = "stopTyping"
	EventOnline              = "online"
	EventOffline             = "offline"
	EventError               = "error"
)

// Envelope frames every message on a connection: a type tag plus a raw
// payload demultiplexed by the hub.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope marshals payload into an outbound envelope.
func NewEnvelope(event string, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Event: event, Data: data}, nil
}

// Inbound payloads.

type JoinRoomPayload struct {
	RoomID string `json:"roomId" validate:"required"`
}

type SendMessagePayload struct {
	RoomID     string `json:"roomId" validate:"required"`
	ReceiverID string `json:"receiverId" validate:"required"`
	Content    string `json:"content" validate:"required"`
	MediaURL   string `json:"media,omitempty"`
}

type MarkAsReadPayload struct {
	MessageID uint `json:"messageId" validate:"required"`
}

type TypingPayload struct {
	RoomID     string `json:"roomId" validate:"required"`
	ReceiverID string `json:"receiverId" validate:"required"`
}

// Outbound payloads.

// NewMessageEvent is the room-scoped broadcast for a freshly appended message.
type NewMessageEvent struct {
	ID         uint      `json:"id"`
	RoomID     string    `json:"roomId"`
	Content    string    `json:"content"`
	MediaURL   string    `json:"media,omitempty"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Sender     User      `json:"sender"`
	Receiver   User      `json:"receiver"`
	IsRead     bool      `json:"isRead"`
	CreatedAt  time.Time `json:"createdAt"`
}

// MessageNotification is the compact receiver-directed ping for a new
// message; Content carries only a preview.
type MessageNotification struct {
	RoomID     string `json:"roomId"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Content    string `json:"content"`
}

type MessageReadEvent struct {
	MessageID uint `json:"messageId"`
}

// TypingEvent is the forwarded form of a typing/stopTyping signal.
type TypingEvent struct {
	RoomID     string `json:"roomId"`
	FromUserID string `json:"fromUserId"`
}

type PresenceEvent struct {
	UserID string `json:"userId"`
}

type ErrorEvent struct {
	Message string `json:"message"`
}

// Preview truncates s to max runes, appending an ellipsis when cut.
func Preview(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

// Bridge scopes for cross-node delivery.
const (
	BridgeScopeRoom   = "room"
	BridgeScopeUser   = "user"
	BridgeScopeGlobal = "global"
)

// BridgeEnvelope wraps an outbound envelope for the redis pub/sub bridge.
// Origin identifies the publishing node so each node can drop its own echo.
type BridgeEnvelope struct {
	Origin string   `json:"origin"`
	Scope  string   `json:"scope"`
	Target string   `json:"target,omitempty"`
	Event  Envelope `json:"event"`
}
