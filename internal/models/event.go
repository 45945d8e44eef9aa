package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // pq.StringArray for text[] columns
	"gorm.io/gorm"
)

// Participant status lifecycle on an event.
const (
	EventParticipantPending  = "pending"
	EventParticipantAccepted = "accepted"
)

// Event is the chat-relevant slice of an event record. Creation, prizes and
// winner bookkeeping live in the event-management service; chat reads these
// rows only to answer "may these two users talk about this event".
type Event struct {
	ID        string         `gorm:"primaryKey" json:"id"`
	HostID    string         `gorm:"type:text;not null;index" json:"hostId"`
	Title     string         `gorm:"type:text;not null" json:"title"`
	Tags      pq.StringArray `gorm:"type:text[]" json:"tags"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return
}

// EventParticipant records a user's standing on an event. Only accepted
// participants (and the host) may open a chat room for the event.
type EventParticipant struct {
	gorm.Model

	EventID string `gorm:"type:text;not null;uniqueIndex:idx_event_user"`
	UserID  string `gorm:"type:text;not null;uniqueIndex:idx_event_user"`
	Status  string `gorm:"type:text;not null;default:pending"`
}

// EventAuthorization is the narrow answer the membership authority needs
// from the event collaborator.
type EventAuthorization struct {
	IsHost        bool
	IsParticipant bool
}

// Authorized reports whether the user may chat within the event at all.
func (a EventAuthorization) Authorized() bool {
	return a.IsHost || a.IsParticipant
}
