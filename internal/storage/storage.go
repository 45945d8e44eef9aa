package storage

import (
	"context"

	"eventchat/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Storage is the durable side of the chat system plus the narrow read views
// consumed from the event collaborator.
type Storage interface {
	// Room membership authority.
	FindOrCreateRoom(eventID, userA, userB string) (*models.ChatRoom, error)
	IsActiveParticipant(roomID, userID string) (bool, error)
	GetRoomByID(roomID string) (*models.ChatRoom, error)
	DeactivateParticipant(roomID, userID string) error
	ListRoomsForUser(userID string) ([]models.RoomSummary, error)

	// Message store.
	AppendMessage(roomID, senderID, receiverID, content, mediaURL string) (*models.Message, error)
	History(roomID, callerID string, page, limit int) ([]models.Message, bool, error)
	MarkRead(messageID uint, callerID string) (*models.Message, error)
	CountUnread(roomID, userID string) (int64, error)
	CountMessages(roomID string) (int64, error)

	// Event collaborator views.
	ResolveEventAuthorization(eventID, userID string) (models.EventAuthorization, error)
	SaveEvent(event *models.Event) error
	AcceptEventParticipant(eventID, userID string) error

	// Users.
	GetUserByID(userID string) (*models.User, error)
	EnsureUser(userID, displayName string) (*models.User, error)

	// Cross-node event bridge.
	PublishEvent(env models.BridgeEnvelope) error
	SubscribeEvents() *redis.PubSub
}

// Service implements Storage over PostgreSQL and Redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}
