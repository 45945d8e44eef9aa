package chathub_test

import (
	"eventchat/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

// MockStorage is a mock implementation of the storage.Storage interface.
// It uses testify/mock to allow flexible expectation setting in tests.
type MockStorage struct {
	mock.Mock
}

// Room membership authority.

func (m *MockStorage) FindOrCreateRoom(eventID, userA, userB string) (*models.ChatRoom, error) {
	args := m.Called(eventID, userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatRoom), args.Error(1)
}

func (m *MockStorage) IsActiveParticipant(roomID, userID string) (bool, error) {
	args := m.Called(roomID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) GetRoomByID(roomID string) (*models.ChatRoom, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatRoom), args.Error(1)
}

func (m *MockStorage) DeactivateParticipant(roomID, userID string) error {
	args := m.Called(roomID, userID)
	return args.Error(0)
}

func (m *MockStorage) ListRoomsForUser(userID string) ([]models.RoomSummary, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RoomSummary), args.Error(1)
}

// Message store.

func (m *MockStorage) AppendMessage(roomID, senderID, receiverID, content, mediaURL string) (*models.Message, error) {
	args := m.Called(roomID, senderID, receiverID, content, mediaURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockStorage) History(roomID, callerID string, page, limit int) ([]models.Message, bool, error) {
	args := m.Called(roomID, callerID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]models.Message), args.Bool(1), args.Error(2)
}

func (m *MockStorage) MarkRead(messageID uint, callerID string) (*models.Message, error) {
	args := m.Called(messageID, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockStorage) CountUnread(roomID, userID string) (int64, error) {
	args := m.Called(roomID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) CountMessages(roomID string) (int64, error) {
	args := m.Called(roomID)
	return args.Get(0).(int64), args.Error(1)
}

// Event collaborator views.

func (m *MockStorage) ResolveEventAuthorization(eventID, userID string) (models.EventAuthorization, error) {
	args := m.Called(eventID, userID)
	return args.Get(0).(models.EventAuthorization), args.Error(1)
}

func (m *MockStorage) SaveEvent(event *models.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockStorage) AcceptEventParticipant(eventID, userID string) error {
	args := m.Called(eventID, userID)
	return args.Error(0)
}

// Users.

func (m *MockStorage) GetUserByID(userID string) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) EnsureUser(userID, displayName string) (*models.User, error) {
	args := m.Called(userID, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// Bridge.

func (m *MockStorage) PublishEvent(env models.BridgeEnvelope) error {
	args := m.Called(env)
	return args.Error(0)
}

func (m *MockStorage) SubscribeEvents() *redis.PubSub {
	args := m.Called()
	return args.Get(0).(*redis.PubSub)
}
