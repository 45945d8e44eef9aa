package models_test

import (
	"testing"

	"eventchat/backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestUserBeforeCreate_GeneratesUUID verifies that the BeforeCreate hook generates a valid UUID.
func TestUserBeforeCreate_GeneratesUUID(t *testing.T) {
	user := &models.User{DisplayName: "Alice"}
	assert.Empty(t, user.ID)

	err := user.BeforeCreate(nil) // nil *gorm.DB is acceptable for this hook
	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)

	_, parseErr := uuid.Parse(user.ID)
	assert.NoError(t, parseErr, "User ID must be a valid UUID string")
}

// TestUserBeforeCreate_PreservesExistingID verifies that the hook doesn't overwrite an existing ID.
func TestUserBeforeCreate_PreservesExistingID(t *testing.T) {
	existingID := uuid.New().String()
	user := &models.User{ID: existingID, DisplayName: "Bob"}

	err := user.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.Equal(t, existingID, user.ID)
}

func TestChatRoomPeerOf(t *testing.T) {
	room := models.ChatRoom{UserAID: "user_A", UserBID: "user_B"}
	assert.Equal(t, "user_B", room.PeerOf("user_A"))
	assert.Equal(t, "user_A", room.PeerOf("user_B"))
}

func TestEventAuthorization_Authorized(t *testing.T) {
	assert.True(t, models.EventAuthorization{IsHost: true}.Authorized())
	assert.True(t, models.EventAuthorization{IsParticipant: true}.Authorized())
	assert.False(t, models.EventAuthorization{}.Authorized())
}
