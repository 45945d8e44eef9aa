package storage

import (
	"errors"
	"time"

	"eventchat/backend/internal/chaterr"
	"eventchat/backend/internal/config"
	"eventchat/backend/internal/models"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// CanonicalPair orders two user ids lexicographically so (A,B) and (B,A)
// resolve to the same room key.
func CanonicalPair(x, y string) (string, string) {
	if x > y {
		return y, x
	}
	return x, y
}

// FindOrCreateRoom validates both users against the event and returns the
// room for the pair, creating it (with its two participant rows) on first
// use. Idempotent: concurrent calls for the same pair converge on one room
// via the (event_id, user_a_id, user_b_id) unique index.
func (s *Service) FindOrCreateRoom(eventID, userA, userB string) (*models.ChatRoom, error) {
	if userA == userB {
		return nil, chaterr.New(chaterr.InvalidArgument, "a room needs two distinct users")
	}

	for _, userID := range []string{userA, userB} {
		auth, err := s.ResolveEventAuthorization(eventID, userID)
		if err != nil {
			return nil, err
		}
		if !auth.Authorized() {
			return nil, chaterr.Newf(chaterr.AuthorizationDenied, "user %s is not authorized for event %s", userID, eventID)
		}
	}

	a, b := CanonicalPair(userA, userB)

	var room models.ChatRoom
	err := s.DB.Where("event_id = ? AND user_a_id = ? AND user_b_id = ?", eventID, a, b).First(&room).Error
	if err == nil {
		return &room, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, chaterr.Wrap(chaterr.Internal, "room lookup failed", err)
	}

	room = models.ChatRoom{
		EventID:       eventID,
		UserAID:       a,
		UserBID:       b,
		LastMessageAt: time.Now(),
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&room).Error; err != nil {
			return err
		}
		now := time.Now()
		participants := []models.RoomParticipant{
			{RoomID: room.RoomID, UserID: a, IsActive: true, JoinedAt: now},
			{RoomID: room.RoomID, UserID: b, IsActive: true, JoinedAt: now},
		}
		return tx.Create(&participants).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the race; the winner's room is the room.
		var existing models.ChatRoom
		if ferr := s.DB.Where("event_id = ? AND user_a_id = ? AND user_b_id = ?", eventID, a, b).First(&existing).Error; ferr != nil {
			return nil, chaterr.Wrap(chaterr.Conflict, "concurrent room creation could not be resolved", ferr)
		}
		return &existing, nil
	}
	if err != nil {
		return nil, chaterr.Wrap(chaterr.Internal, "room creation failed", err)
	}
	return &room, nil
}

// IsActiveParticipant gates every send/read/typing operation on a room.
func (s *Service) IsActiveParticipant(roomID, userID string) (bool, error) {
	var n int64
	err := s.DB.Model(&models.RoomParticipant{}).
		Where("room_id = ? AND user_id = ? AND is_active = ?", roomID, userID, true).
		Count(&n).Error
	if err != nil {
		return false, chaterr.Wrap(chaterr.Internal, "participant lookup failed", err)
	}
	return n > 0, nil
}

func (s *Service) GetRoomByID(roomID string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := s.DB.Where("room_id = ?", roomID).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, chaterr.Newf(chaterr.NotFound, "room %s not found", roomID)
	}
	if err != nil {
		return nil, chaterr.Wrap(chaterr.Internal, "room lookup failed", err)
	}
	return &room, nil
}

// DeactivateParticipant soft-deactivates a member; the row is kept.
func (s *Service) DeactivateParticipant(roomID, userID string) error {
	res := s.DB.Model(&models.RoomParticipant{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Update("is_active", false)
	if res.Error != nil {
		return chaterr.Wrap(chaterr.Internal, "participant update failed", res.Error)
	}
	if res.RowsAffected == 0 {
		return chaterr.Newf(chaterr.NotFound, "no participant %s in room %s", userID, roomID)
	}
	return nil
}

// ListRoomsForUser returns the caller's rooms, most recently active first,
// each with its last message and the caller's unread count.
func (s *Service) ListRoomsForUser(userID string) ([]models.RoomSummary, error) {
	var rooms []models.ChatRoom
	err := s.DB.
		Joins("JOIN room_participants rp ON rp.room_id = chat_rooms.room_id").
		Where("rp.user_id = ? AND rp.is_active = ?", userID, true).
		Order("chat_rooms.last_message_at DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, chaterr.Wrap(chaterr.Internal, "room listing failed", err)
	}

	summaries := lo.Map(rooms, func(room models.ChatRoom, _ int) models.RoomSummary {
		summary := models.RoomSummary{Room: room, PeerID: room.PeerOf(userID)}

		var last models.Message
		if err := s.DB.Where("room_id = ?", room.RoomID).
			Order("created_at DESC, id DESC").First(&last).Error; err == nil {
			last.Content = models.Preview(last.Content, config.NotificationPreviewLen)
			summary.LastMessage = &last
		}
		if n, err := s.CountUnread(room.RoomID, userID); err == nil {
			summary.UnreadCount = n
		}
		return summary
	})
	return summaries, nil
}
