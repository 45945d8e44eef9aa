package storage

import (
	"errors"

	"eventchat/backend/internal/chaterr"
	"eventchat/backend/internal/config"
	"eventchat/backend/internal/models"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// AppendMessage durably appends a message and bumps the room's last-activity
// timestamp in one transaction. Both sender and receiver must be active
// participants of the room; a failed write leaves neither effect applied.
func (s *Service) AppendMessage(roomID, senderID, receiverID, content, mediaURL string) (*models.Message, error) {
	if content == "" {
		return nil, chaterr.New(chaterr.InvalidArgument, "message content must not be empty")
	}
	if senderID == receiverID {
		return nil, chaterr.New(chaterr.InvalidArgument, "sender and receiver must differ")
	}

	msg := models.Message{
		RoomID:     roomID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		MediaURL:   mediaURL,
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.RoomParticipant{}).
			Where("room_id = ? AND user_id IN ? AND is_active = ?", roomID, []string{senderID, receiverID}, true).
			Count(&n).Error; err != nil {
			return chaterr.Wrap(chaterr.Internal, "participant check failed", err)
		}
		if n != 2 {
			var rooms int64
			if err := tx.Model(&models.ChatRoom{}).Where("room_id = ?", roomID).Count(&rooms).Error; err != nil {
				return chaterr.Wrap(chaterr.Internal, "room lookup failed", err)
			}
			if rooms == 0 {
				return chaterr.Newf(chaterr.NotFound, "room %s not found", roomID)
			}
			return chaterr.New(chaterr.AuthorizationDenied, "sender and receiver must both be active participants of the room")
		}
		if err := tx.Create(&msg).Error; err != nil {
			return chaterr.Wrap(chaterr.Internal, "message append failed", err)
		}
		if err := tx.Model(&models.ChatRoom{}).
			Where("room_id = ?", roomID).
			Update("last_message_at", msg.CreatedAt).Error; err != nil {
			return chaterr.Wrap(chaterr.Internal, "room activity update failed", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// History returns one page of a room's log, oldest to newest within the
// page; page 1 is the most recent window. Every returned message addressed
// to the caller and still unread is flipped to read in the same transaction.
func (s *Service) History(roomID, callerID string, page, limit int) ([]models.Message, bool, error) {
	active, err := s.IsActiveParticipant(roomID, callerID)
	if err != nil {
		return nil, false, err
	}
	if !active {
		// A bad room id is NotFound, not a denial.
		if _, err := s.GetRoomByID(roomID); err != nil {
			return nil, false, err
		}
		return nil, false, chaterr.New(chaterr.AuthorizationDenied, "caller is not an active participant of the room")
	}

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = config.DefaultPageLimit
	}
	if limit > config.MaxPageLimit {
		limit = config.MaxPageLimit
	}

	var messages []models.Message
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", roomID).
			Order("created_at DESC, id DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&messages).Error; err != nil {
			return chaterr.Wrap(chaterr.Internal, "history fetch failed", err)
		}

		// Read-receipt-on-view: flip what the caller just saw.
		unreadIDs := lo.FilterMap(messages, func(m models.Message, _ int) (uint, bool) {
			return m.ID, m.ReceiverID == callerID && !m.IsRead
		})
		if len(unreadIDs) > 0 {
			if err := tx.Model(&models.Message{}).
				Where("id IN ?", unreadIDs).
				Update("is_read", true).Error; err != nil {
				return chaterr.Wrap(chaterr.Internal, "read receipt update failed", err)
			}
			for i := range messages {
				if messages[i].ReceiverID == callerID {
					messages[i].IsRead = true
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	hasMore := len(messages) == limit
	lo.Reverse(messages)
	return messages, hasMore, nil
}

// MarkRead sets the read flag of a single message. Only the receiver may do
// so; marking an already-read message is a no-op.
func (s *Service) MarkRead(messageID uint, callerID string) (*models.Message, error) {
	var msg models.Message
	err := s.DB.First(&msg, messageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, chaterr.Newf(chaterr.NotFound, "message %d not found", messageID)
	}
	if err != nil {
		return nil, chaterr.Wrap(chaterr.Internal, "message lookup failed", err)
	}
	if msg.ReceiverID != callerID {
		return nil, chaterr.New(chaterr.AuthorizationDenied, "only the receiver may mark a message read")
	}
	if msg.IsRead {
		return &msg, nil
	}
	if err := s.DB.Model(&msg).Update("is_read", true).Error; err != nil {
		return nil, chaterr.Wrap(chaterr.Internal, "read flag update failed", err)
	}
	msg.IsRead = true
	return &msg, nil
}

// CountUnread counts messages in the room addressed to userID and not yet read.
func (s *Service) CountUnread(roomID, userID string) (int64, error) {
	var n int64
	err := s.DB.Model(&models.Message{}).
		Where("room_id = ? AND receiver_id = ? AND is_read = ?", roomID, userID, false).
		Count(&n).Error
	if err != nil {
		return 0, chaterr.Wrap(chaterr.Internal, "unread count failed", err)
	}
	return n, nil
}

// CountMessages counts all messages in a room.
func (s *Service) CountMessages(roomID string) (int64, error) {
	var n int64
	err := s.DB.Model(&models.Message{}).Where("room_id = ?", roomID).Count(&n).Error
	if err != nil {
		return 0, chaterr.Wrap(chaterr.Internal, "message count failed", err)
	}
	return n, nil
}
