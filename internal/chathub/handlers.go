package chathub

import (
	"encoding/json"

	"eventchat/backend/internal/chaterr"
	"eventchat/backend/internal/config"
	"eventchat/backend/internal/models"
)

// handleJoinRoom validates room membership and subscribes the session to
// the room's multicast group.
func (m *Manager) handleJoinRoom(c Client, data json.RawMessage) error {
	var payload models.JoinRoomPayload
	if err := m.decode(data, &payload); err != nil {
		return err
	}
	active, err := m.Storage.IsActiveParticipant(payload.RoomID, c.GetUserID())
	if err != nil {
		return err
	}
	if !active {
		return chaterr.New(chaterr.AuthorizationDenied, "not an active participant of the room")
	}
	m.Dispatcher.Subscribe(payload.RoomID, c)
	return nil
}

func (m *Manager) handleLeaveRoom(c Client, data json.RawMessage) error {
	var payload models.JoinRoomPayload
	if err := m.decode(data, &payload); err != nil {
		return err
	}
	m.Dispatcher.Unsubscribe(payload.RoomID, c)
	return nil
}

// handleSendMessage durably appends the message and only then fans it out:
// a newMessage broadcast to the room group and, when the receiver is
// online, a compact messageNotification on their personal channel. The
// append and the broadcast run under the room lock so fan-out order equals
// append order.
func (m *Manager) handleSendMessage(c Client, data json.RawMessage) error {
	var payload models.SendMessagePayload
	if err := m.decode(data, &payload); err != nil {
		return err
	}

	sender, err := m.Storage.GetUserByID(c.GetUserID())
	if err != nil {
		return err
	}
	receiver, err := m.Storage.GetUserByID(payload.ReceiverID)
	if err != nil {
		return err
	}

	// The lock covers only the local append+fan-out pair: that is what
	// makes fan-out order equal append order. The bridge publish is a
	// network call with no cross-node ordering guarantee, so it runs
	// after the lock is released.
	lock := m.Dispatcher.RoomLock(payload.RoomID)
	lock.Lock()

	msg, err := m.Storage.AppendMessage(payload.RoomID, c.GetUserID(), payload.ReceiverID, payload.Content, payload.MediaURL)
	if err != nil {
		lock.Unlock()
		return err
	}

	roomEnv, err := models.NewEnvelope(models.EventNewMessage, models.NewMessageEvent{
		ID:         msg.ID,
		RoomID:     msg.RoomID,
		Content:    msg.Content,
		MediaURL:   msg.MediaURL,
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		Sender:     *sender,
		Receiver:   *receiver,
		IsRead:     msg.IsRead,
		CreatedAt:  msg.CreatedAt,
	})
	if err != nil {
		lock.Unlock()
		return chaterr.Wrap(chaterr.Internal, "event encoding failed", err)
	}
	m.Dispatcher.PublishToRoom(msg.RoomID, roomEnv)
	lock.Unlock()

	m.publishBridge(models.BridgeEnvelope{Scope: models.BridgeScopeRoom, Target: msg.RoomID, Event: roomEnv})

	notifyEnv, err := models.NewEnvelope(models.EventMessageNotification, models.MessageNotification{
		RoomID:     msg.RoomID,
		SenderID:   msg.SenderID,
		SenderName: sender.DisplayName,
		Content:    models.Preview(msg.Content, config.NotificationPreviewLen),
	})
	if err != nil {
		return chaterr.Wrap(chaterr.Internal, "event encoding failed", err)
	}
	m.Dispatcher.NotifyUser(msg.ReceiverID, notifyEnv)
	m.publishBridge(models.BridgeEnvelope{Scope: models.BridgeScopeUser, Target: msg.ReceiverID, Event: notifyEnv})
	return nil
}

// handleMarkAsRead flips a single read flag; the ack goes to the caller only.
func (m *Manager) handleMarkAsRead(c Client, data json.RawMessage) error {
	var payload models.MarkAsReadPayload
	if err := m.decode(data, &payload); err != nil {
		return err
	}
	msg, err := m.Storage.MarkRead(payload.MessageID, c.GetUserID())
	if err != nil {
		return err
	}
	env, err := models.NewEnvelope(models.EventMessageRead, models.MessageReadEvent{MessageID: msg.ID})
	if err != nil {
		return chaterr.Wrap(chaterr.Internal, "event encoding failed", err)
	}
	trySend(c, env)
	return nil
}

// handleTyping forwards a typing/stopTyping signal to the receiver's
// personal channel. Nothing is persisted and no membership re-check is
// made beyond the authenticated session.
func (m *Manager) handleTyping(c Client, data json.RawMessage, event string) error {
	var payload models.TypingPayload
	if err := m.decode(data, &payload); err != nil {
		return err
	}
	env, err := models.NewEnvelope(event, models.TypingEvent{
		RoomID:     payload.RoomID,
		FromUserID: c.GetUserID(),
	})
	if err != nil {
		return chaterr.Wrap(chaterr.Internal, "event encoding failed", err)
	}
	m.Dispatcher.NotifyUser(payload.ReceiverID, env)
	m.publishBridge(models.BridgeEnvelope{Scope: models.BridgeScopeUser, Target: payload.ReceiverID, Event: env})
	return nil
}
