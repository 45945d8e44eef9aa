package chathub

import (
	"encoding/json"
	"log/slog"

	"eventchat/backend/internal/chaterr"
	"eventchat/backend/internal/models"
	"eventchat/backend/internal/storage"

	"github.com/go-playground/validator/v10"
)

// Manager owns the realtime side of the chat service: the session registry,
// the broadcast dispatcher and the inbound event handlers. One Manager runs
// per process.
type Manager struct {
	Registry   *Registry
	Dispatcher *Dispatcher
	Storage    storage.Storage

	// NodeID tags bridge envelopes published by this process.
	NodeID string

	validate *validator.Validate
}

func NewManager(s storage.Storage, nodeID string) *Manager {
	registry := NewRegistry()
	return &Manager{
		Registry:   registry,
		Dispatcher: NewDispatcher(registry),
		Storage:    s,
		NodeID:     nodeID,
		validate:   validator.New(),
	}
}

// Register tracks a freshly authenticated session and announces its user as
// online to everyone else. When the user already had a live handle the new
// one replaces it (last connect wins) and no presence is broadcast: the
// user never went offline.
func (m *Manager) Register(c Client) {
	replaced := m.Registry.Register(c)
	if replaced != nil {
		m.Dispatcher.UnsubscribeAll(replaced)
		replaced.Close()
		slog.Info("session handle replaced", "user", c.GetUserID())
		return
	}
	slog.Info("session connected", "user", c.GetUserID())
	m.broadcastPresence(models.EventOnline, c.GetUserID())
}

// Unregister tears the session down. A stale handle (already replaced by a
// newer connect) is closed without touching the registry or presence.
func (m *Manager) Unregister(c Client) {
	m.Dispatcher.UnsubscribeAll(c)
	if m.Registry.Unregister(c) {
		slog.Info("session disconnected", "user", c.GetUserID())
		m.broadcastPresence(models.EventOffline, c.GetUserID())
	}
	c.Close()
}

// broadcastPresence sends online/offline to all other connected sessions
// and mirrors it onto the bridge for sibling processes.
func (m *Manager) broadcastPresence(event, userID string) {
	env, err := models.NewEnvelope(event, models.PresenceEvent{UserID: userID})
	if err != nil {
		slog.Error("presence envelope encoding failed", "err", err)
		return
	}
	for _, other := range m.Registry.Snapshot() {
		if other.GetUserID() != userID {
			trySend(other, env)
		}
	}
	m.publishBridge(models.BridgeEnvelope{Scope: models.BridgeScopeGlobal, Target: userID, Event: env})
}

// HandleEvent demultiplexes one inbound envelope to its handler. It is
// called from the connection's read pump, so a connection's own events are
// handled in the order they were sent. Any failure is reported only to the
// issuing connection; the connection itself stays open.
func (m *Manager) HandleEvent(c Client, env models.Envelope) {
	var err error
	switch env.Event {
	case models.EventJoinRoom:
		err = m.handleJoinRoom(c, env.Data)
	case models.EventLeaveRoom:
		err = m.handleLeaveRoom(c, env.Data)
	case models.EventSendMessage:
		err = m.handleSendMessage(c, env.Data)
	case models.EventMarkAsRead:
		err = m.handleMarkAsRead(c, env.Data)
	case models.EventTyping:
		err = m.handleTyping(c, env.Data, models.EventTyping)
	case models.EventStopTyping:
		err = m.handleTyping(c, env.Data, models.EventStopTyping)
	default:
		err = chaterr.Newf(chaterr.InvalidArgument, "unknown event type %q", env.Event)
	}
	if err != nil {
		m.sendError(c, err)
	}
}

// decode unmarshals and validates an inbound payload.
func (m *Manager) decode(data json.RawMessage, payload any) error {
	if err := json.Unmarshal(data, payload); err != nil {
		return chaterr.Wrap(chaterr.InvalidArgument, "malformed payload", err)
	}
	if err := m.validate.Struct(payload); err != nil {
		return chaterr.Wrap(chaterr.InvalidArgument, "incomplete payload", err)
	}
	return nil
}

// sendError reports a rejected operation to the issuing connection only.
func (m *Manager) sendError(c Client, opErr error) {
	if chaterr.CodeOf(opErr) == chaterr.Internal {
		slog.Error("operation failed", "user", c.GetUserID(), "err", opErr)
	} else {
		slog.Debug("operation rejected", "user", c.GetUserID(), "err", opErr)
	}
	env, err := models.NewEnvelope(models.EventError, models.ErrorEvent{Message: chaterr.ClientMessage(opErr)})
	if err != nil {
		return
	}
	trySend(c, env)
}

// publishBridge mirrors an event to sibling processes. Bridge failures are
// logged and ignored: local delivery never depends on redis.
func (m *Manager) publishBridge(env models.BridgeEnvelope) {
	env.Origin = m.NodeID
	if err := m.Storage.PublishEvent(env); err != nil {
		slog.Warn("bridge publish failed", "scope", env.Scope, "err", err)
	}
}
