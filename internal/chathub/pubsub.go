package chathub

import (
	"encoding/json"
	"log/slog"

	"eventchat/backend/internal/models"
)

// Run consumes the redis bridge and replays events published by sibling
// processes into this node's local sessions. Envelopes this node published
// itself are dropped by origin.
func (m *Manager) Run() {
	pubsub := m.Storage.SubscribeEvents()
	defer pubsub.Close()

	slog.Info("bridge listener started", "node", m.NodeID)

	for msg := range pubsub.Channel() {
		var env models.BridgeEnvelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			slog.Warn("dropping malformed bridge envelope", "err", err)
			continue
		}
		if env.Origin == m.NodeID {
			continue
		}
		m.deliverRemote(env)
	}
}

// deliverRemote hands a remote-origin envelope to the local dispatcher.
// Nothing is re-published: each node bridges only its own events.
func (m *Manager) deliverRemote(env models.BridgeEnvelope) {
	switch env.Scope {
	case models.BridgeScopeRoom:
		m.Dispatcher.PublishToRoom(env.Target, env.Event)
	case models.BridgeScopeUser:
		m.Dispatcher.NotifyUser(env.Target, env.Event)
	case models.BridgeScopeGlobal:
		for _, c := range m.Registry.Snapshot() {
			if c.GetUserID() != env.Target {
				trySend(c, env.Event)
			}
		}
	default:
		slog.Warn("dropping bridge envelope with unknown scope", "scope", env.Scope)
	}
}
