package chathub

import (
	"log/slog"
	"sync"

	"eventchat/backend/internal/models"
)

// Dispatcher fans out room-scoped and user-scoped events to connected
// sessions. Delivery is best-effort and at-most-once: a session that is not
// subscribed receives nothing, and a slow session is skipped rather than
// blocking the rest of the group.
//
// Membership is not validated here; callers must already have passed the
// room membership check.
type Dispatcher struct {
	mu    sync.RWMutex
	rooms map[string]map[string]Client

	// roomLocks serializes append+broadcast pairs per room so fan-out
	// order always equals append order.
	roomLocks sync.Map

	registry *Registry
}

func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{
		rooms:    make(map[string]map[string]Client),
		registry: registry,
	}
}

// RoomLock returns the mutex serializing sends for one room.
func (d *Dispatcher) RoomLock(roomID string) *sync.Mutex {
	mu, _ := d.roomLocks.LoadOrStore(roomID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Subscribe adds the session to the room's multicast group.
func (d *Dispatcher) Subscribe(roomID string, c Client) {
	d.mu.Lock()
	defer d.mu.Unlock()
	group, ok := d.rooms[roomID]
	if !ok {
		group = make(map[string]Client)
		d.rooms[roomID] = group
	}
	group[c.GetUserID()] = c
}

// Unsubscribe removes the session from the room's group, but only if it is
// still the subscribed handle for that user.
func (d *Dispatcher) Unsubscribe(roomID string, c Client) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if group, ok := d.rooms[roomID]; ok {
		if current, ok := group[c.GetUserID()]; ok && current == c {
			delete(group, c.GetUserID())
			if len(group) == 0 {
				delete(d.rooms, roomID)
			}
		}
	}
}

// UnsubscribeAll drops the session from every room group.
func (d *Dispatcher) UnsubscribeAll(c Client) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for roomID, group := range d.rooms {
		if current, ok := group[c.GetUserID()]; ok && current == c {
			delete(group, c.GetUserID())
			if len(group) == 0 {
				delete(d.rooms, roomID)
			}
		}
	}
}

// IsSubscribed reports whether the session is in the room's group.
func (d *Dispatcher) IsSubscribed(roomID string, c Client) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	group, ok := d.rooms[roomID]
	if !ok {
		return false
	}
	current, ok := group[c.GetUserID()]
	return ok && current == c
}

// PublishToRoom delivers the envelope to every currently subscribed
// session of the room.
func (d *Dispatcher) PublishToRoom(roomID string, env models.Envelope) {
	d.mu.RLock()
	subscribers := make([]Client, 0, len(d.rooms[roomID]))
	for _, c := range d.rooms[roomID] {
		subscribers = append(subscribers, c)
	}
	d.mu.RUnlock()

	for _, c := range subscribers {
		trySend(c, env)
	}
}

// NotifyUser delivers the envelope directly to the user's registered
// session; silently drops when offline.
func (d *Dispatcher) NotifyUser(userID string, env models.Envelope) bool {
	c, ok := d.registry.Get(userID)
	if !ok {
		return false
	}
	return trySend(c, env)
}

// trySend is a non-blocking channel send. A full buffer means the receiver
// is too slow; the event is dropped for that session only.
func trySend(c Client, env models.Envelope) bool {
	select {
	case c.GetSendChannel() <- env:
		return true
	default:
		slog.Warn("dropping event for slow client", "user", c.GetUserID(), "event", env.Event)
		return false
	}
}
