package chathub_test

import (
	"fmt"
	"testing"

	"eventchat/backend/internal/chathub"
	"eventchat/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func testEnvelope(event string) models.Envelope {
	return models.Envelope{Event: event}
}

func TestDispatcher_PublishToRoom(t *testing.T) {
	registry := chathub.NewRegistry()
	d := chathub.NewDispatcher(registry)

	a := newMockClient("user_A")
	b := newMockClient("user_B")
	outsider := newMockClient("user_C")

	d.Subscribe("room1", a)
	d.Subscribe("room1", b)

	d.PublishToRoom("room1", testEnvelope("newMessage"))

	assert.Equal(t, "newMessage", a.receive(t).Event)
	assert.Equal(t, "newMessage", b.receive(t).Event)
	outsider.receiveNone(t)
}

func TestDispatcher_UnsubscribeStopsDelivery(t *testing.T) {
	d := chathub.NewDispatcher(chathub.NewRegistry())
	a := newMockClient("user_A")

	d.Subscribe("room1", a)
	d.Unsubscribe("room1", a)

	d.PublishToRoom("room1", testEnvelope("newMessage"))
	a.receiveNone(t)
}

func TestDispatcher_DeliveryOrderMatchesPublishOrder(t *testing.T) {
	d := chathub.NewDispatcher(chathub.NewRegistry())
	a := newMockClient("user_A")
	d.Subscribe("room1", a)

	for i := 0; i < 10; i++ {
		d.PublishToRoom("room1", testEnvelope(fmt.Sprintf("msg_%d", i)))
	}
	for i := 0; i < 10; i++ {
		assert.Equal(t, fmt.Sprintf("msg_%d", i), a.receive(t).Event)
	}
}

func TestDispatcher_SlowClientIsSkippedNotBlocking(t *testing.T) {
	d := chathub.NewDispatcher(chathub.NewRegistry())

	slow := &mockClient{userID: "user_slow", Recv: make(chan models.Envelope)} // unbuffered, nobody reading
	healthy := newMockClient("user_B")

	d.Subscribe("room1", slow)
	d.Subscribe("room1", healthy)

	// Must return without blocking on the slow client.
	d.PublishToRoom("room1", testEnvelope("newMessage"))

	assert.Equal(t, "newMessage", healthy.receive(t).Event)
}

func TestDispatcher_NotifyUser(t *testing.T) {
	registry := chathub.NewRegistry()
	d := chathub.NewDispatcher(registry)

	a := newMockClient("user_A")
	registry.Register(a)

	assert.True(t, d.NotifyUser("user_A", testEnvelope("typing")))
	assert.Equal(t, "typing", a.receive(t).Event)

	// Offline target: silently dropped.
	assert.False(t, d.NotifyUser("user_gone", testEnvelope("typing")))
}

func TestDispatcher_UnsubscribeAll(t *testing.T) {
	d := chathub.NewDispatcher(chathub.NewRegistry())
	a := newMockClient("user_A")

	d.Subscribe("room1", a)
	d.Subscribe("room2", a)
	d.UnsubscribeAll(a)

	d.PublishToRoom("room1", testEnvelope("newMessage"))
	d.PublishToRoom("room2", testEnvelope("newMessage"))
	a.receiveNone(t)
}

func TestDispatcher_ReplacedHandleCannotUnsubscribeSuccessor(t *testing.T) {
	d := chathub.NewDispatcher(chathub.NewRegistry())
	old := newMockClient("user_A")
	fresh := newMockClient("user_A")

	d.Subscribe("room1", old)
	d.Subscribe("room1", fresh) // replaces old in the group

	d.Unsubscribe("room1", old) // stale handle, must be a no-op
	assert.True(t, d.IsSubscribed("room1", fresh))
}
