package chathub_test

import (
	"encoding/json"
	"testing"
	"time"

	"eventchat/backend/internal/models"
)

// mockClient is a test double for the chathub.Client interface with a
// buffered channel tests can drain to observe delivered events.
type mockClient struct {
	userID string
	Recv   chan models.Envelope
	closed bool
}

func newMockClient(id string) *mockClient {
	return &mockClient{
		userID: id,
		Recv:   make(chan models.Envelope, 16), // buffered to prevent blocking in tests
	}
}

func (c *mockClient) GetUserID() string                      { return c.userID }
func (c *mockClient) GetSendChannel() chan<- models.Envelope { return c.Recv }
func (c *mockClient) Run()                                   {}
func (c *mockClient) Close()                                 { c.closed = true }

// receive pops the next delivered envelope or fails the test.
func (c *mockClient) receive(t *testing.T) models.Envelope {
	t.Helper()
	select {
	case env := <-c.Recv:
		return env
	case <-time.After(time.Second):
		t.Fatalf("client %s received no event", c.userID)
		return models.Envelope{}
	}
}

// receiveNone asserts nothing was delivered.
func (c *mockClient) receiveNone(t *testing.T) {
	t.Helper()
	select {
	case env := <-c.Recv:
		t.Fatalf("client %s unexpectedly received %s", c.userID, env.Event)
	default:
	}
}

// decodePayload unmarshals an envelope's data into out.
func decodePayload(t *testing.T, env models.Envelope, out any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("failed to decode %s payload: %v", env.Event, err)
	}
}

// envelope builds an inbound envelope for handler tests.
func envelope(t *testing.T, event string, payload any) models.Envelope {
	t.Helper()
	env, err := models.NewEnvelope(event, payload)
	if err != nil {
		t.Fatalf("failed to build %s envelope: %v", event, err)
	}
	return env
}
