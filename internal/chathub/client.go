package chathub

import "eventchat/backend/internal/models"

// Client is the interface for any type of connection. It abstracts the
// underlying transport, allowing the hub to manage different client types
// uniformly.
type Client interface {
	// GetUserID returns the authenticated user identity behind the client.
	GetUserID() string

	// GetSendChannel returns the channel the hub writes outbound envelopes
	// to. It is a send-only channel.
	GetSendChannel() chan<- models.Envelope

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the client's outbound channel, stopping its write pump.
	Close()
}
