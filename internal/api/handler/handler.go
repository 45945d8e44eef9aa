package handler

import (
	"eventchat/backend/internal/chathub"
	"eventchat/backend/internal/storage"
)

// Handler holds the HTTP-facing dependencies.
type Handler struct {
	Hub     *chathub.Manager
	Storage storage.Storage
	Tokens  *TokenService
}

func NewHandler(hub *chathub.Manager, s storage.Storage, tokens *TokenService) *Handler {
	return &Handler{Hub: hub, Storage: s, Tokens: tokens}
}
