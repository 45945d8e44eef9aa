package handler

import (
	"net/http"
	"strconv"

	"eventchat/backend/internal/chaterr"
	"eventchat/backend/internal/config"

	"github.com/gin-gonic/gin"
)

// statusOf maps the error taxonomy onto HTTP statuses.
func statusOf(err error) int {
	switch chaterr.CodeOf(err) {
	case chaterr.AuthenticationMissing:
		return http.StatusUnauthorized
	case chaterr.AuthorizationDenied:
		return http.StatusForbidden
	case chaterr.NotFound:
		return http.StatusNotFound
	case chaterr.InvalidArgument:
		return http.StatusBadRequest
	case chaterr.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortWith(c *gin.Context, err error) {
	c.JSON(statusOf(err), gin.H{"error": chaterr.ClientMessage(err)})
}

// Presence returns the identities currently connected to this node.
func (h *Handler) Presence(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"online": h.Hub.Registry.OnlineUsers()})
}

// ListRooms returns the caller's rooms with last-message previews and
// unread counts, most recently active first.
func (h *Handler) ListRooms(c *gin.Context) {
	userID := c.GetString(identityKey)
	rooms, err := h.Storage.ListRoomsForUser(userID)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// OpenRoom finds or creates the room between the caller and a peer for an
// event. Idempotent for a given (event, pair).
func (h *Handler) OpenRoom(c *gin.Context) {
	userID := c.GetString(identityKey)
	var req struct {
		EventID string `json:"eventId" binding:"required"`
		PeerID  string `json:"peerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "eventId and peerId are required"})
		return
	}
	room, err := h.Storage.FindOrCreateRoom(req.EventID, userID, req.PeerID)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room})
}

// History serves one page of a room's messages for the initial chat-window
// load. Reading a page flips the caller's unread flags, same as the
// realtime path.
func (h *Handler) History(c *gin.Context) {
	userID := c.GetString(identityKey)
	roomID := c.Param("id")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(config.DefaultPageLimit)))

	messages, hasMore, err := h.Storage.History(roomID, userID, page, limit)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"hasMore":  hasMore,
		"page":     page,
	})
}
