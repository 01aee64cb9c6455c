package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/codechat/internal/core"
)

// RoomHandlers provides read-only HTTP handlers for live rooms.
type RoomHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(hub *core.Hub, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		hub: hub,
		log: logger,
	}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// RoomResponse describes who is in a room right now.
type RoomResponse struct {
	Code      string   `json:"code"`
	Members   []string `json:"members"`
	Count     int      `json:"count"`
	CreatedAt string   `json:"created_at"`
}

// GetRoom handles presence lookup for one room.
// GET /api/rooms/:code
func (h *RoomHandlers) GetRoom(c *gin.Context) {
	code, err := h.hub.Registry().Normalize(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: core.CodeOf(err)})
		return
	}

	info, ok := h.hub.Lookup(code)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
		return
	}

	members := info.Members
	if members == nil {
		members = []string{}
	}
	h.log.Debug().Str("room", code).Int("count", len(members)).Msg("room looked up")
	c.JSON(http.StatusOK, RoomResponse{
		Code:      info.Code,
		Members:   members,
		Count:     len(members),
		CreatedAt: info.CreatedAt.Format(time.RFC3339),
	})
}

// Stats returns runtime counters.
// GET /api/stats
func (h *RoomHandlers) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.hub.Stats())
}
