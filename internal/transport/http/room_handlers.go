package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/livesteno/livesteno-server/internal/roomstate"
	"github.com/livesteno/livesteno-server/internal/steno"
)

// RoomHandlers serves the remote-channel room state endpoint that
// cross-device viewers poll and the authoring side writes to.
type RoomHandlers struct {
	store roomstate.Store
	log   *zerolog.Logger
}

// NewRoomHandlers creates the handlers around the injected store.
func NewRoomHandlers(store roomstate.Store, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{store: store, log: logger}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UpdateRoomRequest is a partial room-state write; absent fields keep their
// stored value.
type UpdateRoomRequest struct {
	RoomID string `json:"roomId"`
	roomstate.Patch
}

// UpdateRoomResponse acknowledges a write with the new update time.
type UpdateRoomResponse struct {
	OK        bool  `json:"ok"`
	UpdatedAt int64 `json:"updatedAt"`
}

// GetRoom returns the current snapshot for a room, or empty defaults if the
// room has never been written. Responses must never be cached along the way;
// polling only works against fresh reads.
// GET /api/room?roomId=xxx
func (h *RoomHandlers) GetRoom(c *gin.Context) {
	roomID := c.Query("roomId")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing roomId"})
		return
	}

	snap, err := h.store.Get(c.Request.Context(), roomID)
	if err != nil {
		h.log.Error().Err(err).Str("room", roomID).Msg("failed to read room state")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, snap)
}

// UpdateRoom merges the provided fields over the prior room state and stamps
// a fresh update time.
// POST /api/room
func (h *RoomHandlers) UpdateRoom(c *gin.Context) {
	var req UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid room state write")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.RoomID == "" {
		req.RoomID = c.Query("roomId")
	}
	if req.RoomID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing roomId"})
		return
	}

	updatedAt, err := h.store.Put(c.Request.Context(), req.RoomID, req.Patch)
	if err != nil {
		h.log.Error().Err(err).Str("room", req.RoomID).Msg("failed to write room state")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, UpdateRoomResponse{OK: true, UpdatedAt: updatedAt})
}

// NewTranscriptHandler serves the room history as a plain-text transcript.
// GET /api/room/transcript?roomId=xxx
func NewTranscriptHandler(rooms *steno.Rooms, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Query("roomId")
		if roomID == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing roomId"})
			return
		}
		transcript := rooms.Get(roomID).Transcript()
		logger.Debug().Str("room", roomID).Int("bytes", len(transcript)).Msg("transcript exported")
		c.Header("Content-Disposition", `attachment; filename="steno-session-`+roomID+`.txt"`)
		c.String(http.StatusOK, transcript)
	}
}
