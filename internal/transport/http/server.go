package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/livesteno/livesteno-server/internal/broadcast"
	"github.com/livesteno/livesteno-server/internal/config"
	"github.com/livesteno/livesteno-server/internal/roomstate"
	"github.com/livesteno/livesteno-server/internal/steno"
)

// NewServer builds the HTTP server: room-state read/write for polling
// viewers, the WebSocket bridge for same-device tabs, and a health probe.
func NewServer(hub *broadcast.Hub, rooms *steno.Rooms, store roomstate.Store, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	roomHandlers := NewRoomHandlers(store, logger)
	router.GET("/api/room", roomHandlers.GetRoom)
	router.POST("/api/room", roomHandlers.UpdateRoom)
	router.GET("/api/room/transcript", NewTranscriptHandler(rooms, logger))

	wsHandler := NewWSHandler(hub, rooms, logger)
	router.GET("/ws", gin.WrapH(wsHandler))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
