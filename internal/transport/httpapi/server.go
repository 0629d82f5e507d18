package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/linewire/linechat-server/internal/config"
	"github.com/linewire/linechat-server/internal/core"
	"github.com/linewire/linechat-server/internal/store"
)

// NewServer builds the HTTP server backing the operator dashboard: REST
// snapshots of hub state plus a websocket event feed.
func NewServer(hub *core.Hub, bus *core.Bus, st store.Store, cfg config.Config, logger *zerolog.Logger) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(hub, bus, st, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// NewRouter wires dashboard routes into a gin engine.
func NewRouter(hub *core.Hub, bus *core.Bus, st store.Store, logger *zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	h := &Handlers{hub: hub, bus: bus, store: st, log: logger}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", h.Health)
	router.GET("/api/clients", h.ListClients)
	router.GET("/api/rooms", h.ListRooms)
	router.GET("/api/uploads", h.ListUploads)
	router.GET("/ws/events", h.Events)

	return router
}
