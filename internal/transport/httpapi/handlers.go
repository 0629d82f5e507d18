package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/linewire/linechat-server/internal/core"
	"github.com/linewire/linechat-server/internal/store"
)

// Handlers provides HTTP handlers for the dashboard endpoints.
type Handlers struct {
	hub   *core.Hub
	bus   *core.Bus
	store store.Store
	log   *zerolog.Logger
}

// ClientsResponse is the body of GET /api/clients.
type ClientsResponse struct {
	Clients []string `json:"clients"`
}

// RoomsResponse is the body of GET /api/rooms.
type RoomsResponse struct {
	Rooms []core.RoomInfo `json:"rooms"`
}

// UploadEntry is one row of GET /api/uploads.
type UploadEntry struct {
	ID        int64     `json:"id"`
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	Uploader  string    `json:"uploader"`
	CreatedAt time.Time `json:"created_at"`
}

// UploadsResponse is the body of GET /api/uploads.
type UploadsResponse struct {
	Uploads []UploadEntry `json:"uploads"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Health reports liveness.
// GET /healthz
func (h *Handlers) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// ListClients returns the connected display names.
// GET /api/clients
func (h *Handlers) ListClients(c *gin.Context) {
	names := h.hub.Users()
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, ClientsResponse{Clients: names})
}

// ListRooms returns rooms with member counts.
// GET /api/rooms
func (h *Handlers) ListRooms(c *gin.Context) {
	rooms := h.hub.ListRooms()
	if rooms == nil {
		rooms = []core.RoomInfo{}
	}
	c.JSON(http.StatusOK, RoomsResponse{Rooms: rooms})
}

// ListUploads returns the most recent upload records.
// GET /api/uploads?limit=N
func (h *Handlers) ListUploads(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusOK, UploadsResponse{Uploads: []UploadEntry{}})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	ups, err := h.store.ListUploads(c.Request.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("list uploads")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list uploads"})
		return
	}

	entries := make([]UploadEntry, 0, len(ups))
	for _, up := range ups {
		entries = append(entries, UploadEntry{
			ID:        up.ID,
			Filename:  up.Filename,
			Size:      up.Size,
			Uploader:  up.Uploader,
			CreatedAt: up.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, UploadsResponse{Uploads: entries})
}
