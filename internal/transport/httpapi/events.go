package httpapi

import (
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"

	"github.com/linewire/linechat-server/internal/core"
)

// FeedEvent is the JSON shape of one event on the /ws/events feed.
type FeedEvent struct {
	Type    string          `json:"type"`
	Clients []string        `json:"clients,omitempty"`
	Rooms   []core.RoomInfo `json:"rooms,omitempty"`
	Line    string          `json:"line,omitempty"`
	TS      int64           `json:"ts"`
}

const (
	FeedClientListChanged = "client_list_changed"
	FeedRoomListChanged   = "room_list_changed"
	FeedLogLine           = "log_line"
)

func feedEventFrom(ev *core.Event) FeedEvent {
	out := FeedEvent{TS: ev.At.Unix()}
	switch ev.Kind {
	case core.EventClientListChanged:
		out.Type = FeedClientListChanged
		out.Clients = ev.Clients
	case core.EventRoomListChanged:
		out.Type = FeedRoomListChanged
		out.Rooms = ev.Rooms
	case core.EventLogLine:
		out.Type = FeedLogLine
		out.Line = ev.Line
	}
	return out
}

// Events streams hub state changes to a dashboard subscriber.
// GET /ws/events
func (h *Handlers) Events(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	// The feed is write-only; CloseRead surfaces peer disconnects.
	ctx := conn.CloseRead(c.Request.Context())

	sub := h.bus.Subscribe()
	defer h.bus.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "closing")
			return
		case ev, ok := <-sub:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "closing")
				return
			}
			if err := wsjson.Write(ctx, conn, feedEventFrom(ev)); err != nil {
				h.log.Warn().Err(err).Msg("write feed event")
				return
			}
		}
	}
}
