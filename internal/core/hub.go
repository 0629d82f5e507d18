package core

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// DefaultRoom is the room every client is placed into after the handshake.
// Like any other room it is deleted when its last member leaves and is
// recreated on the next join.
const DefaultRoom = "main"

// Hub owns the client directory and the room registry. All mutation goes
// through its methods so the invariants (unique names, single-room
// membership, no empty rooms) are enforced in one place. Connection
// handlers run on their own goroutines, so every operation takes the lock.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
	names   map[string]*Client
	rooms   map[string]map[*Client]struct{}
	current map[*Client]string

	bus *Bus
	log *zerolog.Logger
}

// NewHub constructs a hub publishing state changes to bus.
func NewHub(bus *Bus, logger *zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		names:   make(map[string]*Client),
		rooms:   make(map[string]map[*Client]struct{}),
		current: make(map[*Client]string),
		bus:     bus,
		log:     logger,
	}
}

// Register adds a client to the directory and auto-joins it to the default
// room. Fails if the name is empty or already taken; a failed registration
// leaves no trace in the hub.
func (h *Hub) Register(c *Client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.Name == "" {
		return coreError(ErrCodeEmptyName, "name cannot be empty")
	}
	if _, taken := h.names[c.Name]; taken {
		return coreError(ErrCodeNameTaken, fmt.Sprintf("name %q is already taken", c.Name))
	}

	h.clients[c] = struct{}{}
	h.names[c.Name] = c
	h.joinLocked(c, DefaultRoom)

	h.logLineLocked(fmt.Sprintf("%s connected and joined room: %s", c.Name, DefaultRoom))
	h.publishClientsLocked()
	h.publishRoomsLocked()
	return nil
}

// Unregister removes a client from its room and the directory. Safe to
// call more than once; only the first call mutates state.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}
	h.leaveLocked(c)
	delete(h.clients, c)
	delete(h.names, c.Name)

	h.logLineLocked(fmt.Sprintf("%s disconnected", c.Name))
	h.publishClientsLocked()
	h.publishRoomsLocked()
}

// Join moves the client into roomName, creating the room if absent and
// leaving (and possibly deleting) the client's previous room first.
// Join never fails.
func (h *Hub) Join(c *Client, roomName string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.joinLocked(c, roomName)
	h.logLineLocked(fmt.Sprintf("%s joined room: %s", c.Name, roomName))
	h.publishRoomsLocked()
}

// Create makes a new empty room without joining the creator to it.
func (h *Hub) Create(c *Client, roomName string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.rooms[roomName]; exists {
		return coreError(ErrCodeRoomExists, fmt.Sprintf("room %q already exists", roomName))
	}
	h.rooms[roomName] = make(map[*Client]struct{})
	h.logLineLocked(fmt.Sprintf("%s created room: %s", c.Name, roomName))
	h.publishRoomsLocked()
	return nil
}

// Leave removes the client from its current room and returns the room
// name. Returns a not_in_room error if the client has no room.
func (h *Hub) Leave(c *Client) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.leaveLocked(c)
	if !ok {
		return "", coreError(ErrCodeNotInRoom, "you are not in a room")
	}
	h.logLineLocked(fmt.Sprintf("%s left room: %s", c.Name, room))
	h.publishRoomsLocked()
	return room, nil
}

// CurrentRoom reports the client's room, if any.
func (h *Hub) CurrentRoom(c *Client) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.current[c]
	return room, ok
}

// ListRooms returns a sorted snapshot of rooms with member counts.
func (h *Hub) ListRooms() []RoomInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.roomSnapshotLocked()
}

// Users returns a sorted snapshot of connected display names.
func (h *Hub) Users() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clientSnapshotLocked()
}

// Broadcast writes "<sender>: <text>" to every member of roomName except
// the sender. A failed write to one member is logged and does not stop
// delivery to the rest.
func (h *Hub) Broadcast(sender *Client, roomName, text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[roomName]
	if !ok {
		return coreError(ErrCodeRoomNotFound, fmt.Sprintf("room %q not found", roomName))
	}

	line := fmt.Sprintf("%s: %s", sender.Name, text)
	for member := range members {
		if member == sender {
			continue
		}
		if err := member.Conn.WriteLine(line); err != nil {
			h.log.Warn().Err(err).
				Str("room", roomName).
				Str("to", member.Name).
				Msg("broadcast delivery failed")
		}
	}
	h.logLineLocked(fmt.Sprintf("%s@%s: %s", sender.Name, roomName, text))
	return nil
}

// SendPrivate delivers text to the named user and echoes it back to the
// sender. The echo is written first and is not rolled back if delivery to
// the target fails.
func (h *Hub) SendPrivate(sender *Client, targetName, text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	target, ok := h.names[targetName]
	if !ok {
		return coreError(ErrCodeUserNotFound, fmt.Sprintf("user %q not found", targetName))
	}

	echo := fmt.Sprintf("You sent %s a private message: %s", targetName, text)
	if err := sender.Conn.WriteLine(echo); err != nil {
		h.log.Warn().Err(err).Str("to", sender.Name).Msg("private echo failed")
	}
	delivered := fmt.Sprintf("Private message from %s: %s", sender.Name, text)
	if err := target.Conn.WriteLine(delivered); err != nil {
		h.log.Warn().Err(err).Str("to", targetName).Msg("private delivery failed")
	}
	h.logLineLocked(fmt.Sprintf("%s sent a private message to %s", sender.Name, targetName))
	return nil
}

// joinLocked adds c to roomName, detaching it from its previous room
// first. Caller holds h.mu.
func (h *Hub) joinLocked(c *Client, roomName string) {
	h.leaveLocked(c)
	members, ok := h.rooms[roomName]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[roomName] = members
		h.logLineLocked(fmt.Sprintf("room %q created on join", roomName))
	}
	members[c] = struct{}{}
	h.current[c] = roomName
}

// leaveLocked detaches c from its current room, deleting the room when it
// becomes empty. Caller holds h.mu.
func (h *Hub) leaveLocked(c *Client) (string, bool) {
	room, ok := h.current[c]
	if !ok {
		return "", false
	}
	delete(h.current, c)
	members := h.rooms[room]
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, room)
		h.logLineLocked(fmt.Sprintf("room %q deleted: no members left", room))
	}
	return room, true
}

func (h *Hub) clientSnapshotLocked() []string {
	names := make([]string, 0, len(h.names))
	for name := range h.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (h *Hub) roomSnapshotLocked() []RoomInfo {
	rooms := make([]RoomInfo, 0, len(h.rooms))
	for name, members := range h.rooms {
		rooms = append(rooms, RoomInfo{Name: name, Members: len(members)})
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Name < rooms[j].Name })
	return rooms
}

func (h *Hub) publishClientsLocked() {
	h.bus.Publish(&Event{Kind: EventClientListChanged, Clients: h.clientSnapshotLocked()})
}

func (h *Hub) publishRoomsLocked() {
	h.bus.Publish(&Event{Kind: EventRoomListChanged, Rooms: h.roomSnapshotLocked()})
}

func (h *Hub) logLineLocked(line string) {
	h.log.Info().Msg(line)
	h.bus.Publish(&Event{Kind: EventLogLine, Line: line})
}
