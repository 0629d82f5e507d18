package tcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/linewire/linechat-server/internal/core"
)

var helpLines = []string{
	"/m <user> <message> - send a private message",
	"/users - list connected users",
	"/join <room> - join a room",
	"/create <room> - create a new room",
	"/leave - leave the current room",
	"/currentchat - show the current room",
	"/listrooms - list rooms",
	"/upload <filename> - upload a file",
}

// dispatch routes one inbound line. Slash commands are matched by prefix;
// anything else is chat text broadcast to the client's current room.
func (s *Server) dispatch(ctx context.Context, c *core.Client, lc *lineConn, line string) {
	switch {
	case strings.HasPrefix(line, "/join"):
		parts := splitCommand(line, 2)
		if len(parts) < 2 {
			s.reply(c, "Usage: /join <room>")
			return
		}
		s.hub.Join(c, parts[1])
		s.reply(c, "You have joined the room: "+parts[1])

	case strings.HasPrefix(line, "/create"):
		parts := splitCommand(line, 2)
		if len(parts) < 2 {
			s.reply(c, "Usage: /create <room>")
			return
		}
		if err := s.hub.Create(c, parts[1]); err != nil {
			s.reply(c, fmt.Sprintf("Room '%s' already exists.", parts[1]))
			return
		}
		s.reply(c, fmt.Sprintf("Room '%s' created.", parts[1]))

	case strings.HasPrefix(line, "/leave"):
		room, err := s.hub.Leave(c)
		if err != nil {
			s.reply(c, "You are not in a room.")
			return
		}
		s.reply(c, "You have left the room: "+room)

	case strings.HasPrefix(line, "/listrooms"):
		rooms := s.hub.ListRooms()
		if len(rooms) == 0 {
			s.reply(c, "No rooms available.")
			return
		}
		entries := make([]string, 0, len(rooms))
		for _, r := range rooms {
			entries = append(entries, fmt.Sprintf("%s (%d members)", r.Name, r.Members))
		}
		s.reply(c, "Available rooms: "+strings.Join(entries, ", "))

	case strings.HasPrefix(line, "/currentchat"):
		room, ok := s.hub.CurrentRoom(c)
		if !ok {
			s.reply(c, "You are not in a room.")
			return
		}
		s.reply(c, "You are in the room: "+room)

	case strings.HasPrefix(line, "/m"):
		parts := splitCommand(line, 3)
		if len(parts) < 3 {
			s.reply(c, "Usage: /m <user> <message>")
			return
		}
		if err := s.hub.SendPrivate(c, parts[1], parts[2]); err != nil {
			s.reply(c, "User not found.")
		}

	case strings.HasPrefix(line, "/users"):
		users := s.hub.Users()
		if len(users) == 0 {
			s.reply(c, "No users connected.")
			return
		}
		s.reply(c, "User list: "+strings.Join(users, ", "))

	case strings.HasPrefix(line, "/help"):
		for _, h := range helpLines {
			s.reply(c, h)
		}

	case strings.HasPrefix(line, "/upload"):
		parts := splitCommand(line, 2)
		if len(parts) < 2 {
			s.reply(c, "Usage: /upload <filename>")
			return
		}
		s.receiveFile(ctx, c, lc, parts[1])

	default:
		room, ok := s.hub.CurrentRoom(c)
		if !ok {
			s.reply(c, "You are not in a room.")
			return
		}
		if err := s.hub.Broadcast(c, room, line); err != nil {
			s.reply(c, "Room not found.")
		}
	}
}

// splitCommand splits line into at most n whitespace-separated fields;
// the final field keeps the remainder of the line intact, so message
// bodies and room names may contain spaces.
func splitCommand(line string, n int) []string {
	parts := make([]string, 0, n)
	rest := strings.TrimSpace(line)
	for len(parts) < n-1 {
		i := strings.IndexAny(rest, " \t")
		if i < 0 {
			break
		}
		parts = append(parts, rest[:i])
		rest = strings.TrimSpace(rest[i+1:])
	}
	if rest != "" {
		parts = append(parts, rest)
	}
	return parts
}
