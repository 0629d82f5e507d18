package core

import (
	"sync"
	"time"
)

// EventKind is a notification the core emits to subscribers.
type EventKind int

const (
	// EventClientListChanged carries a fresh snapshot of connected client names.
	EventClientListChanged EventKind = iota
	// EventRoomListChanged carries a fresh snapshot of rooms and member counts.
	EventRoomListChanged
	// EventLogLine carries a human-readable log line for operator consoles.
	EventLogLine
)

// RoomInfo describes one room in a registry snapshot.
type RoomInfo struct {
	Name    string `json:"name"`
	Members int    `json:"members"`
}

// Event describes a state change for external consumers such as the
// operator dashboard. Snapshot fields are populated per kind.
type Event struct {
	Kind    EventKind
	Clients []string
	Rooms   []RoomInfo
	Line    string
	At      time.Time
}

// Bus fans events out to subscribers. Sends never block: a subscriber
// that falls behind loses events rather than stalling the hub.
type Bus struct {
	mu   sync.Mutex
	subs map[chan *Event]struct{}
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[chan *Event]struct{})}
}

// Subscribe registers a new subscriber channel.
func (b *Bus) Subscribe() chan *Event {
	ch := make(chan *Event, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (b *Bus) Unsubscribe(ch chan *Event) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish delivers an event to all current subscribers.
func (b *Bus) Publish(ev *Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// Drop if slow consumer.
		}
	}
}
