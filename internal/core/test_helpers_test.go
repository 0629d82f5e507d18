package core

import (
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// recorderConn captures lines written to a client and can be told to fail.
type recorderConn struct {
	mu    sync.Mutex
	lines []string
	fail  bool
}

func (r *recorderConn) WriteLine(line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("write failed")
	}
	r.lines = append(r.lines, line)
	return nil
}

func (r *recorderConn) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

func newTestHub() *Hub {
	logger := zerolog.Nop()
	return NewHub(NewBus(), &logger)
}

func registered(t *testing.T, h *Hub, name string) (*Client, *recorderConn) {
	t.Helper()
	conn := &recorderConn{}
	c := NewClient(name+"-id", name, conn)
	if err := h.Register(c); err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return c, conn
}

func mustCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if got := ErrorCode(err); got != code {
		t.Fatalf("expected code %s, got %s (%v)", code, got, err)
	}
}
