package tcp

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/linewire/linechat-server/internal/config"
	"github.com/linewire/linechat-server/internal/core"
	"github.com/linewire/linechat-server/internal/store"
)

// startServer runs a server on a loopback listener and returns its
// address plus the upload directory it writes into.
func startServer(t *testing.T, st store.Store) (addr, uploadDir string) {
	t.Helper()

	logger := zerolog.Nop()
	hub := core.NewHub(core.NewBus(), &logger)

	cfg := config.Default()
	cfg.UploadDir = t.TempDir()

	srv := NewServer(cfg, hub, st, &logger)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go srv.Serve(ctx, ln)

	return ln.Addr().String(), cfg.UploadDir
}

type testClient struct {
	t    *testing.T
	conn net.Conn
	r    *bufio.Reader
}

func dial(t *testing.T, addr string) *testClient {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		t.Fatalf("dial %s: %v", addr, err)
	}
	t.Cleanup(func() { conn.Close() })
	return &testClient{t: t, conn: conn, r: bufio.NewReader(conn)}
}

// handshake dials and completes the name exchange.
func handshake(t *testing.T, addr, name string) *testClient {
	t.Helper()
	c := dial(t, addr)
	c.expect("Enter your name:")
	c.send(name)
	c.expect("Your name is " + name)
	c.expect("You have joined the room: " + core.DefaultRoom)
	return c
}

func (c *testClient) send(line string) {
	c.t.Helper()
	c.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	if _, err := c.conn.Write([]byte(line + "\n")); err != nil {
		c.t.Fatalf("send %q: %v", line, err)
	}
}

func (c *testClient) sendRaw(p []byte) {
	c.t.Helper()
	c.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	if _, err := c.conn.Write(p); err != nil {
		c.t.Fatalf("send %d raw bytes: %v", len(p), err)
	}
}

func (c *testClient) readLine() string {
	c.t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := c.r.ReadString('\n')
	if err != nil {
		c.t.Fatalf("read line: %v", err)
	}
	return strings.TrimRight(line, "\n")
}

func (c *testClient) expect(want string) {
	c.t.Helper()
	if got := c.readLine(); got != want {
		c.t.Fatalf("expected %q, got %q", want, got)
	}
}

func (c *testClient) expectContains(want string) string {
	c.t.Helper()
	got := c.readLine()
	if !strings.Contains(got, want) {
		c.t.Fatalf("expected line containing %q, got %q", want, got)
	}
	return got
}

// expectSilence asserts nothing arrives within the window.
func (c *testClient) expectSilence(d time.Duration) {
	c.t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(d))
	b, err := c.r.ReadByte()
	if err == nil {
		c.t.Fatalf("expected silence, got byte %q", b)
	}
	var ne net.Error
	if !errors.As(err, &ne) || !ne.Timeout() {
		c.t.Fatalf("expected read timeout, got %v", err)
	}
}

// expectClosed asserts the server closed the connection.
func (c *testClient) expectClosed() {
	c.t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := c.r.ReadByte(); err == nil {
		c.t.Fatal("expected closed connection, but read succeeded")
	}
}
