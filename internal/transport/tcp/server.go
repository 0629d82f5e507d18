package tcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/linewire/linechat-server/internal/config"
	"github.com/linewire/linechat-server/internal/core"
	"github.com/linewire/linechat-server/internal/store"
)

// Server accepts raw TCP connections and runs one handler goroutine per
// client. A cancelled context stops the accept loop; connections already
// in flight finish through their normal teardown.
type Server struct {
	addr      string
	uploadDir string
	hub       *core.Hub
	store     store.Store
	log       *zerolog.Logger
}

// NewServer builds a TCP chat server around the hub.
func NewServer(cfg config.Config, hub *core.Hub, st store.Store, logger *zerolog.Logger) *Server {
	return &Server{
		addr:      cfg.TCPAddr,
		uploadDir: cfg.UploadDir,
		hub:       hub,
		store:     st,
		log:       logger,
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections from ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	s.log.Info().Str("addr", ln.Addr().String()).Msg("tcp server listening")

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.log.Info().Msg("tcp server stopped accepting")
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		go s.handleConn(ctx, conn)
	}
}

// handleConn drives one client's lifecycle: handshake, command loop,
// teardown. A failure here never affects other connections.
func (s *Server) handleConn(ctx context.Context, nc net.Conn) {
	remote := nc.RemoteAddr().String()
	s.log.Info().Str("remote", remote).Msg("connection accepted")
	defer nc.Close()

	lc := newLineConn(nc)
	client, err := s.handshake(lc)
	if err != nil {
		s.log.Info().Err(err).Str("remote", remote).Msg("handshake failed")
		return
	}
	// Teardown runs exactly once regardless of how the loop exits;
	// Unregister itself is idempotent.
	defer s.hub.Unregister(client)

	for {
		line, err := lc.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Info().Str("client", client.Name).Msg("client disconnected")
			} else {
				s.log.Warn().Err(err).Str("client", client.Name).Msg("stream error")
			}
			return
		}
		s.dispatch(ctx, client, lc, strings.TrimSpace(line))
	}
}

// handshake prompts for a name and registers the client. An empty or
// duplicate name is terminal: the error line is sent and the connection
// is closed without retry.
func (s *Server) handshake(lc *lineConn) (*core.Client, error) {
	if err := lc.WriteLine("Enter your name:"); err != nil {
		return nil, err
	}
	line, err := lc.ReadLine()
	if err != nil {
		return nil, err
	}

	client := core.NewClient(uuid.NewString(), strings.TrimSpace(line), lc)
	if err := s.hub.Register(client); err != nil {
		switch core.ErrorCode(err) {
		case core.ErrCodeEmptyName:
			lc.WriteLine("Name cannot be empty. Closing connection.")
		case core.ErrCodeNameTaken:
			lc.WriteLine("This name is already taken. Closing connection.")
		}
		return nil, err
	}

	lc.WriteLine("Your name is " + client.Name)
	lc.WriteLine("You have joined the room: " + core.DefaultRoom)
	return client, nil
}

// reply writes a single response line back to the issuing client.
func (s *Server) reply(c *core.Client, line string) {
	if err := c.Conn.WriteLine(line); err != nil {
		s.log.Warn().Err(err).Str("client", c.Name).Msg("reply failed")
	}
}
