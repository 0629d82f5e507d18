package tcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/linewire/linechat-server/internal/core"
	"github.com/linewire/linechat-server/internal/store"
)

const (
	uploadChunkSize = 4096

	// receivedPrefix namespaces uploaded files away from server-local ones.
	receivedPrefix = "received_"
)

// receiveFile runs the two-phase upload sub-protocol: ack line, decimal
// size line, then exactly size raw bytes. It owns the connection's read
// side until the transfer completes or errors. A partial file from a
// failed transfer is left on disk.
func (s *Server) receiveFile(ctx context.Context, c *core.Client, lc *lineConn, filename string) {
	if err := lc.WriteLine("Ready to receive file."); err != nil {
		s.log.Warn().Err(err).Str("client", c.Name).Msg("upload ack failed")
		return
	}

	sizeLine, err := lc.ReadLine()
	if err != nil {
		s.uploadError(c, filename, fmt.Errorf("read size line: %w", err))
		return
	}
	size, err := strconv.ParseInt(strings.TrimSpace(sizeLine), 10, 64)
	if err != nil || size < 0 {
		s.uploadError(c, filename, fmt.Errorf("invalid file size %q", strings.TrimSpace(sizeLine)))
		return
	}

	path := filepath.Join(s.uploadDir, receivedPrefix+filepath.Base(filename))
	f, err := os.Create(path)
	if err != nil {
		s.uploadError(c, filename, fmt.Errorf("create file: %w", err))
		return
	}

	s.log.Info().Str("client", c.Name).Str("file", filename).Int64("size", size).Msg("receiving file")

	received, copyErr := copyChunks(f, lc, size)
	closeErr := f.Close()
	if copyErr != nil {
		s.uploadError(c, filename, copyErr)
		return
	}
	if closeErr != nil {
		s.uploadError(c, filename, fmt.Errorf("close file: %w", closeErr))
		return
	}

	if s.store != nil {
		if _, err := s.store.RecordUpload(ctx, &store.Upload{
			Filename:   filename,
			StoredPath: path,
			Size:       received,
			Uploader:   c.Name,
		}); err != nil {
			s.log.Warn().Err(err).Str("file", filename).Msg("failed to record upload")
		}
	}

	s.log.Info().Str("client", c.Name).Str("file", filename).Str("path", path).Msg("file received")
	s.reply(c, fmt.Sprintf("File '%s' received successfully.", filename))
}

// copyChunks reads exactly size bytes from src in bounded chunks. A
// zero-length read before size bytes arrive is a truncated transfer.
func copyChunks(dst io.Writer, src io.Reader, size int64) (int64, error) {
	buf := make([]byte, uploadChunkSize)
	var received int64
	for received < size {
		chunk := buf
		if rem := size - received; rem < int64(len(chunk)) {
			chunk = chunk[:rem]
		}
		n, err := src.Read(chunk)
		if n > 0 {
			if _, werr := dst.Write(chunk[:n]); werr != nil {
				return received, fmt.Errorf("write file: %w", werr)
			}
			received += int64(n)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return received, fmt.Errorf("transfer truncated: got %d of %d bytes", received, size)
			}
			return received, fmt.Errorf("read chunk: %w", err)
		}
	}
	return received, nil
}

func (s *Server) uploadError(c *core.Client, filename string, err error) {
	s.log.Warn().Err(err).Str("client", c.Name).Str("file", filename).Msg("file upload failed")
	s.reply(c, "File upload error: "+err.Error())
}
