package tcp

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/linewire/linechat-server/internal/store/sqlite"
)

func TestUploadRoundTrip(t *testing.T) {
	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	addr, uploadDir := startServer(t, st)
	ann := handshake(t, addr, "ann")

	payload := bytes.Repeat([]byte("abcdefgh"), 1500) // 12000 bytes, several chunks
	ann.send("/upload data.bin")
	ann.expect("Ready to receive file.")
	ann.send(fmt.Sprintf("%d", len(payload)))
	ann.sendRaw(payload)
	ann.expect("File 'data.bin' received successfully.")

	got, err := os.ReadFile(filepath.Join(uploadDir, "received_data.bin"))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("stored file differs: %d bytes vs %d sent", len(got), len(payload))
	}

	ups, err := st.ListUploads(context.Background(), 10)
	if err != nil {
		t.Fatalf("list uploads: %v", err)
	}
	if len(ups) != 1 || ups[0].Filename != "data.bin" || ups[0].Uploader != "ann" || ups[0].Size != int64(len(payload)) {
		t.Fatalf("unexpected ledger entry: %+v", ups)
	}
}

func TestUploadZeroBytes(t *testing.T) {
	addr, uploadDir := startServer(t, nil)
	ann := handshake(t, addr, "ann")

	ann.send("/upload empty.txt")
	ann.expect("Ready to receive file.")
	ann.send("0")
	ann.expect("File 'empty.txt' received successfully.")

	info, err := os.Stat(filepath.Join(uploadDir, "received_empty.txt"))
	if err != nil {
		t.Fatalf("stat stored file: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("expected empty file, got %d bytes", info.Size())
	}
}

func TestUploadInvalidSizeKeepsConnectionUsable(t *testing.T) {
	addr, _ := startServer(t, nil)
	ann := handshake(t, addr, "ann")

	ann.send("/upload data.bin")
	ann.expect("Ready to receive file.")
	ann.send("not-a-number")
	ann.expectContains("File upload error:")

	// The error is command-local; the loop keeps serving.
	ann.send("/currentchat")
	ann.expect("You are in the room: main")
}

func TestUploadTruncatedTransfer(t *testing.T) {
	addr, uploadDir := startServer(t, nil)
	ann := handshake(t, addr, "ann")

	ann.send("/upload big.bin")
	ann.expect("Ready to receive file.")
	ann.send("100")
	ann.sendRaw([]byte("xyz"))

	// Half-close so the server sees EOF mid-transfer but we can still read.
	tc, ok := ann.conn.(*net.TCPConn)
	if !ok {
		t.Fatalf("expected tcp conn, got %T", ann.conn)
	}
	if err := tc.CloseWrite(); err != nil {
		t.Fatalf("close write: %v", err)
	}

	line := ann.expectContains("File upload error:")
	if !bytes.Contains([]byte(line), []byte("transfer truncated")) {
		t.Fatalf("expected truncation error, got %q", line)
	}

	// The partial file is deliberately left on disk.
	waitForSize(t, filepath.Join(uploadDir, "received_big.bin"), 3)
}

func TestUploadSanitizesFilename(t *testing.T) {
	addr, uploadDir := startServer(t, nil)
	ann := handshake(t, addr, "ann")

	ann.send("/upload ../../escape.txt")
	ann.expect("Ready to receive file.")
	ann.send("2")
	ann.sendRaw([]byte("ok"))
	ann.expect("File '../../escape.txt' received successfully.")

	if _, err := os.Stat(filepath.Join(uploadDir, "received_escape.txt")); err != nil {
		t.Fatalf("expected sanitized path inside upload dir: %v", err)
	}
}

func TestUploadUsage(t *testing.T) {
	addr, _ := startServer(t, nil)
	ann := handshake(t, addr, "ann")

	ann.send("/upload")
	ann.expect("Usage: /upload <filename>")
}

func waitForSize(t *testing.T, path string, size int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if info, err := os.Stat(path); err == nil && info.Size() == size {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	info, err := os.Stat(path)
	t.Fatalf("partial file not as expected: info=%v err=%v", info, err)
}
