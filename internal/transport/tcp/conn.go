package tcp

import (
	"bufio"
	"net"
	"strings"
	"sync"
)

// lineConn wraps a connection with buffered line-oriented reads and
// flush-on-write lines. Writes are serialized so the hub can deliver to
// this client from other goroutines; the read side belongs exclusively
// to the owning connection handler.
type lineConn struct {
	conn net.Conn
	r    *bufio.Reader

	wmu sync.Mutex
	w   *bufio.Writer
}

func newLineConn(conn net.Conn) *lineConn {
	return &lineConn{
		conn: conn,
		r:    bufio.NewReader(conn),
		w:    bufio.NewWriter(conn),
	}
}

// WriteLine writes a newline-terminated line and flushes it.
func (c *lineConn) WriteLine(line string) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if _, err := c.w.WriteString(line + "\n"); err != nil {
		return err
	}
	return c.w.Flush()
}

// ReadLine reads up to the next newline and strips the line ending.
// A final unterminated line before EOF is returned as-is.
func (c *lineConn) ReadLine() (string, error) {
	line, err := c.r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Read reads raw bytes; used by the upload sub-protocol.
func (c *lineConn) Read(p []byte) (int, error) {
	return c.r.Read(p)
}
