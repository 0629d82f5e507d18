package core

// Conn is the write side of a client's stream as the core sees it.
// Implementations must be safe for concurrent use: the hub writes to
// other clients' connections while holding its own lock.
type Conn interface {
	WriteLine(line string) error
}

// Client is a chat participant as seen by the core layer.
// The display name is assigned once during the handshake and never changes.
type Client struct {
	ID   string
	Name string
	Conn Conn
}

// NewClient constructs a client bound to its connection.
func NewClient(id, name string, conn Conn) *Client {
	return &Client{
		ID:   id,
		Name: name,
		Conn: conn,
	}
}
