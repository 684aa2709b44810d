package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 64
)

// Client is one connected browser. Writes are serialized through the send
// channel; readers never touch the connection directly.
type Client struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
}

// writePump drains the send channel onto the connection. It owns all writes.
func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *Client) enqueue(msg Message) {
	blob, err := json.Marshal(msg)
	if err != nil {
		log.Printf("websocket: marshal message: %v", err)
		return
	}

	// An RPC may still be in flight when the read loop tears the client
	// down, so sends after close must be silent no-ops, not panics.
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- blob:
	default:
		// Slow client; drop rather than block the hub.
		log.Printf("websocket: send buffer full, dropping message")
	}
}

// SendResponse answers an RPC request on this client.
func (c *Client) SendResponse(resp RPCResponse) {
	c.enqueue(Message{Kind: "rpc_response", Response: &resp})
}

// SendEvent pushes one event to this client.
func (c *Client) SendEvent(eventType string, payload interface{}) {
	c.enqueue(Message{Kind: "event", Event: &Event{Type: eventType, Payload: payload}})
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}
