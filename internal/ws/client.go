package ws

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

const sendBufferSize = 256

// State is the lifecycle of one transport session. Binding happens at
// most once, at the handshake; Disconnected is terminal.
type State int

const (
	StateConnecting State = iota
	StateConnectedBound
	StateConnectedUnbound
	StateDisconnected
)

// Client is one live transport connection. Identity is empty when the
// handshake carried no user id; such a connection can send but never
// receives routed events.
type Client struct {
	SessionID string
	Identity  string

	conn   *websocket.Conn
	send   chan []byte
	mu     sync.Mutex
	state  State
	closed bool
}

func NewClient(conn *websocket.Conn, sessionID, identity string) *Client {
	return &Client{
		SessionID: sessionID,
		Identity:  identity,
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
		state:     StateConnecting,
	}
}

// markConnected moves Connecting to Connected, bound when an identity
// was supplied at handshake. No re-binding happens after this point.
func (c *Client) markConnected() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateConnecting {
		return
	}
	if c.Identity != "" {
		c.state = StateConnectedBound
	} else {
		c.state = StateConnectedUnbound
	}
}

func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Queue hands a frame to the write pump. Returns false when the buffer
// is full or the client is closed; the frame is dropped either way.
func (c *Client) Queue(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// Close shuts the send channel and the underlying connection once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.state = StateDisconnected
	close(c.send)
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// writePump drains the send channel onto the wire, pinging on idle.
func (c *Client) writePump(pingInterval, writeDeadline time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(time.Second))
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second)); err != nil {
				return
			}
		}
	}
}
