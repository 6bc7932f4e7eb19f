package stream

import (
	"context"
	"fmt"

	"github.com/coder/websocket"
)

// streamPath is the event endpoint both the player and the integration
// backend expose.
const streamPath = "/api/v1/ws"

// WebsocketDialer dials the event endpoint on one host.
type WebsocketDialer struct {
	url string
}

// NewWebsocketDialer builds a dialer for host (host:port, no scheme).
func NewWebsocketDialer(host string) *WebsocketDialer {
	return &WebsocketDialer{url: "ws://" + host + streamPath}
}

// URL returns the endpoint this dialer connects to.
func (d *WebsocketDialer) URL() string {
	return d.url
}

// Dial opens one websocket connection.
func (d *WebsocketDialer) Dial(ctx context.Context) (Conn, error) {
	conn, _, err := websocket.Dial(ctx, d.url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", d.url, err)
	}

	return &websocketConn{conn: conn}, nil
}

type websocketConn struct {
	conn *websocket.Conn
}

// Read returns the payload of the next frame. Binary frames pass through
// unchanged; the decoder rejects them like any other malformed payload.
func (c *websocketConn) Read(ctx context.Context) ([]byte, error) {
	_, data, err := c.conn.Read(ctx)
	if err != nil {
		return nil, err
	}

	return data, nil
}

func (c *websocketConn) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "stream closing")
}
