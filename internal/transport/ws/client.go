/*
Package ws implements the WebSocket transport.

This file defines the Client struct, representing one active WebSocket
connection. It runs the message pumps (ReadPump and WritePump) and acts as
the session adapter: inbound frames become calls on the presence controller
and message router, and queued events flow back out over the socket.
*/
package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"rtchat/internal/chat"
	"rtchat/internal/pkg/logx"
)

const (
	// timeout for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time the server waits for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of an inbound frame.
	maxMessageSize = 8192

	// sendQueueSize is the per-connection outbound buffer. Events beyond it
	// are dropped rather than blocking the core.
	sendQueueSize = 256
)

// Inbound event names accepted from clients.
const (
	eventJoin        = "join"
	eventSendMessage = "send_message"
	eventSendFile    = "send_file"
	eventTyping      = "typing"
	eventStopTyping  = "stop_typing"
)

// Client represents one active WebSocket connection identified by an opaque
// handle.
type Client struct {
	// handle is the transport-issued connection identifier, never reused
	// for two live connections.
	handle string

	// underlying WebSocket connection object.
	conn *websocket.Conn

	gateway  *Gateway
	presence *chat.PresenceController
	router   *chat.Router

	// send queues outbound frames for the write pump.
	send chan []byte

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded connection.
func NewClient(handle string, conn *websocket.Conn, gateway *Gateway, presence *chat.PresenceController, router *chat.Router) *Client {
	return &Client{
		handle:   handle,
		conn:     conn,
		gateway:  gateway,
		presence: presence,
		router:   router,
		send:     make(chan []byte, sendQueueSize),
		logger:   logx.Logger().With().Str("handle", handle).Logger(),
	}
}

// enqueue queues one marshaled frame for delivery. A full queue drops the
// frame; delivery is fire-and-forget and must never block the core.
func (c *Client) enqueue(frame []byte) {
	select {
	case c.send <- frame:
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send queue full, dropping event")
	}
}

// closeConn force-closes the underlying connection, unblocking the read pump.
func (c *Client) closeConn() {
	if c.conn == nil {
		return
	}
	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Connection close error")
	}
}

// ReadPump reads frames from the WebSocket connection, handles heartbeats,
// and dispatches inbound events. It performs the full disconnect cleanup on
// exit, so leave processing runs exactly once per connection.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (client close/going away)")
			}
			break
		}

		c.processInbound(frame)
	}
}

// cleanupOnDisconnect runs when the read pump terminates: the connection
// leaves the chat, detaches from the gateway, and the socket closes.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Connection cleanup starting")

	c.presence.Leave(c.handle)
	c.gateway.Detach(c.handle)
	c.closeConn()
}

// inboundFrame is the envelope every client frame arrives in.
type inboundFrame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// processInbound decodes one raw frame and dispatches it to the core.
func (c *Client) processInbound(frame []byte) {
	var in inboundFrame
	if err := json.Unmarshal(frame, &in); err != nil {
		c.logger.Warn().Err(err).Bytes("frame", frame).Msg("Client sent invalid JSON")
		return
	}

	switch in.Event {
	case eventJoin:
		c.handleJoin(in.Payload)

	case eventSendMessage:
		c.handleSendMessage(in.Payload)

	case eventSendFile:
		c.handleSendFile(in.Payload)

	case eventTyping:
		c.handleTyping(in.Payload, chat.KindTyping)

	case eventStopTyping:
		c.handleTyping(in.Payload, chat.KindStopTyping)

	default:
		c.logger.Warn().Str("event", in.Event).Msg("Client sent unsupported event")
	}
}

// handleJoin processes a join request carrying the desired username.
func (c *Client) handleJoin(payload json.RawMessage) {
	var p struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid join payload")
		return
	}

	c.presence.Join(c.handle, p.Username)
}

// handleSendMessage routes a text message, directed or global.
func (c *Client) handleSendMessage(payload json.RawMessage) {
	var p struct {
		Text      string          `json:"text"`
		Recipient string          `json:"recipient,omitempty"`
		Timestamp json.RawMessage `json:"timestamp,omitempty"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid send_message payload")
		return
	}

	c.router.RouteFrom(c.handle, chat.Envelope{
		Kind:      chat.KindText,
		Recipient: p.Recipient,
		Text:      p.Text,
		Timestamp: p.Timestamp,
	})
}

// handleSendFile routes a file notice. The named blob was already persisted
// by the upload store over a prior HTTP exchange; only the notification
// travels through the chat core.
func (c *Client) handleSendFile(payload json.RawMessage) {
	var p struct {
		Filename  string          `json:"filename"`
		Recipient string          `json:"recipient,omitempty"`
		Timestamp json.RawMessage `json:"timestamp,omitempty"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid send_file payload")
		return
	}

	if p.Filename == "" {
		c.logger.Warn().Msg("Client sent send_file without a filename")
		return
	}

	c.router.RouteFrom(c.handle, chat.Envelope{
		Kind:      chat.KindFile,
		Recipient: p.Recipient,
		FileName:  p.Filename,
		FileURL:   "/uploads/" + p.Filename,
		Timestamp: p.Timestamp,
	})
}

// handleTyping routes a typing or stop_typing indicator.
func (c *Client) handleTyping(payload json.RawMessage, kind chat.Kind) {
	var p struct {
		Recipient string `json:"recipient,omitempty"`
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			c.logger.Warn().Err(err).Msg("Client sent invalid typing payload")
			return
		}
	}

	c.router.RouteFrom(c.handle, chat.Envelope{
		Kind:      kind,
		Recipient: p.Recipient,
	})
}

// WritePump writes queued frames to the WebSocket connection and keeps the
// heartbeat alive. It exits when the send queue closes or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.closeConn()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !c.writeQueuedFrame(frame, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePing() {
				return
			}
		}
	}
}

// writeQueuedFrame writes one frame pulled from the send queue. Returns
// false when the pump should terminate.
func (c *Client) writeQueuedFrame(frame []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePing sends the periodic heartbeat. Returns false on write failure.
func (c *Client) writePing() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
