/*
Package ws implements the WebSocket transport: the per-connection client
pumps and the gateway through which the chat core delivers events.

This file defines the Gateway, which tracks live clients by connection handle
and implements chat.Transport for the core.
*/
package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"rtchat/internal/chat"
	"rtchat/internal/pkg/logx"
)

// Gateway owns the handle -> client map. Delivery never blocks: events are
// marshaled once and queued on each client's buffered send channel, which
// preserves per-recipient submission order.
type Gateway struct {
	// mu protects clients. A client's send channel is only closed while
	// the write lock is held, so queued sends under the read lock can
	// never race a close.
	mu      sync.RWMutex
	clients map[string]*Client

	logger zerolog.Logger
}

// NewGateway constructs an empty Gateway.
func NewGateway() *Gateway {
	return &Gateway{
		clients: make(map[string]*Client),
		logger:  logx.Logger().With().Str("component", "Gateway").Logger(),
	}
}

// Attach registers a freshly upgraded client under its handle.
func (g *Gateway) Attach(c *Client) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.clients[c.handle] = c

	g.logger.Info().
		Str("handle", c.handle).
		Int("total_connections", len(g.clients)).
		Msg("Client attached")
}

// Detach removes the client owning handle and closes its send queue,
// terminating its write pump. Safe to call for unknown handles.
func (g *Gateway) Detach(handle string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	c, ok := g.clients[handle]
	if !ok {
		return
	}

	delete(g.clients, handle)
	close(c.send)

	g.logger.Info().
		Str("handle", handle).
		Int("total_connections", len(g.clients)).
		Msg("Client detached")
}

// Send queues one event for one connection handle. Unknown or stale handles
// are ignored.
func (g *Gateway) Send(handle string, event chat.Event) {
	frame, err := json.Marshal(event)
	if err != nil {
		g.logger.Error().Err(err).Str("event", event.Name).Msg("Error marshaling event")
		return
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	c, ok := g.clients[handle]
	if !ok {
		return
	}
	c.enqueue(frame)
}

// Broadcast queues the event for every connected client, joined or not.
func (g *Gateway) Broadcast(event chat.Event) {
	frame, err := json.Marshal(event)
	if err != nil {
		g.logger.Error().Err(err).Str("event", event.Name).Msg("Error marshaling event")
		return
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, c := range g.clients {
		c.enqueue(frame)
	}
}

// Shutdown closes every live connection. Used during graceful stop; the
// pumps finish their own cleanup as each connection drops.
func (g *Gateway) Shutdown() {
	g.mu.RLock()
	clients := make([]*Client, 0, len(g.clients))
	for _, c := range g.clients {
		clients = append(clients, c)
	}
	g.mu.RUnlock()

	g.logger.Info().Int("total_connections", len(clients)).Msg("Closing all connections")

	for _, c := range clients {
		c.closeConn()
	}
}
