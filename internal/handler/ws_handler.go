/*
Package handler provides the HTTP handler for WebSocket connection upgrading.

This file contains HandleWebSocket, which rate-limits and upgrades the
connection, mints the opaque connection handle, and starts the client pumps.
Identity is claimed later through the join event, not at connect time.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"rtchat/internal/pkg/errs"
	"rtchat/internal/pkg/limiter"
	"rtchat/internal/pkg/logx"
	"rtchat/internal/pkg/randx"
	"rtchat/internal/pkg/resp"
	"rtchat/internal/transport/ws"
)

// HandleWebSocket creates an HTTP HandlerFunc that upgrades the request and
// hands the connection to the session adapter.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		handle, err := randx.ConnHandle()
		if err != nil {
			logx.Error(err, "Failed to generate connection handle")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := ws.NewClient(handle, conn, deps.Gateway, deps.Presence, deps.Router)

		deps.Gateway.Attach(client)
		deps.Presence.Track(handle)

		logx.Info("WebSocket connection established", "handle", handle)

		go client.WritePump()

		client.ReadPump()
	}
}
