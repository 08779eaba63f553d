package handler

import (
	"rtchat/internal/chat"
	"rtchat/internal/configs"
	"rtchat/internal/storage"
	"rtchat/internal/transport/ws"
)

// AppDeps bundles the dependencies every handler needs.
type AppDeps struct {
	Config   *configs.AppConfig
	Gateway  *ws.Gateway
	Presence *chat.PresenceController
	Router   *chat.Router
	Store    storage.UploadStore
}
