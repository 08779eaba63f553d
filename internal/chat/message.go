/*
Package chat contains the realtime core of the server.

This file defines the message envelope routed by the core and the outbound
event frames delivered to clients over the transport.
*/
package chat

import "encoding/json"

// Kind discriminates the envelope variants handled by the router.
type Kind string

const (
	// KindText is a plain text chat message.
	KindText Kind = "text"

	// KindFile is a notification that a file finished uploading. The blob
	// itself is already persisted in the upload store at this point.
	KindFile Kind = "file"

	// KindTyping and KindStopTyping are ephemeral typing indicators.
	KindTyping     Kind = "typing"
	KindStopTyping Kind = "stop_typing"
)

// GlobalRecipient is the sentinel recipient meaning "deliver to everyone".
const GlobalRecipient = "global"

// Envelope is one routed chat event. Only the fields relevant to its Kind
// are populated. Timestamp is an opaque client-supplied value carried
// through unmodified; the core neither generates nor validates it.
type Envelope struct {
	Kind      Kind
	Sender    string
	Recipient string // empty or GlobalRecipient means broadcast
	Text      string // KindText body
	FileName  string // KindFile: identifier returned by the upload store
	FileURL   string // KindFile: retrieval path for the stored blob
	Timestamp json.RawMessage
}

// Event is an outbound frame queued for delivery to a client connection.
type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// Outbound event names. These are the wire-visible contract with clients.
const (
	EventJoinSuccess    = "join_success"
	EventJoinError      = "join_error"
	EventUserListUpdate = "user_list_update"
	EventNewMessage     = "new_message"
	EventPrivateMessage = "private_message"
	EventSystemMessage  = "system_message"
	EventTyping         = "typing"
	EventStopTyping     = "stop_typing"
)

// MessagePayload is the payload of new_message and private_message events,
// covering both text messages and file notices.
type MessagePayload struct {
	Sender    string          `json:"sender"`
	Recipient string          `json:"recipient,omitempty"`
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	FileName  string          `json:"filename,omitempty"`
	FileURL   string          `json:"url,omitempty"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
}

// TypingPayload is the payload of typing and stop_typing events.
type TypingPayload struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
}

// SystemPayload is the payload of system_message events.
type SystemPayload struct {
	Text string `json:"text"`
}

// JoinErrorPayload is the payload of join_error events.
type JoinErrorPayload struct {
	Error string `json:"error"`
}
