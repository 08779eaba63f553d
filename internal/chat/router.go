/*
Package chat contains the realtime core of the server.

This file defines the Router, which decides the fan-out for chat, file, and
typing events and hands the resulting deliveries to the transport.
*/
package chat

import (
	"fmt"

	"github.com/rs/zerolog"

	"rtchat/internal/pkg/logx"
)

// Router resolves the delivery targets for every inbound envelope. Delivery
// is fire-and-forget: the router never blocks on the transport and never
// retries.
type Router struct {
	registry  *Registry
	transport Transport
	logger    zerolog.Logger
}

// NewRouter constructs a Router over the given registry and transport.
func NewRouter(registry *Registry, transport Transport) *Router {
	return &Router{
		registry:  registry,
		transport: transport,
		logger:    logx.Logger().With().Str("component", "Router").Logger(),
	}
}

// RouteFrom resolves the sender identity for a connection handle and routes
// the envelope. Events from handles that never joined are discarded: they
// indicate a stale or out-of-order event, not a client-actionable fault.
func (rt *Router) RouteFrom(handle string, env Envelope) {
	sender, ok := rt.registry.LookupIdentity(handle)
	if !ok {
		rt.logger.Warn().
			Str("handle", handle).
			Str("kind", string(env.Kind)).
			Msg("Discarding event from handle with no identity")
		return
	}

	env.Sender = sender
	rt.Route(env)
}

// Route dispatches one envelope according to its kind and recipient.
func (rt *Router) Route(env Envelope) {
	senderHandle, ok := rt.registry.LookupHandle(env.Sender)
	if !ok {
		rt.logger.Warn().
			Str("sender", env.Sender).
			Str("kind", string(env.Kind)).
			Msg("Discarding event from unregistered sender")
		return
	}

	if env.Recipient == "" || env.Recipient == GlobalRecipient {
		rt.broadcast(env, senderHandle)
		return
	}

	rt.directed(env, senderHandle)
}

// broadcast delivers env to every registered handle. Chat and file events
// include the sender, so the sender sees their own message echoed through
// the same channel as everyone else; typing events exclude the sender, who
// already knows they are typing. The asymmetry is intentional.
func (rt *Router) broadcast(env Envelope, senderHandle string) {
	var event Event

	switch env.Kind {
	case KindText, KindFile:
		event = Event{Name: EventNewMessage, Payload: messagePayload(env, "")}

	case KindTyping, KindStopTyping:
		event = Event{
			Name:    typingEventName(env.Kind),
			Payload: TypingPayload{Sender: env.Sender, Recipient: GlobalRecipient},
		}

	default:
		rt.logger.Warn().Str("kind", string(env.Kind)).Msg("Dropping envelope of unknown kind")
		return
	}

	excludeSender := env.Kind == KindTyping || env.Kind == KindStopTyping

	for _, handle := range rt.registry.SnapshotHandles() {
		if excludeSender && handle == senderHandle {
			continue
		}
		rt.transport.Send(handle, event)
	}
}

// directed delivers env to one recipient identity. Chat and file events are
// echoed back to the sender so their own UI reflects the sent message; an
// offline recipient yields a system notice to the sender. Typing events go
// to the recipient only and are silently dropped when the peer is offline.
func (rt *Router) directed(env Envelope, senderHandle string) {
	recipientHandle, online := rt.registry.LookupHandle(env.Recipient)

	switch env.Kind {
	case KindText, KindFile:
		if !online {
			rt.logger.Debug().
				Str("sender", env.Sender).
				Str("recipient", env.Recipient).
				Msg("Directed message to offline recipient")

			rt.transport.Send(senderHandle, Event{
				Name:    EventSystemMessage,
				Payload: SystemPayload{Text: fmt.Sprintf("User %s is currently offline.", env.Recipient)},
			})
			return
		}

		event := Event{Name: EventPrivateMessage, Payload: messagePayload(env, env.Recipient)}
		rt.transport.Send(recipientHandle, event)
		rt.transport.Send(senderHandle, event)

	case KindTyping, KindStopTyping:
		if !online {
			return
		}

		rt.transport.Send(recipientHandle, Event{
			Name:    typingEventName(env.Kind),
			Payload: TypingPayload{Sender: env.Sender, Recipient: env.Recipient},
		})

	default:
		rt.logger.Warn().Str("kind", string(env.Kind)).Msg("Dropping envelope of unknown kind")
	}
}

// messagePayload builds the wire payload for a text or file envelope.
// recipient is empty for broadcast deliveries.
func messagePayload(env Envelope, recipient string) MessagePayload {
	return MessagePayload{
		Sender:    env.Sender,
		Recipient: recipient,
		Type:      string(env.Kind),
		Text:      env.Text,
		FileName:  env.FileName,
		FileURL:   env.FileURL,
		Timestamp: env.Timestamp,
	}
}

func typingEventName(kind Kind) string {
	if kind == KindStopTyping {
		return EventStopTyping
	}
	return EventTyping
}
