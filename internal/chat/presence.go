/*
Package chat contains the realtime core of the server.

This file defines the PresenceController, which drives the join/leave
lifecycle of every connection and publishes the online-user list whenever it
changes.
*/
package chat

import (
	"sync"

	"github.com/rs/zerolog"

	"rtchat/internal/pkg/errs"
	"rtchat/internal/pkg/logx"
)

// connState is the lifecycle state of one connection handle.
type connState int

const (
	// stateAnonymous: connected, no identity claimed yet.
	stateAnonymous connState = iota

	// stateOnline: identity registered, participating in chat.
	stateOnline
)

// A handle leaves the states map permanently on disconnect; absence after a
// Leave is the terminal "gone" state. The transport never reuses handles.

// PresenceController enforces username uniqueness at join time and keeps
// every client's view of the online-user list current.
type PresenceController struct {
	registry  *Registry
	transport Transport

	// mu serializes state transitions and list publication, so two
	// interleaved joins can never publish user lists out of order.
	mu     sync.Mutex
	states map[string]connState

	logger zerolog.Logger
}

// NewPresenceController constructs a PresenceController over the given
// registry and transport.
func NewPresenceController(registry *Registry, transport Transport) *PresenceController {
	return &PresenceController{
		registry:  registry,
		transport: transport,
		states:    make(map[string]connState),
		logger:    logx.Logger().With().Str("component", "Presence").Logger(),
	}
}

// Track records a freshly connected handle in the anonymous state. Must be
// called once per connection before any Join or Leave for that handle.
func (p *PresenceController) Track(handle string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.states[handle] = stateAnonymous
}

// Join attempts to bring handle online under the given username. On a
// username collision the join is rejected to the caller only: no state
// changes and nothing is broadcast. On success the caller gets a
// join_success event and every connection gets the updated user list.
func (p *PresenceController) Join(handle, identity string) {
	if identity == "" || identity == GlobalRecipient {
		p.transport.Send(handle, Event{
			Name:    EventJoinError,
			Payload: JoinErrorPayload{Error: errs.NewError(errs.ErrInvalidUsername).Message},
		})
		return
	}

	p.mu.Lock()

	state, tracked := p.states[handle]
	if !tracked || state != stateAnonymous {
		p.mu.Unlock()
		p.logger.Warn().
			Str("handle", handle).
			Str("identity", identity).
			Msg("Ignoring join from handle not in anonymous state")
		return
	}

	if customErr := p.registry.Register(identity, handle); customErr != nil {
		p.mu.Unlock()
		p.logger.Info().
			Str("handle", handle).
			Str("identity", identity).
			Msg("Join rejected: username already online")

		p.transport.Send(handle, Event{
			Name:    EventJoinError,
			Payload: JoinErrorPayload{Error: customErr.Message},
		})
		return
	}

	p.states[handle] = stateOnline

	p.logger.Info().
		Str("handle", handle).
		Str("identity", identity).
		Msg("User joined")

	p.transport.Send(handle, Event{Name: EventJoinSuccess})
	p.publishUserListLocked()

	p.mu.Unlock()
}

// Leave transitions handle out of the chat. Safe to call any number of
// times: only the call that actually frees an identity broadcasts the
// updated user list. A connection that disconnects before joining leaves
// silently.
func (p *PresenceController) Leave(handle string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, tracked := p.states[handle]; !tracked {
		return
	}
	delete(p.states, handle)

	identity, freed := p.registry.UnregisterByHandle(handle)
	if !freed {
		return
	}

	p.logger.Info().
		Str("handle", handle).
		Str("identity", identity).
		Msg("User left")

	p.publishUserListLocked()
}

// publishUserListLocked broadcasts the current online-user list to every
// connection, joined or not. Callers must hold p.mu; the transport is
// non-blocking so holding the lock across the fan-out is safe and keeps
// successive lists in publication order.
func (p *PresenceController) publishUserListLocked() {
	p.transport.Broadcast(Event{
		Name:    EventUserListUpdate,
		Payload: p.registry.SnapshotIdentities(),
	})
}
