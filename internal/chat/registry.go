/*
Package chat contains the realtime core of the server: the connection
registry, the room resolver, the message router, and the presence controller.

This file defines the Registry, which owns the bidirectional mapping between
online usernames and live connection handles.
*/
package chat

import (
	"sort"
	"sync"

	"rtchat/internal/pkg/errs"
)

// Registry owns the bijection between online usernames and connection handles.
// At most one live handle maps to a given username and at most one username
// maps to a given handle; every mutation updates both directions under a
// single lock so the two maps can never drift apart.
type Registry struct {
	// mu protects byIdentity and byHandle. They are never locked separately.
	mu sync.RWMutex

	// byIdentity maps username -> connection handle.
	byIdentity map[string]string

	// byHandle maps connection handle -> username.
	byHandle map[string]string
}

// NewRegistry constructs an empty Registry instance.
func NewRegistry() *Registry {
	return &Registry{
		byIdentity: make(map[string]string),
		byHandle:   make(map[string]string),
	}
}

// Register atomically inserts the identity<->handle pair.
// It returns ErrUserAlreadyOnline if the identity already has a live handle;
// under concurrent calls for the same identity exactly one caller succeeds.
func (r *Registry) Register(identity, handle string) *errs.CustomError {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byIdentity[identity]; ok {
		return errs.NewError(errs.ErrUserAlreadyOnline)
	}

	r.byIdentity[identity] = handle
	r.byHandle[handle] = identity

	return nil
}

// UnregisterByHandle removes the entry owning handle and reports the freed
// identity. A handle that was never registered (for example a duplicate
// disconnect) is a no-op and reports false.
func (r *Registry) UnregisterByHandle(handle string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.byHandle[handle]
	if !ok {
		return "", false
	}

	delete(r.byHandle, handle)
	delete(r.byIdentity, identity)

	return identity, true
}

// LookupHandle returns the live connection handle for identity, if any.
func (r *Registry) LookupHandle(identity string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handle, ok := r.byIdentity[identity]
	return handle, ok
}

// LookupIdentity returns the username owning handle, if any.
func (r *Registry) LookupIdentity(handle string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, ok := r.byHandle[handle]
	return identity, ok
}

// SnapshotIdentities returns every online username at a single consistent
// point in time, sorted for stable presentation to clients.
func (r *Registry) SnapshotIdentities() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identities := make([]string, 0, len(r.byIdentity))
	for identity := range r.byIdentity {
		identities = append(identities, identity)
	}

	sort.Strings(identities)
	return identities
}

// SnapshotHandles returns every registered connection handle at a single
// consistent point in time. Used by the router for broadcast fan-out.
func (r *Registry) SnapshotHandles() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handles := make([]string, 0, len(r.byHandle))
	for handle := range r.byHandle {
		handles = append(handles, handle)
	}

	return handles
}
