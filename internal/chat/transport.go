package chat

// Transport delivers already-addressed events to connected endpoints.
// Implementations must not block the caller: delivery is queued per
// connection and per-recipient order matches submission order. Routing and
// presence updates therefore always complete synchronously and in memory.
type Transport interface {
	// Send queues an event for one connection handle. Unknown or stale
	// handles are ignored.
	Send(handle string, event Event)

	// Broadcast queues an event for every connected endpoint, whether or
	// not it has joined.
	Broadcast(event Event)
}
