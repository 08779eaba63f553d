package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestPresence builds a presence controller over a fresh registry with
// the given handles already tracked (connected, anonymous).
func newTestPresence(handles ...string) (*PresenceController, *Registry, *fakeTransport) {
	registry := NewRegistry()
	transport := newFakeTransport()
	presence := NewPresenceController(registry, transport)

	for _, handle := range handles {
		presence.Track(handle)
	}

	return presence, registry, transport
}

func TestPresence_JoinSuccess(t *testing.T) {
	req := require.New(t)
	presence, registry, transport := newTestPresence("conn_1")

	presence.Join("conn_1", "ann")

	events := transport.eventsFor("conn_1")
	req.Len(events, 1)
	req.Equal(EventJoinSuccess, events[0].Name)

	req.Equal(1, transport.broadcastCount(EventUserListUpdate))
	req.Equal([]string{"ann"}, transport.broadcasts[0].Payload)

	handle, ok := registry.LookupHandle("ann")
	req.True(ok)
	req.Equal("conn_1", handle)
}

func TestPresence_JoinDuplicateIdentityRejected(t *testing.T) {
	req := require.New(t)
	presence, registry, transport := newTestPresence("conn_1", "conn_2")

	presence.Join("conn_1", "alice")
	presence.Join("conn_2", "alice")

	// The second connection gets a rejection and nothing else changes.
	events := transport.eventsFor("conn_2")
	req.Len(events, 1)
	req.Equal(EventJoinError, events[0].Name)
	req.NotEmpty(events[0].Payload.(JoinErrorPayload).Error)

	handle, ok := registry.LookupHandle("alice")
	req.True(ok)
	req.Equal("conn_1", handle)

	// Only the first join published a user list.
	req.Equal(1, transport.broadcastCount(EventUserListUpdate))

	// The rejected connection can retry under another name.
	presence.Join("conn_2", "alice2")
	req.Equal(1, transport.countByName("conn_2", EventJoinSuccess))
	req.Equal([]string{"alice", "alice2"}, registry.SnapshotIdentities())
}

func TestPresence_JoinInvalidUsername(t *testing.T) {
	req := require.New(t)
	presence, registry, transport := newTestPresence("conn_1")

	presence.Join("conn_1", "")
	presence.Join("conn_1", GlobalRecipient)

	req.Equal(2, transport.countByName("conn_1", EventJoinError))
	req.Zero(transport.countByName("conn_1", EventJoinSuccess))
	req.Empty(registry.SnapshotIdentities())
}

func TestPresence_JoinUntrackedHandleIgnored(t *testing.T) {
	req := require.New(t)
	presence, registry, transport := newTestPresence()

	presence.Join("conn_never_tracked", "ann")

	req.Empty(transport.eventsFor("conn_never_tracked"))
	req.Empty(registry.SnapshotIdentities())
}

func TestPresence_LeaveBroadcastsUpdatedList(t *testing.T) {
	req := require.New(t)
	presence, registry, transport := newTestPresence("conn_1", "conn_2")

	presence.Join("conn_1", "ann")
	presence.Join("conn_2", "bob")
	req.Equal(2, transport.broadcastCount(EventUserListUpdate))

	presence.Leave("conn_1")

	req.Equal(3, transport.broadcastCount(EventUserListUpdate))
	req.Equal([]string{"bob"}, transport.broadcasts[2].Payload)
	req.Equal([]string{"bob"}, registry.SnapshotIdentities())
}

func TestPresence_LeaveIdempotent(t *testing.T) {
	req := require.New(t)
	presence, _, transport := newTestPresence("conn_1")

	presence.Join("conn_1", "ann")
	broadcastsAfterJoin := transport.broadcastCount(EventUserListUpdate)

	presence.Leave("conn_1")
	presence.Leave("conn_1")

	// The second leave is a no-op: at most one list broadcast per departure.
	req.Equal(broadcastsAfterJoin+1, transport.broadcastCount(EventUserListUpdate))
}

func TestPresence_AnonymousDisconnectIsSilent(t *testing.T) {
	req := require.New(t)
	presence, _, transport := newTestPresence("conn_1")

	// Connected but never joined; the departure concerns nobody.
	presence.Leave("conn_1")

	req.Empty(transport.broadcasts)
}

func TestPresence_HandleCannotRejoinAfterLeave(t *testing.T) {
	req := require.New(t)
	presence, registry, transport := newTestPresence("conn_1")

	presence.Join("conn_1", "ann")
	presence.Leave("conn_1")

	// Gone is terminal for a handle; the transport never reuses them.
	presence.Join("conn_1", "ann")

	req.Empty(registry.SnapshotIdentities())
	req.Equal(1, transport.countByName("conn_1", EventJoinSuccess))
}

func TestPresence_JoinSequenceSnapshotMatches(t *testing.T) {
	req := require.New(t)
	presence, registry, transport := newTestPresence("conn_1", "conn_2", "conn_3")

	presence.Join("conn_1", "carol")
	presence.Join("conn_2", "ann")
	presence.Join("conn_3", "bob")

	req.Equal([]string{"ann", "bob", "carol"}, registry.SnapshotIdentities())

	// The final published list reflects everyone, sorted.
	last := transport.broadcasts[len(transport.broadcasts)-1]
	req.Equal(EventUserListUpdate, last.Name)
	req.Equal([]string{"ann", "bob", "carol"}, last.Payload)
}
