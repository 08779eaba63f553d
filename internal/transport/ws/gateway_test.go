package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"rtchat/internal/chat"
)

func newQueuedClient(handle string) *Client {
	return NewClient(handle, nil, nil, nil, nil)
}

// drain reads every frame currently queued for the client.
func drain(t *testing.T, c *Client) []chat.Event {
	t.Helper()

	var events []chat.Event
	for {
		select {
		case frame := <-c.send:
			var event chat.Event
			require.NoError(t, json.Unmarshal(frame, &event))
			events = append(events, event)
		default:
			return events
		}
	}
}

func TestGateway_SendReachesOneClient(t *testing.T) {
	req := require.New(t)
	gateway := NewGateway()

	ann := newQueuedClient("conn_ann")
	bob := newQueuedClient("conn_bob")
	gateway.Attach(ann)
	gateway.Attach(bob)

	gateway.Send("conn_ann", chat.Event{Name: chat.EventJoinSuccess})

	annEvents := drain(t, ann)
	req.Len(annEvents, 1)
	req.Equal(chat.EventJoinSuccess, annEvents[0].Name)

	req.Empty(drain(t, bob))
}

func TestGateway_SendUnknownHandleIgnored(t *testing.T) {
	gateway := NewGateway()

	// Stale handles are dropped without noise.
	gateway.Send("conn_gone", chat.Event{Name: chat.EventSystemMessage})
}

func TestGateway_BroadcastReachesEveryClient(t *testing.T) {
	req := require.New(t)
	gateway := NewGateway()

	ann := newQueuedClient("conn_ann")
	bob := newQueuedClient("conn_bob")
	gateway.Attach(ann)
	gateway.Attach(bob)

	gateway.Broadcast(chat.Event{Name: chat.EventUserListUpdate, Payload: []string{"ann"}})

	for _, c := range []*Client{ann, bob} {
		events := drain(t, c)
		req.Len(events, 1)
		req.Equal(chat.EventUserListUpdate, events[0].Name)
	}
}

func TestGateway_PerRecipientOrderPreserved(t *testing.T) {
	req := require.New(t)
	gateway := NewGateway()

	ann := newQueuedClient("conn_ann")
	gateway.Attach(ann)

	gateway.Send("conn_ann", chat.Event{Name: chat.EventNewMessage, Payload: "first"})
	gateway.Send("conn_ann", chat.Event{Name: chat.EventNewMessage, Payload: "second"})
	gateway.Send("conn_ann", chat.Event{Name: chat.EventSystemMessage})

	events := drain(t, ann)
	req.Len(events, 3)
	req.Equal("first", events[0].Payload)
	req.Equal("second", events[1].Payload)
	req.Equal(chat.EventSystemMessage, events[2].Name)
}

func TestGateway_DetachClosesSendQueue(t *testing.T) {
	req := require.New(t)
	gateway := NewGateway()

	ann := newQueuedClient("conn_ann")
	gateway.Attach(ann)
	gateway.Detach("conn_ann")

	_, open := <-ann.send
	req.False(open)

	// Sends after detach are ignored, and a second detach is a no-op.
	gateway.Send("conn_ann", chat.Event{Name: chat.EventSystemMessage})
	gateway.Detach("conn_ann")
}
