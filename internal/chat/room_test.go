package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoomID_Commutative(t *testing.T) {
	req := require.New(t)

	pairs := [][2]string{
		{"alice", "bob"},
		{"bob", "alice"},
		{"ann", "carol"},
		{"Zed", "ann"},
		{"user_1", "user_2"},
	}

	for _, pair := range pairs {
		req.Equal(RoomID(pair[0], pair[1]), RoomID(pair[1], pair[0]),
			"RoomID(%q, %q) must be order-independent", pair[0], pair[1])
	}
}

func TestRoomID_DistinctPairsDistinctIDs(t *testing.T) {
	req := require.New(t)

	// Underscore-bearing names are the classic collision trap for naive
	// separator-joined identifiers.
	names := []string{"a", "b", "c", "d", "a_b", "b_c", "ann", "ann_"}

	seen := make(map[string][2]string)
	for i, x := range names {
		for j, y := range names {
			if i == j {
				continue
			}

			id := RoomID(x, y)
			if prev, ok := seen[id]; ok {
				samePair := (prev[0] == x && prev[1] == y) || (prev[0] == y && prev[1] == x)
				req.True(samePair, "pairs (%q,%q) and (%q,%q) collided on %q", prev[0], prev[1], x, y, id)
				continue
			}
			seen[id] = [2]string{x, y}
		}
	}
}
