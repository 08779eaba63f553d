package chat

import "fmt"

// RoomID derives the stable pairing identifier for a private conversation
// between two distinct users. The names are ordered lexicographically and
// length-prefixed before concatenation, so RoomID(a, b) == RoomID(b, a) and
// no two distinct unordered pairs can produce the same identifier, whatever
// characters a username contains.
//
// Callers must pass two distinct, non-empty names; rooms are recomputed on
// demand and never stored.
func RoomID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%s_%d:%s", len(a), a, len(b), b)
}
