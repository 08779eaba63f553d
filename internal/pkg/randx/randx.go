/*
Package randx provides functions for generating cryptographically secure
random identifiers.

It is primarily used to mint the opaque per-connection handles issued by the
WebSocket transport.
*/
package randx

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	// ConnHandlePrefix marks transport-issued connection handles.
	ConnHandlePrefix = "conn_"

	// ConnHandleRawLength is the length of the random Base62 part of a handle.
	ConnHandleRawLength = 12
)

// base62String returns a cryptographically random Base62 string of length n.
func base62String(n int) (string, error) {
	var sb strings.Builder
	sb.Grow(n)

	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", err
		}
		sb.WriteByte(Base62Chars[num.Int64()])
	}

	return sb.String(), nil
}

// ConnHandle mints an opaque identifier for one physical connection. The
// 62^12 random space makes collision between live handles negligible, so a
// handle is never reused while another is alive.
func ConnHandle() (string, error) {
	s, err := base62String(ConnHandleRawLength)
	if err != nil {
		return "", err
	}

	return ConnHandlePrefix + s, nil
}
