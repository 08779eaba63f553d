package chat

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"rtchat/internal/pkg/errs"
)

func TestRegistry_Register_DistinctIdentities(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	req.Nil(registry.Register("ann", "conn_1"))
	req.Nil(registry.Register("bob", "conn_2"))
	req.Nil(registry.Register("carol", "conn_3"))

	req.Equal([]string{"ann", "bob", "carol"}, registry.SnapshotIdentities())

	handle, ok := registry.LookupHandle("bob")
	req.True(ok)
	req.Equal("conn_2", handle)

	identity, ok := registry.LookupIdentity("conn_3")
	req.True(ok)
	req.Equal("carol", identity)
}

func TestRegistry_Register_DuplicateIdentity(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	req.Nil(registry.Register("alice", "conn_1"))

	customErr := registry.Register("alice", "conn_2")
	req.NotNil(customErr)
	req.Equal(errs.ErrUserAlreadyOnline, customErr.Code)

	// The original mapping must survive the rejected attempt.
	handle, ok := registry.LookupHandle("alice")
	req.True(ok)
	req.Equal("conn_1", handle)

	_, ok = registry.LookupIdentity("conn_2")
	req.False(ok)
}

func TestRegistry_UnregisterByHandle(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	req.Nil(registry.Register("ann", "conn_1"))

	identity, freed := registry.UnregisterByHandle("conn_1")
	req.True(freed)
	req.Equal("ann", identity)

	_, ok := registry.LookupHandle("ann")
	req.False(ok)
	req.Empty(registry.SnapshotIdentities())

	// A duplicate disconnect is a no-op, never an error.
	_, freed = registry.UnregisterByHandle("conn_1")
	req.False(freed)
}

func TestRegistry_UnregisterUnknownHandle(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	_, freed := registry.UnregisterByHandle("conn_never_seen")
	req.False(freed)
}

func TestRegistry_ConcurrentRegister_SameIdentity(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	const attempts = 64

	var wg sync.WaitGroup
	results := make(chan *errs.CustomError, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results <- registry.Register("alice", fmt.Sprintf("conn_%d", n))
		}(i)
	}

	wg.Wait()
	close(results)

	successes := 0
	for customErr := range results {
		if customErr == nil {
			successes++
		} else {
			req.Equal(errs.ErrUserAlreadyOnline, customErr.Code)
		}
	}

	req.Equal(1, successes)
	req.Equal([]string{"alice"}, registry.SnapshotIdentities())
}

func TestRegistry_ConcurrentRegister_DistinctIdentities(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	const users = 64

	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			customErr := registry.Register(fmt.Sprintf("user_%02d", n), fmt.Sprintf("conn_%02d", n))
			require.Nil(t, customErr)
		}(i)
	}
	wg.Wait()

	identities := registry.SnapshotIdentities()
	req.Len(identities, users)

	// Both directions of the mapping must agree for every user.
	for i := 0; i < users; i++ {
		identity := fmt.Sprintf("user_%02d", i)
		handle, ok := registry.LookupHandle(identity)
		req.True(ok)

		back, ok := registry.LookupIdentity(handle)
		req.True(ok)
		req.Equal(identity, back)
	}
}
