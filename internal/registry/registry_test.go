package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Connect_Overwrites(t *testing.T) {
	req := require.New(t)
	r := New()

	// Given a user connected on one session
	req.True(r.Connect("user-a", "sess-1"))

	// When the same user connects again from a new session
	req.True(r.Connect("user-a", "sess-2"))

	// Then the new session wins and no duplicate entry exists
	sid, ok := r.Resolve("user-a")
	req.True(ok)
	req.Equal("sess-2", sid)
	req.Equal(1, r.Len())
}

func TestRegistry_Connect_EmptyIdentity(t *testing.T) {
	req := require.New(t)
	r := New()

	req.False(r.Connect("", "sess-1"))
	req.Equal(0, r.Len())
}

func TestRegistry_Disconnect_RemovesOnlyMatch(t *testing.T) {
	req := require.New(t)
	r := New()
	r.Connect("user-a", "sess-1")
	r.Connect("user-b", "sess-2")
	r.Connect("user-c", "sess-3")

	// When one session disconnects
	identity, ok := r.Disconnect("sess-2")
	req.True(ok)
	req.Equal("user-b", identity)

	// Then only its entry is gone
	_, ok = r.Resolve("user-b")
	req.False(ok)
	sid, ok := r.Resolve("user-a")
	req.True(ok)
	req.Equal("sess-1", sid)
	sid, ok = r.Resolve("user-c")
	req.True(ok)
	req.Equal("sess-3", sid)
	req.Equal(2, r.Len())
}

func TestRegistry_Disconnect_UnknownSession(t *testing.T) {
	req := require.New(t)
	r := New()
	r.Connect("user-a", "sess-1")

	_, ok := r.Disconnect("sess-unknown")
	req.False(ok)
	req.Equal(1, r.Len())
}

func TestRegistry_Disconnect_StaleSessionAfterReconnect(t *testing.T) {
	req := require.New(t)
	r := New()

	// Given a reconnect replaced sess-1 with sess-2
	r.Connect("user-a", "sess-1")
	r.Connect("user-a", "sess-2")

	// When the orphaned session finally disconnects
	_, ok := r.Disconnect("sess-1")

	// Then nothing is removed: the entry now belongs to sess-2
	req.False(ok)
	sid, ok := r.Resolve("user-a")
	req.True(ok)
	req.Equal("sess-2", sid)
}

func TestRegistry_Resolve_Offline(t *testing.T) {
	req := require.New(t)
	r := New()

	sid, ok := r.Resolve("nobody")
	req.False(ok)
	req.Empty(sid)
}
