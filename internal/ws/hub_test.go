package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHub_EmitDeliversEnvelope(t *testing.T) {
	req := require.New(t)
	h := NewHub(zap.NewNop().Sugar())
	c := NewClient(nil, "sess-1", "alice")
	h.Register(c)

	h.Emit("sess-1", "receiveMessage", map[string]string{"content": "hi"})

	var frame []byte
	select {
	case frame = <-c.send:
	default:
		req.Fail("no frame queued")
	}

	var env Envelope
	req.NoError(json.Unmarshal(frame, &env))
	req.Equal("receiveMessage", env.Type)

	var payload map[string]string
	req.NoError(json.Unmarshal(env.Payload, &payload))
	req.Equal("hi", payload["content"])
}

func TestHub_EmitUnknownSessionDrops(t *testing.T) {
	h := NewHub(zap.NewNop().Sugar())

	// Stale session id after a disconnect: must not panic or block.
	h.Emit("sess-gone", "receiveMessage", map[string]string{"content": "hi"})
}

func TestHub_EmitFullBufferDrops(t *testing.T) {
	req := require.New(t)
	h := NewHub(zap.NewNop().Sugar())
	c := NewClient(nil, "sess-1", "alice")
	h.Register(c)

	for i := 0; i < sendBufferSize; i++ {
		req.True(c.Queue([]byte("x")))
	}

	// Buffer is full; the emit returns without blocking.
	h.Emit("sess-1", "typing", map[string]string{"senderId": "bob"})
	req.Len(c.send, sendBufferSize)
}

func TestHub_UnregisterRemovesSession(t *testing.T) {
	req := require.New(t)
	h := NewHub(zap.NewNop().Sugar())
	c := NewClient(nil, "sess-1", "alice")
	h.Register(c)
	req.Equal(1, h.Len())

	h.Unregister("sess-1")
	req.Equal(0, h.Len())

	h.Emit("sess-1", "typing", nil)
	req.Empty(c.send)
}

func TestClient_QueueAfterCloseRefuses(t *testing.T) {
	req := require.New(t)
	c := NewClient(nil, "sess-1", "alice")
	c.Close()

	req.False(c.Queue([]byte("x")))
	req.Equal(StateDisconnected, c.State())
}

func TestClient_StateTransitions(t *testing.T) {
	req := require.New(t)

	bound := NewClient(nil, "sess-1", "alice")
	req.Equal(StateConnecting, bound.State())
	bound.markConnected()
	req.Equal(StateConnectedBound, bound.State())

	unbound := NewClient(nil, "sess-2", "")
	unbound.markConnected()
	req.Equal(StateConnectedUnbound, unbound.State())

	// Disconnected is terminal; a late markConnected is a no-op.
	bound.Close()
	bound.markConnected()
	req.Equal(StateDisconnected, bound.State())
}
