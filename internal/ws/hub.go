package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Envelope frames every message on the wire, both directions.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub tracks live connections by transport session id and delivers
// outbound events to them. Delivery is best effort: an unknown session
// id (already disconnected) or a full send buffer drops the event.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client // session id -> client
	log     *zap.SugaredLogger
}

func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		log:     log,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.SessionID] = c
}

func (h *Hub) Unregister(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, sessionID)
}

// Emit marshals an envelope and queues it on the target session.
func (h *Hub) Emit(sessionID, event string, payload any) {
	h.mu.RLock()
	c, ok := h.clients[sessionID]
	h.mu.RUnlock()
	if !ok {
		// Session closed between resolve and emit; drop.
		h.log.Debugw("emit to unknown session", "session", sessionID, "event", event)
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		h.log.Errorw("marshal outbound payload", "event", event, "err", err)
		return
	}
	frame, err := json.Marshal(Envelope{Type: event, Payload: raw})
	if err != nil {
		h.log.Errorw("marshal outbound envelope", "event", event, "err", err)
		return
	}
	if !c.Queue(frame) {
		h.log.Warnw("send buffer full, dropping event",
			"session", sessionID, "identity", c.Identity, "event", event)
	}
}

// Len reports the number of live connections, bound or not.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
