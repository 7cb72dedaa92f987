package registry

import "sync"

// Registry maps a user identity to its single live transport session.
// A reconnect for the same identity overwrites the previous entry; the
// replaced session is not closed here, it stays orphaned until its own
// disconnect fires.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]string // user identity -> transport session id
}

func New() *Registry {
	return &Registry{sessions: make(map[string]string)}
}

// Connect binds identity to sessionID, replacing any prior binding.
// An empty identity is refused; the connection stays unroutable.
func (r *Registry) Connect(identity, sessionID string) bool {
	if identity == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[identity] = sessionID
	return true
}

// Disconnect removes the single entry bound to sessionID and returns the
// identity it was bound to. Identities are 1:1 with sessions, so at most
// one entry can match.
func (r *Registry) Disconnect(sessionID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for identity, sid := range r.sessions {
		if sid == sessionID {
			delete(r.sessions, identity)
			return identity, true
		}
	}
	return "", false
}

// Resolve returns the live session for identity. A miss means the user
// is offline, not an error.
func (r *Registry) Resolve(identity string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sid, ok := r.sessions[identity]
	return sid, ok
}

// Len reports the number of bound sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
