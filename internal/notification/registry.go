package notification

import (
	"sync"

	"github.com/google/uuid"
)

// Sender is one live client connection able to receive frames. Send must
// not block; a full outbound buffer counts as a failed send. Close is the
// best-effort forced shutdown used when a device token is revoked.
type Sender interface {
	Send(frame Frame) error
	Close()
}

// SessionRef pairs a registered sender with its opaque session id.
type SessionRef struct {
	ID     string
	Sender Sender
}

// sessionSet holds every live session for one (user, device token) pair.
// It has its own lock so sends to different pairs never contend.
type sessionSet struct {
	mu       sync.Mutex
	sessions map[string]Sender
}

type sessionKey struct {
	userID  string
	tokenID string
}

// Registry is the process-local map from (user, device token) to live
// connections. Sessions on other server processes are reached through the
// bus, never through shared memory.
type Registry struct {
	mu    sync.RWMutex
	conns map[sessionKey]*sessionSet
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[sessionKey]*sessionSet),
	}
}

// Register adds a live session for the pair and returns an opaque id used
// to remove it later. Multiple sessions per pair are allowed (foreground
// and background app states can briefly hold two connections).
func (r *Registry) Register(userID, tokenID string, s Sender) string {
	key := sessionKey{userID: userID, tokenID: tokenID}
	id := uuid.New().String()

	// The insert happens under the registry lock: releasing it before the
	// insert would let a concurrent Unregister of the last sibling delete
	// the set and strand the new session in an unreachable map.
	r.mu.Lock()
	set, ok := r.conns[key]
	if !ok {
		set = &sessionSet{sessions: make(map[string]Sender)}
		r.conns[key] = set
	}
	set.mu.Lock()
	set.sessions[id] = s
	set.mu.Unlock()
	r.mu.Unlock()

	return id
}

// Unregister removes one session. Idempotent; unknown ids are ignored.
func (r *Registry) Unregister(userID, tokenID, sessionID string) {
	key := sessionKey{userID: userID, tokenID: tokenID}

	r.mu.RLock()
	set, ok := r.conns[key]
	r.mu.RUnlock()
	if !ok {
		return
	}

	set.mu.Lock()
	delete(set.sessions, sessionID)
	empty := len(set.sessions) == 0
	set.mu.Unlock()

	if empty {
		r.mu.Lock()
		// Re-check under the write lock; a concurrent Register may have
		// repopulated the set.
		set.mu.Lock()
		if len(set.sessions) == 0 && r.conns[key] == set {
			delete(r.conns, key)
		}
		set.mu.Unlock()
		r.mu.Unlock()
	}
}

// Lookup returns a snapshot of the live sessions for the pair; empty if
// none are connected to this process.
func (r *Registry) Lookup(userID, tokenID string) []SessionRef {
	key := sessionKey{userID: userID, tokenID: tokenID}

	r.mu.RLock()
	set, ok := r.conns[key]
	r.mu.RUnlock()
	if !ok {
		return nil
	}

	set.mu.Lock()
	refs := make([]SessionRef, 0, len(set.sessions))
	for id, s := range set.sessions {
		refs = append(refs, SessionRef{ID: id, Sender: s})
	}
	set.mu.Unlock()

	return refs
}

// CloseAll force-closes and removes every session for the pair. Used when
// the device token is revoked; best effort, not guaranteed instantaneous.
func (r *Registry) CloseAll(userID, tokenID string) {
	key := sessionKey{userID: userID, tokenID: tokenID}

	r.mu.Lock()
	set, ok := r.conns[key]
	if ok {
		delete(r.conns, key)
	}
	r.mu.Unlock()
	if !ok {
		return
	}

	set.mu.Lock()
	senders := make([]Sender, 0, len(set.sessions))
	for _, s := range set.sessions {
		senders = append(senders, s)
	}
	set.sessions = make(map[string]Sender)
	set.mu.Unlock()

	for _, s := range senders {
		s.Close()
	}
}

// Count returns the total number of live sessions in this process.
func (r *Registry) Count() int {
	r.mu.RLock()
	sets := make([]*sessionSet, 0, len(r.conns))
	for _, set := range r.conns {
		sets = append(sets, set)
	}
	r.mu.RUnlock()

	total := 0
	for _, set := range sets {
		set.mu.Lock()
		total += len(set.sessions)
		set.mu.Unlock()
	}
	return total
}
