package notification

import (
	"sync"

	authdomain "habitlink-backend/internal/auth/domain"
)

// Store is the read-only persistence the cache loads from on a miss.
type Store interface {
	GetUserByID(id string) (*authdomain.User, error)
	GetDeviceTokensByUser(userID string) ([]authdomain.DeviceToken, error)
}

// Snapshot is the cached, possibly stale, copy of one user's profile and
// device tokens. Replaced wholesale, never mutated in place.
type Snapshot struct {
	User   authdomain.User
	Tokens []authdomain.DeviceToken
}

// Cache is the process-local user/device cache. It is eventually consistent
// with the store through bus invalidation events and disposable at any
// time: clearing it only costs extra reads, never correctness.
type Cache struct {
	mu    sync.RWMutex
	users map[string]*Snapshot
}

func NewCache() *Cache {
	return &Cache{
		users: make(map[string]*Snapshot),
	}
}

// Get returns the cached snapshot without touching the store.
func (c *Cache) Get(userID string) (*Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap, ok := c.users[userID]
	return snap, ok
}

// GetOrLoad returns the cached snapshot, loading it from the store on a
// miss: one profile read plus one device-token read. Concurrent misses may
// race and load twice; the loads are idempotent and last write wins.
// Returns (nil, nil) when the store has no such user.
func (c *Cache) GetOrLoad(userID string, store Store) (*Snapshot, error) {
	if snap, ok := c.Get(userID); ok {
		return snap, nil
	}

	user, err := store.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	tokens, err := store.GetDeviceTokensByUser(userID)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{User: *user, Tokens: tokens}
	c.mu.Lock()
	c.users[userID] = snap
	c.mu.Unlock()
	return snap, nil
}

// Apply patches or evicts cache entries from a bus event. It is the sole
// mutation path besides GetOrLoad and is idempotent: applying the same
// event twice leaves the cache unchanged. Notification events are ignored.
func (c *Cache) Apply(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev := ev.(type) {
	case *UserUpdatedEvent:
		// Only patch entries that are already loaded; absent users load
		// lazily with fresh data anyway.
		if snap, ok := c.users[ev.User.ID]; ok {
			c.users[ev.User.ID] = &Snapshot{User: ev.User, Tokens: snap.Tokens}
		}

	case *UserRemovedEvent:
		delete(c.users, ev.UserID)

	case *TokenUpdatedEvent:
		if snap, ok := c.users[ev.User.ID]; ok {
			tokens := make([]authdomain.DeviceToken, 0, len(snap.Tokens)+1)
			replaced := false
			for _, t := range snap.Tokens {
				if t.ID == ev.Token.ID {
					tokens = append(tokens, ev.Token)
					replaced = true
				} else {
					tokens = append(tokens, t)
				}
			}
			if !replaced {
				tokens = append(tokens, ev.Token)
			}
			c.users[ev.User.ID] = &Snapshot{User: ev.User, Tokens: tokens}
		}

	case *TokenRemovedEvent:
		if snap, ok := c.users[ev.UserID]; ok {
			tokens := make([]authdomain.DeviceToken, 0, len(snap.Tokens))
			for _, t := range snap.Tokens {
				if t.ID != ev.TokenID {
					tokens = append(tokens, t)
				}
			}
			c.users[ev.UserID] = &Snapshot{User: snap.User, Tokens: tokens}
		}
	}
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.users = make(map[string]*Snapshot)
	c.mu.Unlock()
}

// Len returns the number of cached users.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.users)
}
