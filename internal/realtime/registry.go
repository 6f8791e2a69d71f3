package realtime

import (
	"sync"

	"menthub/internal/core/domain"
)

// Registry is the process-local presence map: connection id to identity
// snapshot. One identity may hold several simultaneous connections
// (multi-device); the identity counts as online while at least one remains.
// The registry is rebuilt empty on restart and is never persisted.
type Registry struct {
	mu     sync.RWMutex
	conns  map[string]domain.Identity
	byUser map[domain.UserID]int
}

func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[string]domain.Identity),
		byUser: make(map[domain.UserID]int),
	}
}

// Register inserts the connection and reports whether this is the
// identity's zero-to-one transition, i.e. whether a user_online broadcast
// is due.
func (r *Registry) Register(connID string, identity domain.Identity) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.conns[connID]; exists {
		return false
	}
	r.conns[connID] = identity
	r.byUser[identity.ID]++
	return r.byUser[identity.ID] == 1
}

// Deregister removes the connection and reports whether it was the
// identity's last one. The offline broadcast fires only on true
// last-connection drops.
func (r *Registry) Deregister(connID string) (domain.Identity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, exists := r.conns[connID]
	if !exists {
		return domain.Identity{}, false
	}
	delete(r.conns, connID)

	r.byUser[identity.ID]--
	if r.byUser[identity.ID] <= 0 {
		delete(r.byUser, identity.ID)
		return identity, true
	}
	return identity, false
}

// IsOnline reports whether the identity has at least one connection.
func (r *Registry) IsOnline(id domain.UserID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byUser[id] > 0
}

// OnlineUsers returns the de-duplicated ids of all online identities,
// used to seed a newly connected client.
func (r *Registry) OnlineUsers() []domain.UserID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.UserID, 0, len(r.byUser))
	for id := range r.byUser {
		users = append(users, id)
	}
	return users
}

// ConnectionCount returns the number of live connections.
func (r *Registry) ConnectionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
