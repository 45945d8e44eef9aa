package chathub

import (
	"hash/fnv"
	"sync"

	"eventchat/backend/internal/config"
)

// Registry maps authenticated user identities to their connected client
// handles. It is process-local and sharded so concurrent connect,
// disconnect and lookup traffic never contends on one lock.
//
// At most one handle is tracked per user: a new register replaces the old
// handle (last connect wins).
type Registry struct {
	shards [config.RegistryShards]registryShard
}

type registryShard struct {
	mu      sync.RWMutex
	clients map[string]Client
}

func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.shards {
		r.shards[i].clients = make(map[string]Client)
	}
	return r
}

func (r *Registry) shard(userID string) *registryShard {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return &r.shards[h.Sum32()%config.RegistryShards]
}

// Register associates the client's user with the handle, replacing any
// prior handle for that user. The replaced handle, if any, is returned so
// the caller can close it.
func (r *Registry) Register(c Client) (replaced Client) {
	s := r.shard(c.GetUserID())
	s.mu.Lock()
	defer s.mu.Unlock()
	replaced = s.clients[c.GetUserID()]
	s.clients[c.GetUserID()] = c
	return replaced
}

// Unregister removes the association only when c is still the registered
// handle, so a stale disconnect cannot evict a newer session. Reports
// whether the entry was removed.
func (r *Registry) Unregister(c Client) bool {
	s := r.shard(c.GetUserID())
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.clients[c.GetUserID()]; ok && current == c {
		delete(s.clients, c.GetUserID())
		return true
	}
	return false
}

// Get returns the currently registered handle for a user.
func (r *Registry) Get(userID string) (Client, bool) {
	s := r.shard(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[userID]
	return c, ok
}

// IsOnline reports whether the user has a registered handle.
func (r *Registry) IsOnline(userID string) bool {
	_, ok := r.Get(userID)
	return ok
}

// Snapshot returns the currently connected clients.
func (r *Registry) Snapshot() []Client {
	var out []Client
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.RLock()
		for _, c := range s.clients {
			out = append(out, c)
		}
		s.mu.RUnlock()
	}
	return out
}

// OnlineUsers returns the identities of all currently connected users.
func (r *Registry) OnlineUsers() []string {
	var out []string
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.RLock()
		for id := range s.clients {
			out = append(out, id)
		}
		s.mu.RUnlock()
	}
	return out
}

// Count returns the number of online users.
func (r *Registry) Count() int {
	n := 0
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.RLock()
		n += len(s.clients)
		s.mu.RUnlock()
	}
	return n
}
