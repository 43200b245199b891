package runtime

import (
	"sync"

	"unimarket/contract"

	"github.com/google/uuid"
)

type entry struct {
	connID uuid.UUID
	sink   contract.Sink
}

// Registry is the process-wide map from authenticated user to live
// connection sink. It is the only shared mutable state of the chat core and
// is safe for concurrent use from any number of connection goroutines.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]entry),
	}
}

// Register installs the sink as the live connection for the user,
// unconditionally replacing any previous entry (last-connect-wins). The
// replaced sink is orphaned, not closed: its own disconnect path still runs
// and is made harmless by the connID check in Unregister.
func (r *Registry) Register(userID string, connID uuid.UUID, sink contract.Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[userID] = entry{connID: connID, sink: sink}
}

// Lookup returns the user's current live sink, if any. It never blocks.
func (r *Registry) Lookup(userID string) (contract.Sink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[userID]
	if !ok {
		return nil, false
	}
	return e.sink, true
}

// Unregister removes the user's entry only if it still belongs to the given
// connection. A stale disconnect (an old connection of a user who has since
// reconnected) must not evict the newer registration.
func (r *Registry) Unregister(userID string, connID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[userID]; ok && e.connID == connID {
		delete(r.entries, userID)
	}
}

// Size returns the number of live entries, for stats reporting.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}
