package runtime

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu       sync.Mutex
	payloads [][]byte
	fail     bool
}

func (s *recordingSink) Deliver(_ context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return context.Canceled
	}
	s.payloads = append(s.payloads, payload)
	return nil
}

func (s *recordingSink) delivered() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payloads
}

func TestRegistry_Distinct_Identities_Are_Independent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	aliceSink, bobSink := &recordingSink{}, &recordingSink{}
	registry.Register("alice", uuid.New(), aliceSink)
	registry.Register("bob", uuid.New(), bobSink)

	sink, ok := registry.Lookup("alice")
	req.True(ok)
	req.Same(aliceSink, sink.(*recordingSink))

	sink, ok = registry.Lookup("bob")
	req.True(ok)
	req.Same(bobSink, sink.(*recordingSink))

	req.Equal(2, registry.Size())
}

func TestRegistry_Lookup_Unregistered_Returns_None(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	_, ok := registry.Lookup("ghost")
	req.False(ok)
}

func TestRegistry_Second_Connection_Wins(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	oldSink, newSink := &recordingSink{}, &recordingSink{}
	registry.Register("alice", uuid.New(), oldSink)
	registry.Register("alice", uuid.New(), newSink)

	req.Equal(1, registry.Size())
	sink, ok := registry.Lookup("alice")
	req.True(ok)
	req.Same(newSink, sink.(*recordingSink))
}

func TestRegistry_Stale_Disconnect_Does_Not_Evict_Newer_Entry(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	oldConn, newConn := uuid.New(), uuid.New()
	newSink := &recordingSink{}
	registry.Register("alice", oldConn, &recordingSink{})
	registry.Register("alice", newConn, newSink)

	// The superseded connection disconnects after being replaced.
	registry.Unregister("alice", oldConn)

	sink, ok := registry.Lookup("alice")
	req.True(ok)
	req.Same(newSink, sink.(*recordingSink))

	// The live connection's own disconnect does remove the entry.
	registry.Unregister("alice", newConn)
	_, ok = registry.Lookup("alice")
	req.False(ok)
}

func TestRegistry_Concurrent_Mutation(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			userID := string(rune('a' + n%10))
			connID := uuid.New()
			registry.Register(userID, connID, &recordingSink{})
			registry.Lookup(userID)
			registry.Unregister(userID, connID)
		}(i)
	}
	wg.Wait()

	// Every goroutine unregistered its own connID; entries left behind
	// belong to whichever registration raced last, which is at most one
	// per user.
	req.LessOrEqual(registry.Size(), 10)
}
