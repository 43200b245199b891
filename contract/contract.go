//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"

	"github.com/google/uuid"
)

// Sink is the opaque per-connection output capability. A Sink pushes an
// already-serialized envelope to exactly one remote peer. Implementations
// must never block the caller: a full outbound buffer counts as delivered,
// transport-level guarantees belong to the transport.
type Sink interface {
	Deliver(ctx context.Context, payload []byte) error
}

// IRegistry tracks which authenticated user currently owns a live Sink.
// At most one entry per user exists at a time; a second connection from the
// same user silently replaces the first (last-connect-wins).
type IRegistry interface {
	Register(userID string, connID uuid.UUID, sink Sink)
	Lookup(userID string) (Sink, bool)
	Unregister(userID string, connID uuid.UUID)
	Size() int
}
