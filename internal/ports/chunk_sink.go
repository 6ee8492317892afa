package ports

import "github.com/bft-labs/deltaship/internal/domain"

// ChunkSink consumes chunks in the order they are emitted.
// Implementations must deliver every chunk exactly once and in order; a
// returned error means the chunk was not delivered.
type ChunkSink interface {
	Emit(chunk domain.Chunk) error
}

// ChunkSinkFunc adapts a function to ChunkSink.
type ChunkSinkFunc func(chunk domain.Chunk) error

// Emit calls f(chunk).
func (f ChunkSinkFunc) Emit(chunk domain.Chunk) error {
	return f(chunk)
}

// Channel is a ChunkSink that counts the traffic it carries.
type Channel interface {
	ChunkSink

	// Traffic returns the running totals since the channel was created.
	Traffic() domain.Traffic
}
