package deltaship

import (
	"github.com/bft-labs/deltaship/internal/codec"
	"github.com/bft-labs/deltaship/internal/domain"
	"github.com/bft-labs/deltaship/internal/ports"
	"github.com/bft-labs/deltaship/pkg/log"
)

// Re-exported types, so embedders need a single import.
type (
	// Frame is one fixed-length state buffer.
	Frame = domain.Frame

	// Chunk is one unit of encoder output.
	Chunk = domain.Chunk

	// ChunkKind tells Literal, Repeat and End chunks apart.
	ChunkKind = domain.ChunkKind

	// ChunkSink receives chunks in order.
	ChunkSink = ports.ChunkSink

	// ChunkSinkFunc adapts a function to ChunkSink.
	ChunkSinkFunc = ports.ChunkSinkFunc

	// Stats totals the frames of a run.
	Stats = domain.Stats

	// FrameEvent describes one frame exchange.
	FrameEvent = domain.FrameReport

	// Generator mutates the sender's state between frames.
	Generator = ports.StateGenerator

	// Encoder is the sending half of the codec.
	Encoder = codec.Encoder

	// Decoder is the receiving half of the codec.
	Decoder = codec.Decoder

	// Logger is the structured logger accepted by WithLogger.
	Logger = log.Logger

	// LogField is a structured log field.
	LogField = log.Field
)

// Chunk kinds.
const (
	ChunkEnd     = domain.ChunkEnd
	ChunkLiteral = domain.ChunkLiteral
	ChunkRepeat  = domain.ChunkRepeat
)

// Errors, checked with errors.Is.
var (
	ErrAllocation     = domain.ErrAllocation
	ErrLengthMismatch = domain.ErrLengthMismatch
	ErrCapOverflow    = domain.ErrCapOverflow
	ErrMalformedChunk = domain.ErrMalformedChunk
	ErrDesynchronized = domain.ErrDesynchronized
	ErrMidFrame       = domain.ErrMidFrame
	ErrInvalidConfig  = domain.ErrInvalidConfig
	ErrAlreadyRunning = domain.ErrAlreadyRunning
)

// NewEncoder returns an encoder for frames of the given length.
func NewEncoder(length int, xor bool) (*Encoder, error) {
	return codec.NewEncoder(length, codec.Options{XOR: xor})
}

// NewDecoder returns a decoder for frames of the given length. Its options
// must match the encoder's.
func NewDecoder(length int, xor bool) (*Decoder, error) {
	return codec.NewDecoder(length, codec.Options{XOR: xor})
}
