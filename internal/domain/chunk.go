package domain

import "fmt"

// Chunk caps.
const (
	// MaxLiteralLen is the largest number of explicit bytes in a Literal chunk.
	MaxLiteralLen = 16

	// MaxRepeatCount is the largest replication count of a Repeat chunk.
	MaxRepeatCount = 255
)

// ChunkKind identifies the variant of a Chunk.
type ChunkKind uint8

const (
	ChunkEnd ChunkKind = iota
	ChunkLiteral
	ChunkRepeat
)

// String returns a human-readable representation of the kind.
func (k ChunkKind) String() string {
	switch k {
	case ChunkEnd:
		return "End"
	case ChunkLiteral:
		return "Literal"
	case ChunkRepeat:
		return "Repeat"
	default:
		return "Unknown"
	}
}

// Chunk is the unit of the delta stream.
//
// Literal chunks carry Data; Repeat chunks carry Value and Count; End carries
// nothing and terminates a frame.
type Chunk struct {
	Kind  ChunkKind
	Data  []byte
	Value byte
	Count int
}

// Literal returns a Literal chunk holding a copy of data.
func Literal(data []byte) Chunk {
	return Chunk{Kind: ChunkLiteral, Data: append([]byte(nil), data...)}
}

// Repeat returns a Repeat chunk replicating value count times.
func Repeat(value byte, count int) Chunk {
	return Chunk{Kind: ChunkRepeat, Value: value, Count: count}
}

// End returns the frame terminator.
func End() Chunk {
	return Chunk{Kind: ChunkEnd}
}

// Span returns the number of frame bytes the chunk covers.
func (c Chunk) Span() int {
	switch c.Kind {
	case ChunkLiteral:
		return len(c.Data)
	case ChunkRepeat:
		return c.Count
	default:
		return 0
	}
}

// Validate checks the chunk against its caps.
func (c Chunk) Validate() error {
	switch c.Kind {
	case ChunkEnd:
		return nil
	case ChunkLiteral:
		if n := len(c.Data); n < 1 || n > MaxLiteralLen {
			return fmt.Errorf("%w: literal of %d bytes", ErrMalformedChunk, n)
		}
	case ChunkRepeat:
		if c.Count < 1 || c.Count > MaxRepeatCount {
			return fmt.Errorf("%w: repeat count %d", ErrMalformedChunk, c.Count)
		}
	default:
		return fmt.Errorf("%w: kind %d", ErrMalformedChunk, c.Kind)
	}
	return nil
}

// Equal reports whether two chunks are the same variant with the same payload.
func (c Chunk) Equal(other Chunk) bool {
	if c.Kind != other.Kind {
		return false
	}
	switch c.Kind {
	case ChunkLiteral:
		return string(c.Data) == string(other.Data)
	case ChunkRepeat:
		return c.Value == other.Value && c.Count == other.Count
	default:
		return true
	}
}

func (c Chunk) String() string {
	switch c.Kind {
	case ChunkLiteral:
		return fmt.Sprintf("Literal(% X)", c.Data)
	case ChunkRepeat:
		return fmt.Sprintf("Repeat(%02X x%d)", c.Value, c.Count)
	case ChunkEnd:
		return "End"
	default:
		return fmt.Sprintf("Chunk(kind=%d)", c.Kind)
	}
}
