package codec

import (
	"fmt"

	"github.com/bft-labs/deltaship/internal/domain"
)

// Decoder rebuilds frames from a chunk sequence.
type Decoder struct {
	opts    Options
	history *History
	dst     domain.Frame
	cursor  int
	first   bool
	fault   error
}

// NewDecoder creates a decoder for frames of the given length.
func NewDecoder(length int, opts Options) (*Decoder, error) {
	history, err := NewHistory(length)
	if err != nil {
		return nil, fmt.Errorf("rx history: %w", err)
	}
	dst, err := domain.NewFrame(length)
	if err != nil {
		return nil, fmt.Errorf("rx target: %w", err)
	}
	return &Decoder{
		opts:    opts,
		history: history,
		dst:     dst,
		first:   true,
	}, nil
}

// FrameLen returns the agreed frame length.
func (d *Decoder) FrameLen() int {
	return len(d.dst)
}

// Cursor returns the write offset into the frame being rebuilt.
func (d *Decoder) Cursor() int {
	return d.cursor
}

// Frame returns a copy of the destination frame.
func (d *Decoder) Frame() domain.Frame {
	return d.dst.Clone()
}

// View returns the destination frame without copying. It is only stable
// between an End and the next chunk.
func (d *Decoder) View() domain.Frame {
	return d.dst
}

// Baseline returns a copy of the last committed frame.
func (d *Decoder) Baseline() domain.Frame {
	return d.history.Snapshot()
}

// Fault returns the error that desynchronized the decoder, if any.
func (d *Decoder) Fault() error {
	return d.fault
}

// SetXOR changes delta decoding. It must be called between frames.
func (d *Decoder) SetXOR(enabled bool) error {
	if d.cursor != 0 {
		return fmt.Errorf("%w: cursor at %d", domain.ErrMidFrame, d.cursor)
	}
	d.opts.XOR = enabled
	return nil
}

// Reset clears a fault and expects the next frame to be sent in full.
// The destination frame is left as it was.
func (d *Decoder) Reset() {
	d.cursor = 0
	d.first = true
	d.fault = nil
}

// Emit decodes chunk, so a Decoder can be handed to an Encoder as its sink.
func (d *Decoder) Emit(chunk domain.Chunk) error {
	return d.Decode(chunk)
}

// Decode applies one chunk. Chunks must arrive in the order they were emitted.
//
// Any error leaves the decoder desynchronized: further chunks are refused
// with ErrDesynchronized until Reset is called.
func (d *Decoder) Decode(chunk domain.Chunk) error {
	if d.fault != nil {
		return fmt.Errorf("%w: %v", domain.ErrDesynchronized, d.fault)
	}
	if err := d.apply(chunk); err != nil {
		d.fault = err
		d.cursor = 0
		return err
	}
	return nil
}

func (d *Decoder) apply(chunk domain.Chunk) error {
	if err := chunk.Validate(); err != nil {
		return err
	}

	if chunk.Kind == domain.ChunkEnd {
		if d.cursor != len(d.dst) {
			return fmt.Errorf("%w: end at offset %d, frame length is %d",
				domain.ErrLengthMismatch, d.cursor, len(d.dst))
		}
		d.history.Commit(d.dst)
		d.cursor = 0
		d.first = false
		return nil
	}

	n := chunk.Span()
	if d.cursor+n > len(d.dst) {
		return fmt.Errorf("%w: %s at offset %d overruns frame length %d",
			domain.ErrLengthMismatch, chunk, d.cursor, len(d.dst))
	}

	xor := d.opts.XOR && !d.first
	out := d.dst[d.cursor : d.cursor+n]
	for i := range out {
		b := chunk.Value
		if chunk.Kind == domain.ChunkLiteral {
			b = chunk.Data[i]
		}
		out[i] = d.history.Delta(d.cursor+i, b, xor)
	}
	d.cursor += n
	return nil
}
