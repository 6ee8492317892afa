package codec

import (
	"fmt"

	"github.com/bft-labs/deltaship/internal/domain"
	"github.com/bft-labs/deltaship/internal/ports"
)

// Encoder turns raw frames into chunk sequences.
type Encoder struct {
	opts    Options
	history *History
	work    domain.Frame
	first   bool
	scan    runScanner
}

// NewEncoder creates an encoder for frames of the given length.
func NewEncoder(length int, opts Options) (*Encoder, error) {
	history, err := NewHistory(length)
	if err != nil {
		return nil, fmt.Errorf("tx history: %w", err)
	}
	work, err := domain.NewFrame(length)
	if err != nil {
		return nil, fmt.Errorf("tx work buffer: %w", err)
	}
	return &Encoder{
		opts:    opts,
		history: history,
		work:    work,
		first:   true,
		scan:    newRunScanner(),
	}, nil
}

// FrameLen returns the agreed frame length.
func (e *Encoder) FrameLen() int {
	return len(e.work)
}

// XOR reports whether delta coding is configured.
func (e *Encoder) XOR() bool {
	return e.opts.XOR
}

// SetXOR changes delta coding from the next frame on.
// The decoder must be switched on the same frame boundary.
func (e *Encoder) SetXOR(enabled bool) {
	e.opts.XOR = enabled
}

// NextIsDelta reports whether the next Encode will XOR against the baseline.
func (e *Encoder) NextIsDelta() bool {
	return e.opts.XOR && !e.first
}

// Reset forces the next frame to be sent in full.
func (e *Encoder) Reset() {
	e.first = true
}

// Baseline returns a copy of the last raw frame encoded.
func (e *Encoder) Baseline() domain.Frame {
	return e.history.Snapshot()
}

// Encode emits frame into sink as Literal and Repeat chunks followed by End.
//
// The baseline is advanced before any chunk is emitted. If sink fails, the
// error is returned and the next frame is sent in full.
func (e *Encoder) Encode(frame domain.Frame, sink ports.ChunkSink) error {
	if len(frame) != len(e.work) {
		return fmt.Errorf("%w: encode got %d bytes, frame length is %d",
			domain.ErrLengthMismatch, len(frame), len(e.work))
	}

	xor := e.NextIsDelta()
	e.first = false

	for i, raw := range frame {
		e.work[i] = e.history.Delta(i, raw, xor)
		e.history.Track(i, raw)
	}

	if err := e.compress(sink); err != nil {
		e.first = true
		return err
	}
	return nil
}

// compress runs the run-length scan over the work buffer.
func (e *Encoder) compress(sink ports.ChunkSink) error {
	e.scan.begin(sink.Emit)
	for i, b := range e.work {
		if err := e.scan.push(b); err != nil {
			return fmt.Errorf("emit chunk at offset %d: %w", i, err)
		}
	}
	if err := e.scan.finish(); err != nil {
		return fmt.Errorf("emit final chunk: %w", err)
	}
	if err := sink.Emit(domain.End()); err != nil {
		return fmt.Errorf("emit end: %w", err)
	}
	return nil
}
