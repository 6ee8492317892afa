package loopback

import (
	"bytes"
	"fmt"

	"github.com/bft-labs/deltaship/internal/domain"
	"github.com/bft-labs/deltaship/internal/ports"
	"github.com/bft-labs/deltaship/pkg/wire"
)

// Wire serialises every chunk with pkg/wire and parses it back before handing
// it to the receiver, so the receiver only ever sees what survived the byte
// encoding.
type Wire struct {
	rx      ports.ChunkSink
	buf     bytes.Buffer
	w       *wire.Writer
	r       *wire.Reader
	traffic domain.Traffic
	tap     func([]byte)
}

// NewWire returns a byte-level loopback delivering to rx.
func NewWire(rx ports.ChunkSink) *Wire {
	l := &Wire{rx: rx}
	l.w = wire.NewWriter(&l.buf)
	l.r = wire.NewReader(&l.buf)
	return l
}

// Tap registers fn to see the encoded bytes of every chunk.
// The slice is only valid for the duration of the call.
func (l *Wire) Tap(fn func([]byte)) {
	l.tap = fn
}

// Emit encodes chunk, decodes it again and delivers the result.
func (l *Wire) Emit(chunk domain.Chunk) error {
	before := l.w.BytesWritten()
	if err := l.w.WriteChunk(chunk); err != nil {
		return err
	}
	size := int(l.w.BytesWritten() - before)
	if l.tap != nil {
		l.tap(l.buf.Bytes()[:size])
	}

	received, err := l.r.ReadChunk()
	if err != nil {
		return fmt.Errorf("loopback read: %w", err)
	}
	if l.r.BytesRead() != l.w.BytesWritten() {
		return fmt.Errorf("loopback read: %s consumed %d of %d bytes",
			received.Kind, l.r.BytesRead(), l.w.BytesWritten())
	}
	if err := l.rx.Emit(received); err != nil {
		return err
	}
	l.traffic.Add(received, size)
	return nil
}

// Traffic returns the running totals.
func (l *Wire) Traffic() domain.Traffic {
	return l.traffic
}

var _ ports.Channel = (*Wire)(nil)
