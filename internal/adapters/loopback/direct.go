// Package loopback provides in-process channels that hand every chunk an
// encoder emits straight to a decoder, in order and without loss.
package loopback

import (
	"github.com/bft-labs/deltaship/internal/domain"
	"github.com/bft-labs/deltaship/internal/ports"
	"github.com/bft-labs/deltaship/pkg/wire"
)

// Direct passes chunk values to the receiver and counts what they would cost
// on the wire.
type Direct struct {
	rx      ports.ChunkSink
	traffic domain.Traffic
}

// NewDirect returns a channel delivering to rx.
func NewDirect(rx ports.ChunkSink) *Direct {
	return &Direct{rx: rx}
}

// Emit delivers chunk to the receiver.
func (d *Direct) Emit(chunk domain.Chunk) error {
	if err := d.rx.Emit(chunk); err != nil {
		return err
	}
	d.traffic.Add(chunk, wire.EncodedLen(chunk))
	return nil
}

// Traffic returns the running totals.
func (d *Direct) Traffic() domain.Traffic {
	return d.traffic
}

var _ ports.Channel = (*Direct)(nil)
