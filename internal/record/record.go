// Package record gives the state buffer its record layout and supplies the
// generators that mutate it between frames.
//
// The codec never looks at records; it only sees the flattened bytes.
package record

import (
	"encoding/binary"
	"fmt"

	"github.com/bft-labs/deltaship/internal/domain"
)

// Size is the encoded size of one record: topic (2 bytes), 2 bytes of
// padding, data (4 bytes), little-endian.
const Size = 8

// DefaultCount is the default number of records in a table.
const DefaultCount = 1000

// Record is one entry of the shared state.
// Topic 0 is the sequence-number topic.
type Record struct {
	Topic int16
	Data  int32
}

// Table is a record view over a frame.
type Table struct {
	frame domain.Frame
}

// FrameLen returns the frame length needed for count records.
func FrameLen(count int) int {
	return count * Size
}

// NewTable wraps frame, whose length must be a whole number of records.
func NewTable(frame domain.Frame) (*Table, error) {
	if len(frame) == 0 || len(frame)%Size != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of %d-byte records",
			domain.ErrLengthMismatch, len(frame), Size)
	}
	return &Table{frame: frame}, nil
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.frame) / Size
}

// Frame returns the underlying frame.
func (t *Table) Frame() domain.Frame {
	return t.frame
}

// Get returns record i.
func (t *Table) Get(i int) Record {
	b := t.frame[i*Size : (i+1)*Size]
	return Record{
		Topic: int16(binary.LittleEndian.Uint16(b[0:2])),
		Data:  int32(binary.LittleEndian.Uint32(b[4:8])),
	}
}

// Set stores record i. Padding bytes are left zero.
func (t *Table) Set(i int, r Record) {
	b := t.frame[i*Size : (i+1)*Size]
	binary.LittleEndian.PutUint16(b[0:2], uint16(r.Topic))
	b[2], b[3] = 0, 0
	binary.LittleEndian.PutUint32(b[4:8], uint32(r.Data))
}

// BumpSequence increments the data of record 0.
func (t *Table) BumpSequence() {
	r := t.Get(0)
	r.Data++
	t.Set(0, r)
}
