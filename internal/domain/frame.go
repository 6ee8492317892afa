package domain

import (
	"bytes"
	"fmt"
)

// MaxFrameLength bounds the frame buffers a codec will allocate.
const MaxFrameLength = 64 << 20 // 64MB

// Frame is one snapshot of the shared state buffer.
// Sender and receiver must agree on its length.
type Frame []byte

// NewFrame allocates a zeroed frame of the given length.
func NewFrame(length int) (Frame, error) {
	if length <= 0 || length > MaxFrameLength {
		return nil, fmt.Errorf("%w: length %d outside 1..%d", ErrAllocation, length, MaxFrameLength)
	}
	return make(Frame, length), nil
}

// Len returns the frame length in bytes.
func (f Frame) Len() int {
	return len(f)
}

// Clone returns an independent copy of the frame.
func (f Frame) Clone() Frame {
	if f == nil {
		return nil
	}
	out := make(Frame, len(f))
	copy(out, f)
	return out
}

// Equal reports whether both frames hold the same bytes.
func (f Frame) Equal(other Frame) bool {
	return bytes.Equal(f, other)
}

// FirstDiff returns the offset of the first differing byte, or -1 when the
// frames are equal. Frames of different length differ at the shorter length.
func (f Frame) FirstDiff(other Frame) int {
	n := min(len(f), len(other))
	for i := 0; i < n; i++ {
		if f[i] != other[i] {
			return i
		}
	}
	if len(f) != len(other) {
		return n
	}
	return -1
}
