package codec

import "github.com/bft-labs/deltaship/internal/domain"

// History holds the previous raw frame of one side, used as the XOR operand
// for the next frame. It starts zeroed.
type History struct {
	prev domain.Frame
}

// NewHistory allocates a zeroed history for frames of the given length.
func NewHistory(length int) (*History, error) {
	prev, err := domain.NewFrame(length)
	if err != nil {
		return nil, err
	}
	return &History{prev: prev}, nil
}

// Len returns the frame length the history was sized for.
func (h *History) Len() int {
	return len(h.prev)
}

// Delta returns b XORed against the baseline byte at i when xor is set,
// otherwise b unchanged. XOR is its own inverse, so the decoder uses the same
// step to undo it.
func (h *History) Delta(i int, b byte, xor bool) byte {
	if !xor {
		return b
	}
	return b ^ h.prev[i]
}

// Track records raw as the baseline byte at i.
func (h *History) Track(i int, raw byte) {
	h.prev[i] = raw
}

// Commit replaces the whole baseline with frame.
func (h *History) Commit(frame domain.Frame) {
	copy(h.prev, frame)
}

// Snapshot returns a copy of the baseline.
func (h *History) Snapshot() domain.Frame {
	return h.prev.Clone()
}

// Clear zeroes the baseline.
func (h *History) Clear() {
	clear(h.prev)
}
