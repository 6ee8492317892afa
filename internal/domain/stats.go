package domain

import "time"

// Traffic counts what crossed a channel.
type Traffic struct {
	// WireBytes is the encoded size of every chunk, tags included
	WireBytes int64

	// Literals, Repeats and Ends count chunks by kind
	Literals int64
	Repeats  int64
	Ends     int64
}

// Chunks returns the total number of chunks counted.
func (t Traffic) Chunks() int64 {
	return t.Literals + t.Repeats + t.Ends
}

// Add records one chunk of the given encoded size.
func (t *Traffic) Add(c Chunk, size int) {
	t.WireBytes += int64(size)
	switch c.Kind {
	case ChunkLiteral:
		t.Literals++
	case ChunkRepeat:
		t.Repeats++
	case ChunkEnd:
		t.Ends++
	}
}

// Sub returns the traffic counted since an earlier snapshot.
func (t Traffic) Sub(earlier Traffic) Traffic {
	return Traffic{
		WireBytes: t.WireBytes - earlier.WireBytes,
		Literals:  t.Literals - earlier.Literals,
		Repeats:   t.Repeats - earlier.Repeats,
		Ends:      t.Ends - earlier.Ends,
	}
}

// FrameReport describes one frame exchange.
type FrameReport struct {
	// Seq is the frame number within the run, 0 being the initial frame
	Seq uint64

	// RawBytes is the frame length
	RawBytes int

	// Traffic is what the frame cost on the channel
	Traffic Traffic

	// XOR reports whether the frame was sent as a delta
	XOR bool

	// Mismatch is set when the receiver copy differed from the sender's frame
	Mismatch bool

	// Err is the codec or channel error, if any
	Err error

	Duration time.Duration
}

// Stats is an aggregate of frame reports.
type Stats struct {
	Frames     int64 `json:"frames"`
	RawBytes   int64 `json:"raw_bytes"`
	WireBytes  int64 `json:"wire_bytes"`
	Literals   int64 `json:"literals"`
	Repeats    int64 `json:"repeats"`
	Ends       int64 `json:"ends"`
	Mismatches int64 `json:"mismatches"`
	Errors     int64 `json:"errors"`
}

// Add folds a frame report into the totals.
func (s *Stats) Add(r FrameReport) {
	s.Frames++
	s.RawBytes += int64(r.RawBytes)
	s.WireBytes += r.Traffic.WireBytes
	s.Literals += r.Traffic.Literals
	s.Repeats += r.Traffic.Repeats
	s.Ends += r.Traffic.Ends
	if r.Mismatch {
		s.Mismatches++
	}
	if r.Err != nil {
		s.Errors++
	}
}

// Ratio returns wire bytes as a percentage of raw bytes.
func (s Stats) Ratio() float64 {
	if s.RawBytes == 0 {
		return 0
	}
	return float64(s.WireBytes) / float64(s.RawBytes) * 100
}

// RunReport is the persisted summary of a simulation run.
type RunReport struct {
	Seed         int64     `json:"seed"`
	XOR          bool      `json:"xor"`
	FrameLength  int       `json:"frame_length"`
	Transport    string    `json:"transport"`
	Stats        Stats     `json:"stats"`
	RatioPercent float64   `json:"ratio_percent"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
}
