package codec

import (
	"fmt"

	"github.com/bft-labs/deltaship/internal/domain"
)

// scanMode is the state of the run-length scanner.
type scanMode uint8

const (
	// modeIdle: nothing buffered.
	modeIdle scanMode = iota
	// modeAccumulating: lit holds distinct bytes; the last one is tentative
	// because it may still open a repeat run.
	modeAccumulating
	// modeRepeating: value seen count times in a row.
	modeRepeating
)

func (m scanMode) String() string {
	switch m {
	case modeIdle:
		return "idle"
	case modeAccumulating:
		return "accumulating"
	case modeRepeating:
		return "repeating"
	default:
		return "unknown"
	}
}

// runScanner splits a byte stream into Literal and Repeat chunks.
type runScanner struct {
	mode  scanMode
	lit   []byte
	value byte
	count int
	sink  func(domain.Chunk) error
}

func newRunScanner() runScanner {
	return runScanner{lit: make([]byte, 0, domain.MaxLiteralLen)}
}

// begin prepares the scanner for a new frame.
func (s *runScanner) begin(sink func(domain.Chunk) error) {
	s.mode = modeIdle
	s.lit = s.lit[:0]
	s.value = 0
	s.count = 0
	s.sink = sink
}

// push feeds the next byte.
func (s *runScanner) push(b byte) error {
	switch s.mode {
	case modeIdle:
		s.lit = append(s.lit, b)
		s.mode = modeAccumulating

	case modeAccumulating:
		last := s.lit[len(s.lit)-1]
		if b == last {
			if err := s.flushLiteral(len(s.lit) - 1); err != nil {
				return err
			}
			s.mode = modeRepeating
			s.value = b
			s.count = 2
			return nil
		}
		if len(s.lit) == domain.MaxLiteralLen {
			if err := s.flushLiteral(len(s.lit)); err != nil {
				return err
			}
		}
		s.lit = append(s.lit, b)

	case modeRepeating:
		if b == s.value {
			if s.count == domain.MaxRepeatCount {
				if err := s.emit(domain.Repeat(s.value, s.count)); err != nil {
					return err
				}
				s.count = 0
			}
			s.count++
			return nil
		}
		if err := s.emit(domain.Repeat(s.value, s.count)); err != nil {
			return err
		}
		s.mode = modeAccumulating
		s.lit = append(s.lit[:0], b)
	}
	return nil
}

// finish flushes whatever is pending and returns the scanner to idle.
func (s *runScanner) finish() error {
	var err error
	switch s.mode {
	case modeAccumulating:
		err = s.flushLiteral(len(s.lit))
	case modeRepeating:
		err = s.emit(domain.Repeat(s.value, s.count))
	}
	s.mode = modeIdle
	s.count = 0
	return err
}

// flushLiteral emits the first n buffered bytes, if any, and empties the buffer.
func (s *runScanner) flushLiteral(n int) error {
	defer func() { s.lit = s.lit[:0] }()
	if n == 0 {
		return nil
	}
	return s.emit(domain.Literal(s.lit[:n]))
}

func (s *runScanner) emit(c domain.Chunk) error {
	if err := c.Validate(); err != nil {
		panic(fmt.Errorf("%w: %s (%v)", domain.ErrCapOverflow, c, err))
	}
	return s.sink(c)
}
