package wire

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/bft-labs/deltaship/internal/domain"
)

// Tag bounds.
const (
	MaxLiteralTag = domain.MaxLiteralLen
	MinRepeatTag  = -(domain.MaxRepeatCount - 1)
)

// ErrMalformedTag is returned when a tag falls outside the tag bounds.
var ErrMalformedTag = errors.New("wire: malformed chunk tag")

// Tag returns the run tag for a chunk.
func Tag(c domain.Chunk) int64 {
	switch c.Kind {
	case domain.ChunkLiteral:
		return int64(len(c.Data))
	case domain.ChunkRepeat:
		if c.Count == 1 {
			return 1
		}
		return -int64(c.Count - 1)
	default:
		return 0
	}
}

// EncodedLen returns the number of bytes AppendChunk writes for c.
func EncodedLen(c domain.Chunk) int {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutVarint(tmp[:], Tag(c))
	switch c.Kind {
	case domain.ChunkLiteral:
		return n + len(c.Data)
	case domain.ChunkRepeat:
		return n + 1
	default:
		return n
	}
}

// AppendChunk appends the encoding of c to dst.
func AppendChunk(dst []byte, c domain.Chunk) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return dst, err
	}
	dst = binary.AppendVarint(dst, Tag(c))
	switch c.Kind {
	case domain.ChunkLiteral:
		dst = append(dst, c.Data...)
	case domain.ChunkRepeat:
		dst = append(dst, c.Value)
	}
	return dst, nil
}

// Writer writes chunks to an io.Writer.
type Writer struct {
	w   io.Writer
	buf []byte
	n   int64
}

// NewWriter returns a Writer on w. Each chunk is handed to w in one Write call.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, buf: make([]byte, 0, binary.MaxVarintLen64+domain.MaxLiteralLen)}
}

// WriteChunk encodes and writes one chunk.
func (w *Writer) WriteChunk(c domain.Chunk) error {
	buf, err := AppendChunk(w.buf[:0], c)
	if err != nil {
		return err
	}
	w.buf = buf
	n, err := w.w.Write(buf)
	w.n += int64(n)
	if err != nil {
		return fmt.Errorf("write %s: %w", c.Kind, err)
	}
	return nil
}

// Emit writes c; it lets a Writer serve as an encoder's chunk sink.
func (w *Writer) Emit(c domain.Chunk) error {
	return w.WriteChunk(c)
}

// BytesWritten returns the number of bytes written so far.
func (w *Writer) BytesWritten() int64 {
	return w.n
}

// Reader reads chunks from an io.Reader.
type Reader struct {
	r *bufio.Reader
	n int64
}

// NewReader returns a Reader on r.
func NewReader(r io.Reader) *Reader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{r: br}
}

// ReadChunk reads the next chunk. It returns io.EOF only on a clean chunk
// boundary; a stream cut inside a chunk yields io.ErrUnexpectedEOF.
func (r *Reader) ReadChunk() (domain.Chunk, error) {
	run, err := binary.ReadVarint(countingByteReader{r})
	if err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Chunk{}, io.EOF
		}
		return domain.Chunk{}, fmt.Errorf("read tag: %w", err)
	}

	switch {
	case run == 0:
		return domain.End(), nil

	case run > 0 && run <= MaxLiteralTag:
		data := make([]byte, run)
		n, err := io.ReadFull(r.r, data)
		r.n += int64(n)
		if err != nil {
			return domain.Chunk{}, fmt.Errorf("read literal: %w", io.ErrUnexpectedEOF)
		}
		return domain.Chunk{Kind: domain.ChunkLiteral, Data: data}, nil

	case run < 0 && run >= MinRepeatTag:
		b, err := r.r.ReadByte()
		if err != nil {
			return domain.Chunk{}, fmt.Errorf("read repeat: %w", io.ErrUnexpectedEOF)
		}
		r.n++
		return domain.Repeat(b, int(-run)+1), nil

	default:
		return domain.Chunk{}, fmt.Errorf("%w: %d", ErrMalformedTag, run)
	}
}

// BytesRead returns the number of bytes consumed so far.
func (r *Reader) BytesRead() int64 {
	return r.n
}

type countingByteReader struct {
	r *Reader
}

func (c countingByteReader) ReadByte() (byte, error) {
	b, err := c.r.r.ReadByte()
	if err == nil {
		c.r.n++
	}
	return b, err
}
