package wire

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/bft-labs/deltaship/internal/domain"
)

func TestWriterReader_RoundTrip(t *testing.T) {
	chunks := []domain.Chunk{
		domain.Literal([]byte{1}),
		domain.Literal(bytes.Repeat([]byte{0xFE}, 16)),
		domain.Repeat(0, 2),
		domain.Repeat(0x7F, 255),
		domain.End(),
		domain.Repeat(3, 64),
		domain.End(),
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, c := range chunks {
		if err := w.WriteChunk(c); err != nil {
			t.Fatalf("WriteChunk(%s): %v", c, err)
		}
	}
	if w.BytesWritten() != int64(buf.Len()) {
		t.Fatalf("BytesWritten = %d, buffer holds %d", w.BytesWritten(), buf.Len())
	}

	r := NewReader(&buf)
	for i, want := range chunks {
		got, err := r.ReadChunk()
		if err != nil {
			t.Fatalf("chunk %d: ReadChunk: %v", i, err)
		}
		if !got.Equal(want) {
			t.Fatalf("chunk %d = %s, want %s", i, got, want)
		}
	}
	if _, err := r.ReadChunk(); err != io.EOF {
		t.Fatalf("ReadChunk at end = %v, want io.EOF", err)
	}
	if r.BytesRead() != w.BytesWritten() {
		t.Errorf("BytesRead = %d, want %d", r.BytesRead(), w.BytesWritten())
	}
}

func TestTag(t *testing.T) {
	tests := []struct {
		chunk domain.Chunk
		want  int64
	}{
		{domain.End(), 0},
		{domain.Literal([]byte{1, 2, 3}), 3},
		{domain.Repeat(9, 2), -1},
		{domain.Repeat(9, 255), -254},
		{domain.Repeat(9, 1), 1},
	}

	for _, tt := range tests {
		if got := Tag(tt.chunk); got != tt.want {
			t.Errorf("Tag(%s) = %d, want %d", tt.chunk, got, tt.want)
		}
	}
}

func TestSingleRepeatTravelsAsLiteral(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(&buf).WriteChunk(domain.Repeat(0x42, 1)); err != nil {
		t.Fatalf("WriteChunk: %v", err)
	}

	got, err := NewReader(&buf).ReadChunk()
	if err != nil {
		t.Fatalf("ReadChunk: %v", err)
	}
	if !got.Equal(domain.Literal([]byte{0x42})) {
		t.Fatalf("got %s, want Literal(42)", got)
	}
}

func TestEncodedLen(t *testing.T) {
	chunks := []domain.Chunk{
		domain.End(),
		domain.Literal([]byte{1, 2, 3, 4}),
		domain.Repeat(1, 2),
		domain.Repeat(1, 255),
	}
	for _, c := range chunks {
		b, err := AppendChunk(nil, c)
		if err != nil {
			t.Fatalf("AppendChunk(%s): %v", c, err)
		}
		if EncodedLen(c) != len(b) {
			t.Errorf("EncodedLen(%s) = %d, AppendChunk wrote %d", c, EncodedLen(c), len(b))
		}
	}
	if EncodedLen(domain.End()) != 1 {
		t.Errorf("End should cost one byte")
	}
}

func TestAppendChunk_RejectsMalformed(t *testing.T) {
	_, err := AppendChunk(nil, domain.Repeat(0, 300))
	if !errors.Is(err, domain.ErrMalformedChunk) {
		t.Fatalf("AppendChunk error = %v, want ErrMalformedChunk", err)
	}
}

func TestReadChunk_Truncated(t *testing.T) {
	full, err := AppendChunk(nil, domain.Literal([]byte{1, 2, 3, 4, 5}))
	if err != nil {
		t.Fatalf("AppendChunk: %v", err)
	}

	_, err = NewReader(bytes.NewReader(full[:3])).ReadChunk()
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("ReadChunk error = %v, want io.ErrUnexpectedEOF", err)
	}

	repeat, _ := AppendChunk(nil, domain.Repeat(7, 10))
	_, err = NewReader(bytes.NewReader(repeat[:1])).ReadChunk()
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("ReadChunk error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestReadChunk_MalformedTag(t *testing.T) {
	for _, run := range []int64{MaxLiteralTag + 1, MinRepeatTag - 1} {
		var buf bytes.Buffer
		buf.Write(appendVarint(run))
		buf.Write(make([]byte, 32))

		_, err := NewReader(&buf).ReadChunk()
		if !errors.Is(err, ErrMalformedTag) {
			t.Errorf("run %d: ReadChunk error = %v, want ErrMalformedTag", run, err)
		}
	}
}

type errWriter struct{}

func (errWriter) Write(p []byte) (int, error) { return 0, io.ErrClosedPipe }

func TestWriteChunk_PropagatesWriterError(t *testing.T) {
	err := NewWriter(errWriter{}).Emit(domain.End())
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("Emit error = %v, want io.ErrClosedPipe", err)
	}
}
