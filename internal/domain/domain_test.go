package domain

import (
	"errors"
	"testing"
)

func TestNewFrame(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		wantErr bool
	}{
		{"one byte", 1, false},
		{"record table", 8000, false},
		{"zero", 0, true},
		{"negative", -4, true},
		{"too large", MaxFrameLength + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFrame(tt.length)
			if tt.wantErr {
				if !errors.Is(err, ErrAllocation) {
					t.Fatalf("NewFrame(%d) error = %v, want ErrAllocation", tt.length, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewFrame(%d) error = %v", tt.length, err)
			}
			if f.Len() != tt.length {
				t.Fatalf("Len() = %d, want %d", f.Len(), tt.length)
			}
			for i, b := range f {
				if b != 0 {
					t.Fatalf("byte %d = %d, want zeroed frame", i, b)
				}
			}
		})
	}
}

func TestFrame_CloneAndDiff(t *testing.T) {
	f := Frame{1, 2, 3, 4}
	c := f.Clone()
	if !f.Equal(c) {
		t.Fatal("clone differs from source")
	}

	c[2] = 9
	if f[2] != 3 {
		t.Fatal("clone shares storage with source")
	}
	if got := f.FirstDiff(c); got != 2 {
		t.Errorf("FirstDiff = %d, want 2", got)
	}
	if got := f.FirstDiff(f); got != -1 {
		t.Errorf("FirstDiff(self) = %d, want -1", got)
	}
	if got := f.FirstDiff(Frame{1, 2}); got != 2 {
		t.Errorf("FirstDiff(shorter) = %d, want 2", got)
	}
}

func TestChunk_Validate(t *testing.T) {
	tests := []struct {
		name    string
		chunk   Chunk
		wantErr bool
	}{
		{"end", End(), false},
		{"single literal", Literal([]byte{1}), false},
		{"full literal", Literal(make([]byte, MaxLiteralLen)), false},
		{"empty literal", Chunk{Kind: ChunkLiteral}, true},
		{"oversized literal", Literal(make([]byte, MaxLiteralLen+1)), true},
		{"single repeat", Repeat(7, 1), false},
		{"full repeat", Repeat(7, MaxRepeatCount), false},
		{"zero repeat", Repeat(7, 0), true},
		{"oversized repeat", Repeat(7, MaxRepeatCount+1), true},
		{"unknown kind", Chunk{Kind: 42}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.chunk.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMalformedChunk) {
				t.Fatalf("Validate() error = %v, want ErrMalformedChunk", err)
			}
		})
	}
}

func TestChunk_LiteralCopiesPayload(t *testing.T) {
	buf := []byte{1, 2, 3}
	c := Literal(buf)
	buf[0] = 99

	if c.Data[0] != 1 {
		t.Fatal("Literal must not alias the caller's buffer")
	}
	if c.Span() != 3 {
		t.Errorf("Span() = %d, want 3", c.Span())
	}
}

func TestStats_Ratio(t *testing.T) {
	var s Stats
	if s.Ratio() != 0 {
		t.Fatalf("empty ratio = %v, want 0", s.Ratio())
	}

	s.Add(FrameReport{RawBytes: 200, Traffic: Traffic{WireBytes: 50, Repeats: 1, Ends: 1}})
	s.Add(FrameReport{RawBytes: 200, Traffic: Traffic{WireBytes: 50, Literals: 2, Ends: 1}, Mismatch: true})

	if s.Frames != 2 || s.Mismatches != 1 || s.Ends != 2 {
		t.Fatalf("unexpected totals: %+v", s)
	}
	if got := s.Ratio(); got != 25 {
		t.Errorf("Ratio() = %v, want 25", got)
	}
}

func TestTraffic_Sub(t *testing.T) {
	var tr Traffic
	tr.Add(Literal([]byte{1, 2}), 3)
	before := tr
	tr.Add(Repeat(0, 255), 3)
	tr.Add(End(), 1)

	d := tr.Sub(before)
	if d.WireBytes != 4 || d.Repeats != 1 || d.Ends != 1 || d.Literals != 0 {
		t.Fatalf("unexpected delta: %+v", d)
	}
	if d.Chunks() != 2 {
		t.Errorf("Chunks() = %d, want 2", d.Chunks())
	}
}
