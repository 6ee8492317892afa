package deltaship_test

import (
	"bytes"
	"context"
	"fmt"

	"github.com/bft-labs/deltaship/pkg/deltaship"
	"github.com/bft-labs/deltaship/pkg/wire"
)

// ExampleNew runs a short session over the byte-level loopback.
func ExampleNew() {
	cfg := deltaship.DefaultConfig()
	cfg.Frames = 50
	cfg.Seed = 1
	cfg.Transport = deltaship.TransportWire

	s, err := deltaship.New(cfg)
	if err != nil {
		fmt.Printf("failed to create session: %v\n", err)
		return
	}

	stats, err := s.Run(context.Background())
	if err != nil {
		fmt.Printf("run failed: %v\n", err)
		return
	}

	fmt.Printf("frames: %d, mismatches: %d\n", stats.Frames, stats.Mismatches)
	fmt.Printf("compressed: %v\n", stats.WireBytes < stats.RawBytes)

	// Output:
	// frames: 51, mismatches: 0
	// compressed: true
}

// ExampleNewEncoder drives the codec directly and prints the chunks of a frame.
func ExampleNewEncoder() {
	enc, _ := deltaship.NewEncoder(4, true)
	dec, _ := deltaship.NewDecoder(4, true)

	sink := deltaship.ChunkSinkFunc(func(c deltaship.Chunk) error {
		fmt.Println(c)
		return dec.Emit(c)
	})

	if err := enc.Encode(deltaship.Frame{5, 5, 9, 9}, sink); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println([]byte(dec.Frame()))

	// Output:
	// Repeat(05 x2)
	// Repeat(09 x2)
	// End
	// [5 5 9 9]
}

// Example_wire carries encoder output as bytes.
func Example_wire() {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)

	enc, _ := deltaship.NewEncoder(600, true)
	if err := enc.Encode(make(deltaship.Frame, 600), w); err != nil {
		fmt.Println(err)
		return
	}

	dec, _ := deltaship.NewDecoder(600, true)
	r := wire.NewReader(&buf)
	for {
		c, err := r.ReadChunk()
		if err != nil {
			fmt.Println(err)
			return
		}
		if err := dec.Decode(c); err != nil {
			fmt.Println(err)
			return
		}
		if c.Kind == deltaship.ChunkEnd {
			break
		}
	}

	fmt.Printf("%d bytes on the wire for a %d byte frame\n", w.BytesWritten(), len(dec.Frame()))

	// Output:
	// 10 bytes on the wire for a 600 byte frame
}
