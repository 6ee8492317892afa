// Package codec implements the XOR-delta run-length encoder and its inverse.
//
// An [Encoder] turns each raw frame into a sequence of Literal and Repeat
// chunks terminated by End. A [Decoder] consumes that sequence in order and
// rebuilds the frame. Each side keeps a [History] holding the previous raw
// frame; unless XOR is disabled, bytes are sent as their difference against
// it, so unchanged regions collapse into long zero runs.
//
// The first frame of a stream, and the first frame after Reset, is always sent
// without XOR so it does not depend on a baseline the peer may not share.
//
// Encoders and decoders are not safe for concurrent use.
package codec

// Options configure an Encoder or Decoder. Both sides must use the same values.
type Options struct {
	// XOR enables delta coding against the previous frame.
	XOR bool
}

// DefaultOptions returns options with XOR enabled.
func DefaultOptions() Options {
	return Options{XOR: true}
}
