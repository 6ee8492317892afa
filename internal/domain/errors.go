package domain

import "errors"

// Domain errors represent error conditions in the deltaship codec.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrAllocation is returned when a frame buffer of the requested length
	// cannot be provided.
	ErrAllocation = errors.New("deltaship: frame allocation failed")

	// ErrLengthMismatch is returned when the bytes carried by a frame's chunks
	// do not add up to the agreed frame length.
	ErrLengthMismatch = errors.New("deltaship: frame length mismatch")

	// ErrCapOverflow reports an encoder chunk outside its literal or repeat cap.
	// It is raised as a panic because it can only come from a broken encoder.
	ErrCapOverflow = errors.New("deltaship: chunk cap overflow")

	// ErrMalformedChunk is returned when the decoder is handed a chunk that no
	// encoder could have produced.
	ErrMalformedChunk = errors.New("deltaship: malformed chunk")

	// ErrDesynchronized is returned by a decoder that faulted earlier and has
	// not been reset since.
	ErrDesynchronized = errors.New("deltaship: decoder desynchronized")

	// ErrMidFrame is returned when a setting that must change on a frame
	// boundary is changed while a frame is being decoded.
	ErrMidFrame = errors.New("deltaship: operation not allowed mid-frame")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("deltaship: invalid configuration")

	// ErrAlreadyRunning is returned when Run is called on a session that is
	// already running.
	ErrAlreadyRunning = errors.New("deltaship: session already running")
)
