// Package wire serialises deltaship chunks into a byte stream.
//
// Every chunk starts with a signed tag, written as a zig-zag varint:
//
//	run > 0   Literal of run bytes; run payload bytes follow
//	run < 0   Repeat with count (-run)+1; one payload byte follows
//	run == 0  End of frame; no payload
//
// A Repeat of count 1 has no tag of its own, so it is written as a one-byte
// Literal. The decoder rebuilds the same bytes either way.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package wire
