// Package domain contains the core entities and value objects for deltaship.
//
// This package is the innermost layer. It has no dependencies on logging,
// metrics, files or transports and only describes what flows between the
// encoder and the decoder.
//
// # Entities
//
//   - [Frame]: one fixed-length snapshot of the shared state buffer
//   - [Chunk]: one unit of the delta stream (Literal, Repeat or End)
//   - [Stats]: traffic totals for a run of frame exchanges
//
// # Design Principles
//
// Domain values are:
//   - Free of infrastructure dependencies
//   - Validated at construction where a bad value would corrupt a frame
//   - Testable without mocks or external systems
package domain
