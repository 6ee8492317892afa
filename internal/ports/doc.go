// Package ports defines the interfaces that connect the codec and the session
// to infrastructure adapters.
//
// # Port Interfaces
//
//   - [ChunkSink]: the reliable, ordered conduit chunks are emitted into
//   - [Channel]: a ChunkSink that also reports what crossed it
//   - [StateGenerator]: mutates the sender's state between frames
//   - [StatsRecorder]: observes every frame exchange (metrics)
//   - [ReportRepository]: persists the summary of a run
//   - [Logger]: structured logging abstraction
//
// The application layer (internal/app) depends only on these interfaces.
// Adapters (internal/adapters) implement them with loopback channels,
// Prometheus collectors and JSON files.
package ports
