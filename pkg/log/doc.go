// Package log provides the logging abstraction used by deltaship components.
//
// The codec and the session only see the [Logger] interface. A zerolog
// adapter and a no-op logger are provided:
//
//	logger := log.NewZerologLogger(zerolog.New(os.Stderr))
//	quiet := log.NewNoopLogger()
//
// Implement [Logger] to route deltaship output into an existing logging stack.
//
// # Version
//
// Current version: 1.1.0
// Minimum compatible version: 1.0.0
package log
