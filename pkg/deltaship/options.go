package deltaship

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bft-labs/deltaship/pkg/log"
)

// Option configures optional behavior of a Session.
type Option func(*options)

// options holds the optional configuration for a Session.
type options struct {
	logger       Logger
	registerer   prometheus.Registerer
	frameHandler FrameHandler
	generator    Generator
	plugins      []Plugin
}

// defaultOptions returns options with a no-op logger and nothing else.
func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRegisterer exports frame statistics as Prometheus metrics registered
// with reg. New fails if the collectors are already registered there.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithFrameHandler sets a handler called after every frame exchange.
// It is called synchronously from Run and should return quickly.
func WithFrameHandler(h FrameHandler) Option {
	return func(o *options) {
		o.frameHandler = h
	}
}

// WithGenerator replaces the generator selected by Config.Mode.
func WithGenerator(g Generator) Option {
	return func(o *options) {
		o.generator = g
	}
}

// WithPlugin registers a plugin to be initialized when Run starts.
// Plugins are initialized in registration order and shut down in reverse order.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}

// FrameHandler receives a FrameEvent after every frame exchange.
type FrameHandler interface {
	OnFrame(event FrameEvent)
}

// FrameHandlerFunc adapts a function to FrameHandler.
type FrameHandlerFunc func(event FrameEvent)

// OnFrame calls f(event).
func (f FrameHandlerFunc) OnFrame(event FrameEvent) {
	f(event)
}
