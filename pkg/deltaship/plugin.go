package deltaship

import "context"

// Plugin extends a Session with work that runs alongside Run.
type Plugin interface {
	// Name returns the plugin identifier used in logs.
	Name() string

	// Initialize is called when Run starts. ctx is canceled when Run returns.
	// An error aborts the run before the first frame.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown is called when Run returns.
	Shutdown(ctx context.Context) error
}

// PluginConfig is handed to every plugin on Initialize.
type PluginConfig struct {
	// ConfigPath is the configuration file the session was built from, if any.
	ConfigPath string

	Logger Logger

	// Tuner changes session settings at the next frame boundary.
	Tuner Tuner
}

// Tuner changes settings of a running session. Safe for concurrent use.
type Tuner interface {
	SetXOR(enabled bool)
	SetMaxChanges(n int)
}
