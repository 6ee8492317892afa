package configwatcher

import "github.com/bft-labs/deltaship/pkg/deltaship"

// WithConfigWatcher returns a deltaship Option that enables config file
// watching. The session's Config.ConfigPath names the file to watch.
//
// Usage:
//
//	s, err := deltaship.New(cfg,
//	    configwatcher.WithConfigWatcher(configwatcher.Config{
//	        DebounceDelay: 50 * time.Millisecond,
//	    }),
//	)
func WithConfigWatcher(cfg Config) deltaship.Option {
	plugin := New(cfg)
	return deltaship.WithPlugin(plugin)
}

// WithDefaultConfigWatcher returns a deltaship Option that enables config
// watching with default settings (debounce 100ms).
func WithDefaultConfigWatcher() deltaship.Option {
	return WithConfigWatcher(DefaultConfig())
}
