// Package configwatcher reloads the deltaship configuration file while a
// session runs. When the file changes, the live settings it carries (xor and
// max_changes) are pushed to the session and take effect at the next frame.
package configwatcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/deltaship/internal/cliconfig"
	"github.com/bft-labs/deltaship/pkg/deltaship"
	"github.com/bft-labs/deltaship/pkg/log"
)

// Plugin implements config watching functionality.
// It watches the directory holding the config file, so editors that replace
// the file instead of writing it in place are noticed too.
type Plugin struct {
	mu sync.Mutex

	// Configuration
	debounceDelay time.Duration

	// Runtime state
	path     string
	logger   deltaship.Logger
	tuner    deltaship.Tuner
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
}

// Config holds configuration options for the config watcher plugin.
type Config struct {
	// DebounceDelay is the delay to wait after a file change before reloading.
	// Default: 100 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DebounceDelay: 100 * time.Millisecond,
	}
}

// New creates a new config watcher plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}
	return &Plugin{debounceDelay: cfg.DebounceDelay}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "configwatcher"
}

// Initialize starts watching cfg.ConfigPath. The watch is in place when
// Initialize returns. Without a config path the plugin does nothing.
func (p *Plugin) Initialize(ctx context.Context, cfg deltaship.PluginConfig) error {
	p.mu.Lock()
	p.path = cfg.ConfigPath
	p.logger = cfg.Logger
	p.tuner = cfg.Tuner
	p.mu.Unlock()

	if p.logger == nil {
		p.logger = log.NewNoopLogger()
	}
	if p.path == "" || p.tuner == nil {
		p.logger.Warn("config watcher disabled: no config file")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(p.path), err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.Info("config watcher started", log.String("path", p.path))

	p.wg.Add(1)
	go p.watchLoop(watchCtx, watcher)

	return nil
}

// Shutdown stops the config watcher.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()

	p.mu.Lock()
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.mu.Unlock()
	return nil
}

// watchLoop reacts to writes and creates of the config file.
func (p *Plugin) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer p.wg.Done()
	defer watcher.Close()

	name := filepath.Base(p.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			p.debounceReload(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("config watcher error", log.Err(err))
		}
	}
}

func (p *Plugin) debounceReload(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}

	p.debounce = time.AfterFunc(p.debounceDelay, func() {
		if ctx.Err() != nil {
			return
		}
		p.reload()
	})
}

// reload parses the file and forwards its live settings.
func (p *Plugin) reload() {
	fc, err := cliconfig.LoadFileConfig(p.path)
	if err != nil {
		p.logger.Warn("config reload failed", log.String("path", p.path), log.Err(err))
		return
	}

	applied := false
	if fc.XOR != nil {
		p.tuner.SetXOR(*fc.XOR)
		applied = true
	}
	if fc.MaxChanges > 0 {
		p.tuner.SetMaxChanges(fc.MaxChanges)
		applied = true
	}
	if applied {
		p.logger.Info("config reloaded", log.String("path", p.path))
	}
}
