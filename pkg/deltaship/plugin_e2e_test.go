package deltaship_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/deltaship/pkg/deltaship"
	"github.com/bft-labs/deltaship/plugins/configwatcher"
)

// =============================================================================
// Test Utilities
// =============================================================================

// testLogger implements deltaship.Logger for capturing log output in tests.
type testLogger struct {
	mu       sync.Mutex
	messages []string
}

func newTestLogger() *testLogger {
	return &testLogger{messages: make([]string, 0)}
}

func (l *testLogger) Debug(msg string, fields ...deltaship.LogField) {
	l.log("DEBUG", msg)
}

func (l *testLogger) Info(msg string, fields ...deltaship.LogField) {
	l.log("INFO", msg)
}

func (l *testLogger) Warn(msg string, fields ...deltaship.LogField) {
	l.log("WARN", msg)
}

func (l *testLogger) Error(msg string, fields ...deltaship.LogField) {
	l.log("ERROR", msg)
}

func (l *testLogger) log(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("[%s] %s", level, msg))
}

func (l *testLogger) Contains(entry string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.messages {
		if m == entry {
			return true
		}
	}
	return false
}

// trackingPlugin tracks initialization and shutdown calls for testing.
type trackingPlugin struct {
	name          string
	initOrder     *[]string
	shutdownOrder *[]string
	initError     error
	shutdownError error
	mu            sync.Mutex
	cfg           deltaship.PluginConfig
	ctx           context.Context
	initialized   bool
	shutdown      bool
}

func newTrackingPlugin(name string, initOrder, shutdownOrder *[]string) *trackingPlugin {
	return &trackingPlugin{
		name:          name,
		initOrder:     initOrder,
		shutdownOrder: shutdownOrder,
	}
}

func (p *trackingPlugin) Name() string { return p.name }

func (p *trackingPlugin) Initialize(ctx context.Context, cfg deltaship.PluginConfig) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initError != nil {
		return p.initError
	}

	*p.initOrder = append(*p.initOrder, p.name)
	p.cfg = cfg
	p.ctx = ctx
	p.initialized = true
	return nil
}

func (p *trackingPlugin) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	*p.shutdownOrder = append(*p.shutdownOrder, p.name)
	p.shutdown = true
	return p.shutdownError
}

func (p *trackingPlugin) IsInitialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

func (p *trackingPlugin) IsShutdown() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shutdown
}

// =============================================================================
// Plugin Lifecycle Tests
// =============================================================================

func TestPlugin_InitializationOrder(t *testing.T) {
	cfg := smallConfig()
	cfg.ConfigPath = "/etc/deltaship.toml"
	logger := newTestLogger()

	var initOrder []string
	var shutdownOrder []string

	plugin1 := newTrackingPlugin("plugin1", &initOrder, &shutdownOrder)
	plugin2 := newTrackingPlugin("plugin2", &initOrder, &shutdownOrder)
	plugin3 := newTrackingPlugin("plugin3", &initOrder, &shutdownOrder)

	s, err := deltaship.New(cfg,
		deltaship.WithLogger(logger),
		deltaship.WithPlugin(plugin1),
		deltaship.WithPlugin(plugin2),
		deltaship.WithPlugin(plugin3),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if len(initOrder) != 3 || initOrder[0] != "plugin1" || initOrder[1] != "plugin2" || initOrder[2] != "plugin3" {
		t.Errorf("Unexpected init order: %v", initOrder)
	}
	if len(shutdownOrder) != 3 || shutdownOrder[0] != "plugin3" || shutdownOrder[1] != "plugin2" || shutdownOrder[2] != "plugin1" {
		t.Errorf("Unexpected shutdown order: %v (expected reverse of init)", shutdownOrder)
	}

	if plugin1.cfg.ConfigPath != cfg.ConfigPath {
		t.Errorf("ConfigPath = %q, want %q", plugin1.cfg.ConfigPath, cfg.ConfigPath)
	}
	if plugin1.cfg.Tuner == nil || plugin1.cfg.Logger == nil {
		t.Error("plugin config missing tuner or logger")
	}
	if plugin1.ctx.Err() == nil {
		t.Error("plugin context should be canceled once Run returns")
	}
	if !logger.Contains("[INFO] plugin initialized") {
		t.Error("missing plugin initialized log")
	}
}

func TestPlugin_InitializationFailure_PreventsRun(t *testing.T) {
	cfg := smallConfig()

	var initOrder []string
	var shutdownOrder []string

	plugin1 := newTrackingPlugin("plugin1", &initOrder, &shutdownOrder)
	plugin2 := newTrackingPlugin("plugin2", &initOrder, &shutdownOrder)
	plugin2.initError = errors.New("intentional init failure")
	plugin3 := newTrackingPlugin("plugin3", &initOrder, &shutdownOrder)

	frames := 0
	s, err := deltaship.New(cfg,
		deltaship.WithPlugin(plugin1),
		deltaship.WithPlugin(plugin2),
		deltaship.WithPlugin(plugin3),
		deltaship.WithFrameHandler(deltaship.FrameHandlerFunc(func(deltaship.FrameEvent) { frames++ })),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	_, err = s.Run(context.Background())
	if !errors.Is(err, plugin2.initError) {
		t.Fatalf("Run() error = %v, want plugin2 init error", err)
	}
	if frames != 0 {
		t.Errorf("%d frames exchanged despite failed plugin", frames)
	}
	if plugin3.IsInitialized() {
		t.Error("plugin3 should not have been initialized after plugin2 failed")
	}
	if !plugin1.IsShutdown() {
		t.Error("plugin1 should have been shut down")
	}
	if plugin2.IsShutdown() || plugin3.IsShutdown() {
		t.Error("uninitialized plugins should not be shut down")
	}
}

func TestPlugin_ShutdownFailure_ContinuesOtherPlugins(t *testing.T) {
	cfg := smallConfig()
	logger := newTestLogger()

	var initOrder []string
	var shutdownOrder []string

	plugin1 := newTrackingPlugin("plugin1", &initOrder, &shutdownOrder)
	plugin2 := newTrackingPlugin("plugin2", &initOrder, &shutdownOrder)
	plugin2.shutdownError = errors.New("intentional shutdown failure")
	plugin3 := newTrackingPlugin("plugin3", &initOrder, &shutdownOrder)

	s, err := deltaship.New(cfg,
		deltaship.WithLogger(logger),
		deltaship.WithPlugin(plugin1),
		deltaship.WithPlugin(plugin2),
		deltaship.WithPlugin(plugin3),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if len(shutdownOrder) != 3 {
		t.Errorf("Expected all 3 plugins to attempt shutdown, got: %v", shutdownOrder)
	}
	if !logger.Contains("[ERROR] plugin shutdown failed") {
		t.Error("missing shutdown failure log")
	}
}

// tuningPlugin changes the session from its own goroutine.
type tuningPlugin struct {
	done chan struct{}
}

func (p *tuningPlugin) Name() string { return "tuning" }

func (p *tuningPlugin) Initialize(ctx context.Context, cfg deltaship.PluginConfig) error {
	go func() {
		defer close(p.done)
		cfg.Tuner.SetXOR(false)
		cfg.Tuner.SetMaxChanges(1)
	}()
	return nil
}

func (p *tuningPlugin) Shutdown(ctx context.Context) error {
	<-p.done
	return nil
}

func TestPlugin_TunerFromGoroutine(t *testing.T) {
	cfg := smallConfig()
	cfg.Frames = 0

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	stop, stopRun := context.WithCancel(ctx)
	defer stopRun()

	handler := deltaship.FrameHandlerFunc(func(e deltaship.FrameEvent) {
		if e.Seq > 0 && !e.XOR {
			stopRun()
		}
	})

	s, err := deltaship.New(cfg,
		deltaship.WithPlugin(&tuningPlugin{done: make(chan struct{})}),
		deltaship.WithFrameHandler(handler),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	stats, err := s.Run(stop)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled (xor never switched off)", err)
	}
	if stats.Mismatches != 0 {
		t.Errorf("mismatches = %d", stats.Mismatches)
	}
}

func TestPlugin_ConfigWatcherSwitchesXOR(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("xor = true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := smallConfig()
	cfg.Frames = 0
	cfg.ConfigPath = path

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	stop, stopRun := context.WithCancel(ctx)
	defer stopRun()

	var once sync.Once
	handler := deltaship.FrameHandlerFunc(func(e deltaship.FrameEvent) {
		if e.Seq == 1 {
			once.Do(func() {
				if err := os.WriteFile(path, []byte("xor = false\n"), 0o644); err != nil {
					t.Errorf("rewrite config: %v", err)
				}
			})
		}
		if e.Seq > 1 && !e.XOR {
			stopRun()
		}
	})

	s, err := deltaship.New(cfg,
		configwatcher.WithConfigWatcher(configwatcher.Config{DebounceDelay: 10 * time.Millisecond}),
		deltaship.WithFrameHandler(handler),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	stats, err := s.Run(stop)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled (reload never applied)", err)
	}
	if stats.Mismatches != 0 {
		t.Errorf("mismatches = %d", stats.Mismatches)
	}
}

// =============================================================================
// Edge Case Tests
// =============================================================================

func TestSession_RunWhileRunning(t *testing.T) {
	cfg := smallConfig()
	cfg.Frames = 0

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var s *deltaship.Session
	var second error
	handler := deltaship.FrameHandlerFunc(func(e deltaship.FrameEvent) {
		if e.Seq == 2 {
			_, second = s.Run(ctx)
			cancel()
		}
	})

	s, err := deltaship.New(cfg, deltaship.WithFrameHandler(handler))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if _, err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v", err)
	}
	if !errors.Is(second, deltaship.ErrAlreadyRunning) {
		t.Errorf("nested Run() error = %v, want ErrAlreadyRunning", second)
	}
}
