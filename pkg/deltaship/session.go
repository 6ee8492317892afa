package deltaship

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/deltaship/internal/adapters/fs"
	"github.com/bft-labs/deltaship/internal/adapters/loopback"
	"github.com/bft-labs/deltaship/internal/adapters/metrics"
	"github.com/bft-labs/deltaship/internal/app"
	"github.com/bft-labs/deltaship/internal/codec"
	"github.com/bft-labs/deltaship/internal/domain"
	"github.com/bft-labs/deltaship/internal/ports"
	"github.com/bft-labs/deltaship/internal/record"
)

// Session runs a sender and a receiver through a sequence of frames.
// Use New() to create an instance, then Run() to exchange frames.
type Session struct {
	config  Config
	logger  ports.Logger
	plugins []Plugin

	state   domain.Frame
	dec     *codec.Decoder
	sim     *app.Simulator
	reports ports.ReportRepository

	mu      sync.Mutex
	running bool
}

// New creates a session with the given configuration.
// Returns an error if configuration is invalid or the metrics collectors
// cannot be registered.
func New(cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := validateModuleVersions(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	length := cfg.FrameLen()
	state, err := domain.NewFrame(length)
	if err != nil {
		return nil, err
	}
	codecOpts := codec.Options{XOR: cfg.XOR}
	enc, err := codec.NewEncoder(length, codecOpts)
	if err != nil {
		return nil, err
	}
	dec, err := codec.NewDecoder(length, codecOpts)
	if err != nil {
		return nil, err
	}

	var channel ports.Channel
	switch cfg.Transport {
	case TransportWire:
		channel = loopback.NewWire(dec)
	default:
		channel = loopback.NewDirect(dec)
	}

	gen := o.generator
	if gen == nil {
		gen = newGenerator(cfg)
	}

	var recorder ports.StatsRecorder
	if o.registerer != nil {
		r, err := metrics.NewRecorder(o.registerer)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		recorder = r
	}

	var emitter app.FrameEventEmitter
	if o.frameHandler != nil {
		emitter = frameEmitter{handler: o.frameHandler}
	}

	var reports ports.ReportRepository
	if cfg.ReportDir != "" {
		reports = fs.NewReportFileRepository(cfg.ReportDir)
	}

	sim := app.NewSimulator(
		app.SimConfig{
			Frames:      cfg.Frames,
			Verify:      cfg.Verify,
			StopOnError: cfg.StopOnError,
		},
		state, enc, dec, channel, gen, recorder, o.logger, emitter,
	)

	return &Session{
		config:  cfg,
		logger:  o.logger,
		plugins: o.plugins,
		state:   state,
		dec:     dec,
		sim:     sim,
		reports: reports,
	}, nil
}

func newGenerator(cfg Config) ports.StateGenerator {
	if cfg.Mode == ModeManual {
		return record.NewScriptedGenerator(record.ManualScript()...)
	}
	return record.NewRandomGenerator(cfg.Seed, cfg.MaxChanges)
}

// Run sends the initial frame, then one frame per generator step until
// Config.Frames is reached, the generator is exhausted or ctx is canceled.
// Plugins live for the duration of the call. Stats accumulate across calls;
// a second Run continues from the state the first one left.
func (s *Session) Run(ctx context.Context) (Stats, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return Stats{}, ErrAlreadyRunning
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	pluginCfg := PluginConfig{
		ConfigPath: s.config.ConfigPath,
		Logger:     s.logger,
		Tuner:      s,
	}
	for i, p := range s.plugins {
		if err := p.Initialize(runCtx, pluginCfg); err != nil {
			s.logger.Error("plugin initialization failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
			cancel()
			s.shutdownPlugins(s.plugins[:i])
			return Stats{}, fmt.Errorf("initialize plugin %s: %w", p.Name(), err)
		}
		s.logger.Info("plugin initialized", ports.String("plugin", p.Name()))
	}

	s.logger.Info("session starting",
		ports.Int("records", s.config.Records),
		ports.Int("frame_length", len(s.state)),
		ports.Int64("seed", s.config.Seed),
		ports.Bool("xor", s.config.XOR),
		ports.String("mode", s.config.Mode),
		ports.String("transport", s.config.Transport),
	)

	started := time.Now()
	stats, err := s.sim.Run(runCtx)
	finished := time.Now()

	cancel()
	s.shutdownPlugins(s.plugins)

	if s.reports != nil {
		report := domain.RunReport{
			Seed:         s.config.Seed,
			XOR:          s.config.XOR,
			FrameLength:  len(s.state),
			Transport:    s.config.Transport,
			Stats:        stats,
			RatioPercent: stats.Ratio(),
			StartedAt:    started.UTC(),
			FinishedAt:   finished.UTC(),
		}
		if saveErr := s.reports.Save(report); saveErr != nil {
			s.logger.Error("failed to save run report", ports.Err(saveErr))
			if err == nil {
				err = fmt.Errorf("save report: %w", saveErr)
			}
		}
	}

	s.logger.Info("session finished",
		ports.Int64("frames", stats.Frames),
		ports.Int64("raw_bytes", stats.RawBytes),
		ports.Int64("wire_bytes", stats.WireBytes),
		ports.Float64("ratio_percent", stats.Ratio()),
		ports.Int64("mismatches", stats.Mismatches),
		ports.Int64("errors", stats.Errors),
		ports.Duration("elapsed", finished.Sub(started)),
	)
	return stats, err
}

// shutdownPlugins shuts plugins down in reverse order.
func (s *Session) shutdownPlugins(plugins []Plugin) {
	ctx := context.Background()
	for i := len(plugins) - 1; i >= 0; i-- {
		p := plugins[i]
		if err := p.Shutdown(ctx); err != nil {
			s.logger.Error("plugin shutdown failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
		} else {
			s.logger.Info("plugin shutdown complete", ports.String("plugin", p.Name()))
		}
	}
}

// SetXOR switches delta coding on both sides at the next frame boundary.
// Safe to call from any goroutine.
func (s *Session) SetXOR(enabled bool) {
	s.sim.Tune(app.Tuning{XOR: &enabled})
}

// SetMaxChanges changes how many records the random generator may change per
// frame, from the next frame on. Ignored by generators without that setting.
// Safe to call from any goroutine.
func (s *Session) SetMaxChanges(n int) {
	if n < 1 {
		return
	}
	s.sim.Tune(app.Tuning{MaxChanges: &n})
}

// State returns a copy of the sender's current frame.
// Not safe to call while Run is in progress.
func (s *Session) State() Frame {
	return s.state.Clone()
}

// Mirror returns a copy of the receiver's current frame.
// Not safe to call while Run is in progress.
func (s *Session) Mirror() Frame {
	return s.dec.Frame()
}

// frameEmitter adapts FrameHandler to the simulator's emitter interface.
type frameEmitter struct {
	handler FrameHandler
}

func (e frameEmitter) OnFrame(report domain.FrameReport) {
	e.handler.OnFrame(report)
}
