package app

import (
	"context"
	"fmt"
	"time"

	"github.com/bft-labs/deltaship/internal/codec"
	"github.com/bft-labs/deltaship/internal/domain"
	"github.com/bft-labs/deltaship/internal/ports"
)

// SimConfig contains configuration for the simulation loop.
type SimConfig struct {
	// Frames is the number of exchanges after the initial frame.
	// Zero runs until the generator is exhausted or the context is canceled.
	Frames int

	// Verify compares the receiver copy with the sender state after every frame.
	Verify bool

	// StopOnError ends the run on the first codec or channel error. When false
	// the error is counted and both sides fall back to a full frame.
	StopOnError bool
}

// FrameEventEmitter is called after every frame exchange.
type FrameEventEmitter interface {
	OnFrame(report domain.FrameReport)
}

// Simulator drives one sender and one receiver through a run of frames.
type Simulator struct {
	config   SimConfig
	state    domain.Frame
	enc      *codec.Encoder
	dec      *codec.Decoder
	channel  ports.Channel
	gen      ports.StateGenerator
	recorder ports.StatsRecorder
	logger   ports.Logger
	emitter  FrameEventEmitter

	tuning tuningQueue
	stats  domain.Stats
}

// NewSimulator creates a simulator. state is the sender's buffer; channel must
// deliver into dec. recorder and emitter may be nil.
func NewSimulator(
	config SimConfig,
	state domain.Frame,
	enc *codec.Encoder,
	dec *codec.Decoder,
	channel ports.Channel,
	gen ports.StateGenerator,
	recorder ports.StatsRecorder,
	logger ports.Logger,
	emitter FrameEventEmitter,
) *Simulator {
	return &Simulator{
		config:   config,
		state:    state,
		enc:      enc,
		dec:      dec,
		channel:  channel,
		gen:      gen,
		recorder: recorder,
		logger:   logger,
		emitter:  emitter,
	}
}

// Tune queues setting changes for the next frame boundary.
// Safe to call from any goroutine.
func (s *Simulator) Tune(t Tuning) {
	if t.Empty() {
		return
	}
	s.tuning.push(t)
}

// Stats returns the totals so far. Not safe to call concurrently with Run.
func (s *Simulator) Stats() domain.Stats {
	return s.stats
}

// Run sends the current state as the initial frame, then advances the
// generator and exchanges one frame per step.
// Returns when the frame budget is spent, the generator is exhausted, the
// context is canceled, or (with StopOnError) a frame fails.
func (s *Simulator) Run(ctx context.Context) (domain.Stats, error) {
	if err := s.exchange(0); err != nil && s.config.StopOnError {
		return s.stats, err
	}

	for seq := uint64(1); s.config.Frames <= 0 || seq <= uint64(s.config.Frames); seq++ {
		select {
		case <-ctx.Done():
			return s.stats, ctx.Err()
		default:
		}

		s.applyTuning()

		more, err := s.gen.Advance(s.state)
		if err != nil {
			return s.stats, fmt.Errorf("advance state: %w", err)
		}
		if !more {
			s.logger.Info("state generator exhausted", ports.Uint64("frames", seq-1))
			return s.stats, nil
		}

		if err := s.exchange(seq); err != nil && s.config.StopOnError {
			return s.stats, err
		}
	}
	return s.stats, nil
}

// exchange encodes the current state through the channel and checks the result.
func (s *Simulator) exchange(seq uint64) error {
	before := s.channel.Traffic()
	xor := s.enc.NextIsDelta()

	start := time.Now()
	err := s.enc.Encode(s.state, s.channel)
	report := domain.FrameReport{
		Seq:      seq,
		RawBytes: len(s.state),
		Traffic:  s.channel.Traffic().Sub(before),
		XOR:      xor,
		Err:      err,
		Duration: time.Since(start),
	}

	switch {
	case err != nil:
		err = fmt.Errorf("frame %d: %w", seq, err)
		s.logger.Error("frame exchange failed", ports.Uint64("frame", seq), ports.Err(err))
		s.resync()
	case s.config.Verify:
		if off := s.dec.View().FirstDiff(s.state); off >= 0 {
			report.Mismatch = true
			s.logger.Warn("receiver copy mismatch",
				ports.Uint64("frame", seq),
				ports.Int("offset", off),
			)
			s.resync()
		}
	}

	s.stats.Add(report)
	if s.recorder != nil {
		s.recorder.RecordFrame(report)
	}
	if s.emitter != nil {
		s.emitter.OnFrame(report)
	}

	s.logger.Debug("frame exchanged",
		ports.Uint64("frame", seq),
		ports.Bool("xor", xor),
		ports.Int64("wire_bytes", report.Traffic.WireBytes),
		ports.Int64("chunks", report.Traffic.Chunks()),
		ports.Duration("duration", report.Duration),
	)
	return err
}

// resync makes both sides start over with a full frame.
func (s *Simulator) resync() {
	s.enc.Reset()
	s.dec.Reset()
}

// applyTuning applies queued settings. Called between frames only.
func (s *Simulator) applyTuning() {
	t := s.tuning.take()
	if t.Empty() {
		return
	}

	if t.XOR != nil && *t.XOR != s.enc.XOR() {
		s.enc.SetXOR(*t.XOR)
		if err := s.dec.SetXOR(*t.XOR); err != nil {
			// Cannot happen on a frame boundary; keep both sides consistent anyway.
			s.logger.Error("decoder rejected xor change", ports.Err(err))
			s.enc.SetXOR(!*t.XOR)
		} else {
			s.logger.Info("xor delta toggled", ports.Bool("xor", *t.XOR))
		}
	}

	if t.MaxChanges != nil {
		if g, ok := s.gen.(interface{ SetMaxChanges(int) }); ok {
			g.SetMaxChanges(*t.MaxChanges)
			s.logger.Info("max changes updated", ports.Int("max_changes", *t.MaxChanges))
		}
	}
}
