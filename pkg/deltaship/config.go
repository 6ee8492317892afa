package deltaship

import (
	"fmt"

	"github.com/bft-labs/deltaship/internal/domain"
	"github.com/bft-labs/deltaship/internal/record"
)

// Simulation modes.
const (
	// ModeRandom changes a random number of random records every frame.
	ModeRandom = "random"

	// ModeManual replays two hand-written states, then stops.
	ModeManual = "manual"
)

// Transports between encoder and decoder.
const (
	// TransportDirect hands chunks straight to the decoder.
	TransportDirect = "direct"

	// TransportWire serialises every chunk to bytes and parses it back.
	TransportWire = "wire"
)

// Config holds the session configuration.
type Config struct {
	// Records is the number of records in the state table. Default: 1000
	Records int

	// Frames is the number of frames sent after the initial one.
	// Zero runs until the context is canceled or the generator is exhausted.
	Frames int

	// MaxChanges bounds how many records change per frame in ModeRandom.
	// Default: 20
	MaxChanges int

	// Seed seeds the random generator.
	Seed int64

	// XOR enables delta coding against the previous frame. Default: true
	XOR bool

	// Mode selects the state generator: ModeRandom or ModeManual.
	Mode string

	// Transport selects the channel: TransportDirect or TransportWire.
	Transport string

	// Verify compares the receiver copy with the sender after every frame.
	Verify bool

	// StopOnError ends the run on the first failed frame. When false, both
	// sides fall back to a full frame and the run continues.
	StopOnError bool

	// ReportDir, when set, receives report.json at the end of the run.
	ReportDir string

	// ConfigPath is handed to plugins that watch the configuration file.
	ConfigPath string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Records:     record.DefaultCount,
		Frames:      1000,
		MaxChanges:  record.DefaultMaxChanges,
		XOR:         true,
		Mode:        ModeRandom,
		Transport:   TransportDirect,
		Verify:      true,
		StopOnError: true,
	}
}

// FrameLen returns the frame length in bytes for the configured table.
func (c Config) FrameLen() int {
	return record.FrameLen(c.Records)
}

// Validate checks the configuration. Errors wrap ErrInvalidConfig.
func (c Config) Validate() error {
	if c.Records < 1 {
		return fmt.Errorf("%w: records must be positive", ErrInvalidConfig)
	}
	if n := c.FrameLen(); n > domain.MaxFrameLength {
		return fmt.Errorf("%w: frame of %d bytes exceeds %d", ErrInvalidConfig, n, domain.MaxFrameLength)
	}
	if c.Frames < 0 {
		return fmt.Errorf("%w: frames must not be negative", ErrInvalidConfig)
	}
	if c.MaxChanges < 1 {
		return fmt.Errorf("%w: max changes must be positive", ErrInvalidConfig)
	}
	switch c.Mode {
	case ModeRandom:
	case ModeManual:
		if c.Records < record.DefaultCount {
			return fmt.Errorf("%w: manual mode needs at least %d records", ErrInvalidConfig, record.DefaultCount)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
	switch c.Transport {
	case TransportDirect, TransportWire:
	default:
		return fmt.Errorf("%w: unknown transport %q", ErrInvalidConfig, c.Transport)
	}
	return nil
}
