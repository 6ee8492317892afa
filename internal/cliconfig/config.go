package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bft-labs/deltaship/internal/record"
)

// Simulation modes.
const (
	ModeRandom = "random"
	ModeManual = "manual"
)

// Channel transports.
const (
	TransportDirect = "direct"
	TransportWire   = "wire"
)

// Config holds CLI configuration for deltaship.
type Config struct {
	Records    int
	Frames     int
	MaxChanges int

	// Seed is the raw seed argument; a leading '^' disables XOR.
	Seed      string
	SeedValue int64

	XOR         bool
	Mode        string
	Transport   string
	Verify      bool
	StopOnError bool

	LogLevel    string
	MetricsAddr string
	ReportDir   string
	Watch       bool
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
		LogLevel:    "info",
	}
}

// Validate checks the configuration for errors and sets derived values.
// A missing seed is taken from the clock.
func (c *Config) Validate() error {
	if c.Records < 1 {
		return fmt.Errorf("records must be positive")
	}
	if c.Frames < 0 {
		return fmt.Errorf("frames must not be negative")
	}
	if c.MaxChanges < 1 {
		return fmt.Errorf("max-changes must be positive")
	}

	switch c.Mode {
	case ModeRandom:
	case ModeManual:
		if c.Records < record.DefaultCount {
			return fmt.Errorf("manual mode needs at least %d records", record.DefaultCount)
		}
	default:
		return fmt.Errorf("unknown mode %q (want %s or %s)", c.Mode, ModeRandom, ModeManual)
	}

	switch c.Transport {
	case TransportDirect, TransportWire:
	default:
		return fmt.Errorf("unknown transport %q (want %s or %s)", c.Transport, TransportDirect, TransportWire)
	}

	if c.Seed == "" {
		c.SeedValue = time.Now().Unix()
		return nil
	}
	seed, xorOff, err := ParseSeed(c.Seed)
	if err != nil {
		return err
	}
	c.SeedValue = seed
	if xorOff {
		c.XOR = false
	}
	return nil
}

// ParseSeed parses a seed argument. A leading '^' disables XOR delta coding.
func ParseSeed(s string) (seed int64, xorOff bool, err error) {
	if len(s) > 0 && s[0] == '^' {
		xorOff = true
		s = s[1:]
	}
	seed, err = strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse seed: %w", err)
	}
	return seed, xorOff, nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
