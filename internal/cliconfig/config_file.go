package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config in TOML form. Pointers distinguish "unset" from
// false for booleans.
type FileConfig struct {
	Records     int    `toml:"records"`
	Frames      int    `toml:"frames"`
	MaxChanges  int    `toml:"max_changes"`
	Seed        string `toml:"seed"`
	XOR         *bool  `toml:"xor"`
	Mode        string `toml:"mode"`
	Transport   string `toml:"transport"`
	Verify      *bool  `toml:"verify"`
	StopOnError *bool  `toml:"stop_on_error"`
	LogLevel    string `toml:"log_level"`
	MetricsAddr string `toml:"metrics_addr"`
	ReportDir   string `toml:"report_dir"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.deltaship/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".deltaship", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setInt("records", fc.Records, &cfg.Records)
	s.setInt("frames", fc.Frames, &cfg.Frames)
	s.setInt("max-changes", fc.MaxChanges, &cfg.MaxChanges)

	s.setString("seed", fc.Seed, &cfg.Seed)
	s.setString("mode", fc.Mode, &cfg.Mode)
	s.setString("transport", fc.Transport, &cfg.Transport)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("metrics-addr", fc.MetricsAddr, &cfg.MetricsAddr)
	s.setString("report-dir", fc.ReportDir, &cfg.ReportDir)

	s.setBool("xor", fc.XOR, &cfg.XOR)
	s.setBool("verify", fc.Verify, &cfg.Verify)
	s.setBool("stop-on-error", fc.StopOnError, &cfg.StopOnError)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
