package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (DELTASHIP_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	if err := s.setIntFromString("records", os.Getenv("DELTASHIP_RECORDS"), &cfg.Records); err != nil {
		return err
	}
	if err := s.setIntFromString("frames", os.Getenv("DELTASHIP_FRAMES"), &cfg.Frames); err != nil {
		return err
	}
	if err := s.setIntFromString("max-changes", os.Getenv("DELTASHIP_MAX_CHANGES"), &cfg.MaxChanges); err != nil {
		return err
	}

	s.setString("seed", os.Getenv("DELTASHIP_SEED"), &cfg.Seed)
	s.setString("mode", os.Getenv("DELTASHIP_MODE"), &cfg.Mode)
	s.setString("transport", os.Getenv("DELTASHIP_TRANSPORT"), &cfg.Transport)
	s.setString("log-level", os.Getenv("DELTASHIP_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("metrics-addr", os.Getenv("DELTASHIP_METRICS_ADDR"), &cfg.MetricsAddr)
	s.setString("report-dir", os.Getenv("DELTASHIP_REPORT_DIR"), &cfg.ReportDir)

	s.setBoolFromString("xor", os.Getenv("DELTASHIP_XOR"), &cfg.XOR)
	s.setBoolFromString("verify", os.Getenv("DELTASHIP_VERIFY"), &cfg.Verify)
	s.setBoolFromString("stop-on-error", os.Getenv("DELTASHIP_STOP_ON_ERROR"), &cfg.StopOnError)
	s.setBoolFromString("watch", os.Getenv("DELTASHIP_WATCH"), &cfg.Watch)

	return nil
}
