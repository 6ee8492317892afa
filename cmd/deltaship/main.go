package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/deltaship/internal/cliconfig"
	"github.com/bft-labs/deltaship/pkg/deltaship"
	"github.com/bft-labs/deltaship/pkg/log"
	"github.com/bft-labs/deltaship/plugins/configwatcher"
)

const longHelp = `Simulate state synchronization between a sender and a receiver.

The sender holds a table of 8-byte records and changes a few of them every
frame. Each frame is XORed against the previous one and run-length coded into
literal and repeat chunks; the receiver rebuilds an exact copy.

The optional seed argument seeds the random generator. Prefix it with '^' to
send every frame in full instead of as a delta.`

var exampleUsage = strings.TrimSpace(`
  deltaship 42
  deltaship ^42 --frames 100 --transport wire
  deltaship --mode manual --log-level debug
  deltaship --frames 0 --metrics-addr :9102 --watch
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:           "deltaship [seed]",
		Short:         "Simulate XOR-delta run-length state synchronization",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags; a seed argument counts as the seed flag
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
			if len(args) == 1 {
				cfg.Seed = args[0]
				changed["seed"] = true
			}

			haveFile := cfgFile != "" && cliconfig.FileExists(cfgFile)
			if haveFile {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// Environment (DELTASHIP_*) overrides the file, flags override both
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return fmt.Errorf("environment: %w", err)
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := cliconfig.Logger(cfg.LogLevel)
			logger.Info().Interface("config", cfg).Msg("configuration")

			return run(cmd.Context(), cfg, cfgFile, haveFile, logger)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.deltaship/config.toml)")
	root.Flags().IntVar(&cfg.Records, "records", cfg.Records, "number of records in the state table")
	root.Flags().IntVar(&cfg.Frames, "frames", cfg.Frames, "frames to send after the initial one (0 = until interrupted)")
	root.Flags().IntVar(&cfg.MaxChanges, "max-changes", cfg.MaxChanges, "upper bound on records changed per frame")
	root.Flags().StringVar(&cfg.Seed, "seed", cfg.Seed, "random seed; a leading '^' disables XOR (default: current time)")
	root.Flags().BoolVar(&cfg.XOR, "xor", cfg.XOR, "XOR each frame against the previous one")
	root.Flags().StringVar(&cfg.Mode, "mode", cfg.Mode, "state generator: random or manual")
	root.Flags().StringVar(&cfg.Transport, "transport", cfg.Transport, "loopback channel: direct or wire")
	root.Flags().BoolVar(&cfg.Verify, "verify", cfg.Verify, "compare receiver and sender after every frame")
	root.Flags().BoolVar(&cfg.StopOnError, "stop-on-error", cfg.StopOnError, "stop at the first failed frame instead of resending in full")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	root.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve Prometheus metrics on this address")
	root.Flags().StringVar(&cfg.ReportDir, "report-dir", cfg.ReportDir, "write report.json to this directory")
	root.Flags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "reload xor and max_changes from the config file while running")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		logger := cliconfig.Logger(cfg.LogLevel)
		logger.Error().Err(err).Msg("deltaship")
		os.Exit(1)
	}
}

// run builds the session from cfg and runs it to completion.
func run(ctx context.Context, cfg cliconfig.Config, cfgFile string, haveFile bool, logger zerolog.Logger) error {
	libCfg := deltaship.Config{
		Records:     cfg.Records,
		Frames:      cfg.Frames,
		MaxChanges:  cfg.MaxChanges,
		Seed:        cfg.SeedValue,
		XOR:         cfg.XOR,
		Mode:        cfg.Mode,
		Transport:   cfg.Transport,
		Verify:      cfg.Verify,
		StopOnError: cfg.StopOnError,
		ReportDir:   cfg.ReportDir,
	}

	opts := []deltaship.Option{
		deltaship.WithLogger(log.NewZerologLogger(logger)),
	}

	if cfg.Watch {
		if haveFile {
			libCfg.ConfigPath = cfgFile
			opts = append(opts, configwatcher.WithDefaultConfigWatcher())
		} else {
			logger.Warn().Str("path", cfgFile).Msg("--watch ignored: config file not found")
		}
	}

	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts = append(opts, deltaship.WithRegisterer(reg))

		srv := serveMetrics(cfg.MetricsAddr, reg, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	s, err := deltaship.New(libCfg, opts...)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	stats, err := s.Run(ctx)
	printSummary(stats)

	if errors.Is(err, context.Canceled) {
		logger.Info().Msg("interrupted, stopping")
		return nil
	}
	if stats.Mismatches > 0 {
		logger.Warn().Int64("mismatches", stats.Mismatches).Msg("receiver copy differed from sender")
	}
	return err
}

// serveMetrics exposes reg on addr/metrics in the background.
func serveMetrics(addr string, reg *prometheus.Registry, logger zerolog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", addr).Msg("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server")
		}
	}()
	return srv
}

func printSummary(stats deltaship.Stats) {
	fmt.Printf("TX: %d frames, %d raw bytes  RX: %d wire bytes  (%.1f%%)\n",
		stats.Frames, stats.RawBytes, stats.WireBytes, stats.Ratio())
}
