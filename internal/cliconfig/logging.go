package cliconfig

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/bft-labs/deltaship/pkg/log"
)

// Logger returns a console logger at the given level.
func Logger(level string) zerolog.Logger {
	return log.NewConsoleLogger(os.Stderr, level)
}
