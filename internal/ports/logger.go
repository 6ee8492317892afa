package ports

import "github.com/bft-labs/deltaship/pkg/log"

// Logger is the structured logger used by internal layers.
type Logger = log.Logger

// Field is a structured log field.
type Field = log.Field

// Field constructors, re-exported so internal packages import a single port.
var (
	String   = log.String
	Int      = log.Int
	Int64    = log.Int64
	Uint64   = log.Uint64
	Float64  = log.Float64
	Bool     = log.Bool
	Duration = log.Duration
	Hex      = log.Hex
	Err      = log.Err
	Any      = log.Any
)
