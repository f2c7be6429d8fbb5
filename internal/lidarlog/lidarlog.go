// Package lidarlog provides the standard-library loggers shared by the
// ingest client, ingest server, and monitor fan-out, matching the plain
// log.Printf style used throughout radar/serial.go and internal/deploy.
package lidarlog

import (
	"io"
	"log"
	"os"
)

// Loggers groups the informational and error output streams a component
// writes to. Keeping them as separate *log.Logger values, rather than one
// leveled logger, writes errors to stderr and everything else to stdout.
type Loggers struct {
	Info  *log.Logger
	Error *log.Logger
}

// Default returns Loggers writing to stdout/stderr with a standard
// timestamp prefix.
func Default() Loggers {
	return Loggers{
		Info:  log.New(os.Stdout, "", log.LstdFlags),
		Error: log.New(os.Stderr, "", log.LstdFlags),
	}
}

// Discard returns Loggers that drop all output, for tests that don't want
// component log noise.
func Discard() Loggers {
	return Loggers{
		Info:  log.New(io.Discard, "", 0),
		Error: log.New(io.Discard, "", 0),
	}
}
