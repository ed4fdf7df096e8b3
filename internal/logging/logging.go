// Package logging sets up the process-wide structured loggers used by
// the control-thread side of the engine, the worker host, and the
// scanner. None of it is reachable from the audio thread: per §4.7 the
// hot path never logs.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Options configures a process logger.
type Options struct {
	// Level is one of "debug", "info", "warn", "error". Empty defaults
	// to "info".
	Level string

	// Prefix names the process in every line ("engine", "worker",
	// "scanner") so a shared stderr from a supervisor stays readable.
	Prefix string

	// Writer overrides the destination. Worker processes use stdout for
	// the control protocol, so their logger must write to stderr
	// instead; callers pass os.Stderr explicitly for that case.
	Writer io.Writer
}

// New builds a charmbracelet/log logger configured for opts. Every
// process binary in this module (cmd/vvdaw-worker, cmd/vvdaw-scanner,
// cmd/vvdawctl) constructs exactly one at startup and threads it through
// rather than using a package-level global.
func New(opts Options) *log.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	l := log.NewWithOptions(w, log.Options{
		Prefix:          opts.Prefix,
		ReportTimestamp: true,
	})
	l.SetLevel(parseLevel(opts.Level))
	return l
}

func parseLevel(s string) log.Level {
	switch s {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
