// Package logging builds the leveled console logger shared by the server
// and the CLI.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// Prefix is prepended to every log line.
const Prefix = "faunatodo"

// Options holds configuration for a logger.
type Options struct {
	Debug           bool
	ReportTimestamp bool
	Prefix          string
}

// New returns a text logger writing to w. Debug lowers the level to debug.
func New(w io.Writer, debug bool) *log.Logger {
	return NewWithOptions(w, Options{Debug: debug, ReportTimestamp: true, Prefix: Prefix})
}

// NewWithOptions returns a text logger configured by opts.
func NewWithOptions(w io.Writer, opts Options) *log.Logger {
	level := log.InfoLevel
	if opts.Debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       log.TextFormatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
