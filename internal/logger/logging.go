// Package logger provides prefixed charmbracelet/log loggers for the packages of suggestfield.
//
// Loggers write to stderr: stdout carries the msgpack command stream.
package logger

import (
	"os"

	"github.com/charmbracelet/log"
)

// New creates a charm log that follows the global log level.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: log.GetLevel() <= log.DebugLevel,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}
