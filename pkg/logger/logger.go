// Package logger builds the slog loggers used across graphrag.
//
// Output goes through charmbracelet/log, which renders colored, timestamped
// lines on a terminal and can switch to JSON for log shippers.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Format selects the line encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Options configures New.
type Options struct {
	Level  slog.Level
	Format Format
	Output io.Writer
	// Prefix is printed before every message, e.g. a subcommand name.
	Prefix string
}

// NewDefaultLogger returns a text logger on stderr at level.
func NewDefaultLogger(level slog.Level) *slog.Logger {
	return New(Options{Level: level})
}

// New returns a logger configured by opts.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	formatter := log.TextFormatter
	if opts.Format == FormatJSON {
		formatter = log.JSONFormatter
	}

	handler := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Level:           log.Level(opts.Level),
		Formatter:       formatter,
		Prefix:          opts.Prefix,
	})
	return slog.New(handler)
}

// ParseLevel maps debug, info, warn and error onto slog levels.
func ParseLevel(s string) (slog.Level, error) {
	level, err := log.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return slog.LevelInfo, err
	}
	return slog.Level(level), nil
}

// ParseFormat maps a config value onto a Format, defaulting to text.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), string(FormatJSON)) {
		return FormatJSON
	}
	return FormatText
}
