package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the process logger.
type Options struct {
	// Level is a zerolog level name: trace, debug, info, warn, error, disabled.
	Level string `toml:"level"`
	// Format is "console" for human-readable output or "json".
	Format string `toml:"format"`
	// File, when set, also writes JSON entries to a rotating log file.
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
	// NoColor disables colors in console output.
	NoColor bool `toml:"-"`
}

// DefaultOptions returns warning-level console logging with no file sink.
func DefaultOptions() Options {
	return Options{Level: "warn", Format: "console", MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 28}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a zerolog.Logger writing to stderr and, when opts.File is set,
// to a lumberjack rotating file. The returned closer releases the file.
//
// Parameters:
//   - opts: The logger options.
//   - stderr: The console destination.
//
// Returns:
//   - zerolog.Logger: The configured logger.
//   - io.Closer: Closes the file sink; a no-op without one.
//   - error: An error if the level or format is unknown.
func New(opts Options, stderr io.Writer) (zerolog.Logger, io.Closer, error) {
	level := zerolog.WarnLevel
	if opts.Level != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("log level: %w", err)
		}
		level = l
	}

	var console io.Writer
	switch strings.ToLower(opts.Format) {
	case "", "console":
		console = zerolog.ConsoleWriter{Out: stderr, NoColor: opts.NoColor, TimeFormat: "15:04:05"}
	case "json":
		console = stderr
	default:
		return zerolog.Nop(), nil, fmt.Errorf("log format %q: want console or json", opts.Format)
	}

	var closer io.Closer = nopCloser{}
	out := console
	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}
		out = zerolog.MultiLevelWriter(console, file)
		closer = file
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logger, closer, nil
}

// Install makes logger the global zerolog logger used by the calculators
// and the device.
func Install(logger zerolog.Logger) {
	log.Logger = logger
}
