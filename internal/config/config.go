// Package config builds the fibdrv run configuration. Values come, in
// decreasing priority, from command-line flags, FIBDRV_* environment
// variables, a TOML file named by -config, and built-in defaults.
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/fibdrv/internal/errors"
	"github.com/agbru/fibdrv/internal/fibdrv"
	"github.com/agbru/fibdrv/internal/fibonacci"
	"github.com/agbru/fibdrv/internal/logging"
)

// EnvPrefix prefixes every environment variable read by fibdrv.
const EnvPrefix = "FIBDRV_"

// Run modes.
const (
	ModeCalc   = "calc"
	ModeRead   = "read"
	ModeStat   = "stat"
	ModePlot   = "plot"
	ModeServer = "server"
)

// Modes lists the valid run modes.
var Modes = []string{ModeCalc, ModeRead, ModeStat, ModePlot, ModeServer}

// Defaults.
const (
	DefaultMode      = ModeCalc
	DefaultK         = 100
	DefaultAlgo      = "all"
	DefaultTimeout   = 5 * time.Minute
	DefaultPort      = "8080"
	DefaultSamples   = 1000
	DefaultMaxK      = 100_000
	DefaultCacheSize = 256
	DefaultRateLimit = 20.0
	DefaultRateBurst = 40
)

// AppConfig is the complete configuration of one fibdrv run.
type AppConfig struct {
	// Mode selects what the run does: calc, read, stat, plot or server.
	Mode string
	// K is the Fibonacci index computed in calc mode.
	K int64
	// Algo is a registered calculator name, or "all" to compare them.
	Algo string
	// Timeout bounds a calc run.
	Timeout time.Duration
	// DisableSmallPath forces the big-integer engines for small indices.
	DisableSmallPath bool
	// MaxLimbs caps every big-integer buffer; 0 keeps the default limit.
	MaxLimbs int

	// Offset is the last device position visited by read, stat and plot.
	// A negative value selects the mode's default.
	Offset int64
	// Samples is the number of timings per strategy and position in stat mode.
	Samples int
	// CPU pins device timings to one CPU; -1 selects the first allowed CPU.
	CPU int

	// Port is the HTTP listen port in server mode.
	Port string
	// MaxK is the largest index the server accepts.
	MaxK int64
	// CacheSize is the number of decimal results the server keeps.
	CacheSize int
	// RateLimit is the per-client request rate in requests per second; 0
	// disables rate limiting.
	RateLimit float64
	// RateBurst is the per-client burst size.
	RateBurst int

	Verbose    bool
	Details    bool
	Quiet      bool
	JSONOutput bool
	NoColor    bool
	Theme      string
	OutputFile string

	// ConfigFile is the TOML file the configuration was read from, if any.
	ConfigFile string
	// Log configures the process logger.
	Log logging.Options
}

// ToCalculationOptions returns the calculator options for this config.
func (c AppConfig) ToCalculationOptions() fibonacci.Options {
	return fibonacci.Options{DisableSmallPath: c.DisableSmallPath}
}

// BenchOffset returns the last device position for the current mode.
func (c AppConfig) BenchOffset() int64 {
	if c.Offset >= 0 {
		return c.Offset
	}
	if c.Mode == ModeRead {
		return 1000
	}
	return 100
}

// Validate checks value ranges and names.
//
// Parameters:
//   - availableAlgos: The registered calculator names.
//
// Returns:
//   - error: A ConfigError describing the first invalid value, or nil.
func (c AppConfig) Validate(availableAlgos []string) error {
	switch {
	case !slices.Contains(Modes, c.Mode):
		return apperrors.NewConfigError("unrecognized mode: '%s'. Valid modes are: [%s]", c.Mode, strings.Join(Modes, ", "))
	case c.K < 0:
		return apperrors.NewConfigError("index k cannot be negative: %d", c.K)
	case c.Timeout <= 0:
		return apperrors.NewConfigError("timeout value must be strictly positive")
	case c.MaxLimbs < 0:
		return apperrors.NewConfigError("max-limbs cannot be negative: %d", c.MaxLimbs)
	case c.Offset > fibdrv.MaxLength:
		return apperrors.NewConfigError("offset %d exceeds the device maximum %d", c.Offset, fibdrv.MaxLength)
	case c.Samples <= 0:
		return apperrors.NewConfigError("samples must be strictly positive: %d", c.Samples)
	case c.MaxK <= 0:
		return apperrors.NewConfigError("max-k must be strictly positive: %d", c.MaxK)
	case c.CacheSize < 0:
		return apperrors.NewConfigError("cache size cannot be negative: %d", c.CacheSize)
	case c.RateLimit < 0 || c.RateBurst < 0:
		return apperrors.NewConfigError("rate limit and burst cannot be negative")
	case c.Algo != DefaultAlgo && !slices.Contains(availableAlgos, c.Algo):
		return apperrors.NewConfigError("unrecognized algorithm: '%s'. Valid algorithms are: 'all' or [%s]", c.Algo, strings.Join(availableAlgos, ", "))
	}
	return nil
}

// ParseConfig parses args into an AppConfig, then applies the config file
// and environment to the values no flag set, and validates the result.
//
// Parameters:
//   - programName: The program name shown in usage.
//   - args: The arguments without the program name.
//   - errorWriter: The destination of usage and parse errors.
//   - availableAlgos: The registered calculator names.
//
// Returns:
//   - AppConfig: The configuration.
//   - error: flag.ErrHelp for -h, a parse error, or a ConfigError.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	config := AppConfig{Log: logging.DefaultOptions()}
	fs.StringVar(&config.Mode, "mode", DefaultMode, fmt.Sprintf("Run mode: one of [%s].", strings.Join(Modes, ", ")))
	fs.Int64Var(&config.K, "k", DefaultK, "Index k of the Fibonacci number to calculate.")
	fs.Int64Var(&config.K, "n", DefaultK, "Alias for -k.")
	fs.StringVar(&config.Algo, "algo", DefaultAlgo, fmt.Sprintf("Algorithm to use: 'all' or one of [%s].", strings.Join(availableAlgos, ", ")))
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time for a calculation.")
	fs.BoolVar(&config.DisableSmallPath, "no-small-path", false, "Use the big-integer engines even for indices that fit 128 bits.")
	fs.IntVar(&config.MaxLimbs, "max-limbs", 0, "Maximum limbs per big-integer buffer (0 keeps the built-in limit).")
	fs.Int64Var(&config.Offset, "offset", -1, "Last device position for read, stat and plot (default 1000 for read, 100 otherwise).")
	fs.IntVar(&config.Samples, "samples", DefaultSamples, "Timings per strategy and position in stat mode.")
	fs.IntVar(&config.CPU, "cpu", -1, "CPU to pin device timings to (-1 picks the first allowed CPU).")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.Int64Var(&config.MaxK, "max-k", DefaultMaxK, "Largest index accepted by the server.")
	fs.IntVar(&config.CacheSize, "cache-size", DefaultCacheSize, "Number of results cached by the server (0 disables the cache).")
	fs.Float64Var(&config.RateLimit, "rate-limit", DefaultRateLimit, "Requests per second allowed per client (0 disables rate limiting).")
	fs.IntVar(&config.RateBurst, "rate-burst", DefaultRateBurst, "Request burst allowed per client.")
	fs.BoolVar(&config.Verbose, "v", false, "Display the full value of the result.")
	fs.BoolVar(&config.Details, "d", false, "Display result metadata.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print only the result.")
	fs.BoolVar(&config.Quiet, "q", false, "Alias for -quiet.")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output results in JSON format.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR).")
	fs.StringVar(&config.Theme, "theme", "dark", "Color theme: dark, light or none.")
	fs.StringVar(&config.OutputFile, "o", "", "Write the result to this file.")
	fs.StringVar(&config.ConfigFile, "config", "", "Path to a TOML configuration file.")
	fs.StringVar(&config.Log.Level, "log-level", config.Log.Level, "Log level: trace, debug, info, warn, error or disabled.")
	fs.StringVar(&config.Log.Format, "log-format", config.Log.Format, "Log format: console or json.")
	fs.StringVar(&config.Log.File, "log-file", "", "Also write JSON logs to this rotating file.")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	if !isFlagSet(fs, "config") {
		config.ConfigFile = getEnvString("CONFIG", config.ConfigFile)
	}
	if config.ConfigFile != "" {
		if err := applyFileOverrides(&config, fs, config.ConfigFile); err != nil {
			return AppConfig{}, err
		}
	}
	if err := applyEnvOverrides(&config, fs); err != nil {
		return AppConfig{}, err
	}

	config.Mode = strings.ToLower(config.Mode)
	config.Algo = strings.ToLower(config.Algo)
	config.Log.NoColor = config.NoColor
	if err := config.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, err
	}
	return config, nil
}
