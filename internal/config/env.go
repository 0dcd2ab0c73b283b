package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/fibdrv/internal/errors"
)

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// envParser converts raw environment values; a malformed value is a
// ConfigError naming the variable.
type envParser struct {
	err error
}

func (p *envParser) fail(key, val, want string) {
	if p.err == nil {
		p.err = apperrors.NewConfigError("invalid %s%s=%q: want %s", EnvPrefix, key, val, want)
	}
}

func (p *envParser) int64(key string, dst *int64) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		v, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			p.fail(key, val, "an integer")
			return
		}
		*dst = v
	}
}

func (p *envParser) int(key string, dst *int) {
	v := int64(*dst)
	p.int64(key, &v)
	*dst = int(v)
}

func (p *envParser) float(key string, dst *float64) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			p.fail(key, val, "a number")
			return
		}
		*dst = v
	}
}

// bool accepts true/1/yes and false/0/no, case-insensitively.
func (p *envParser) bool(key string, dst *bool) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			*dst = true
		case "false", "0", "no":
			*dst = false
		default:
			p.fail(key, val, "a boolean")
		}
	}
}

func (p *envParser) duration(key string, dst *time.Duration) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		v, err := time.ParseDuration(val)
		if err != nil {
			p.fail(key, val, "a duration such as 30s or 5m")
			return
		}
		*dst = v
	}
}

func isFlagSet(fs *flag.FlagSet, names ...string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				found = true
			}
		}
	})
	return found
}

// applyEnvOverrides applies FIBDRV_* variables to the values no flag set.
// FIBDRV_CONFIG is read before the file is loaded, in ParseConfig.
func applyEnvOverrides(c *AppConfig, fs *flag.FlagSet) error {
	var p envParser
	str := func(key string, dst *string, flags ...string) {
		if !isFlagSet(fs, flags...) {
			*dst = getEnvString(key, *dst)
		}
	}

	str("MODE", &c.Mode, "mode")
	str("ALGO", &c.Algo, "algo")
	str("PORT", &c.Port, "port")
	str("THEME", &c.Theme, "theme")
	str("OUTPUT", &c.OutputFile, "o")
	str("LOG_LEVEL", &c.Log.Level, "log-level")
	str("LOG_FORMAT", &c.Log.Format, "log-format")
	str("LOG_FILE", &c.Log.File, "log-file")

	if !isFlagSet(fs, "k", "n") {
		p.int64("K", &c.K)
	}
	if !isFlagSet(fs, "offset") {
		p.int64("OFFSET", &c.Offset)
	}
	if !isFlagSet(fs, "max-k") {
		p.int64("MAX_K", &c.MaxK)
	}
	if !isFlagSet(fs, "max-limbs") {
		p.int("MAX_LIMBS", &c.MaxLimbs)
	}
	if !isFlagSet(fs, "samples") {
		p.int("SAMPLES", &c.Samples)
	}
	if !isFlagSet(fs, "cpu") {
		p.int("CPU", &c.CPU)
	}
	if !isFlagSet(fs, "cache-size") {
		p.int("CACHE_SIZE", &c.CacheSize)
	}
	if !isFlagSet(fs, "rate-burst") {
		p.int("RATE_BURST", &c.RateBurst)
	}
	if !isFlagSet(fs, "rate-limit") {
		p.float("RATE_LIMIT", &c.RateLimit)
	}
	if !isFlagSet(fs, "timeout") {
		p.duration("TIMEOUT", &c.Timeout)
	}
	if !isFlagSet(fs, "no-small-path") {
		p.bool("NO_SMALL_PATH", &c.DisableSmallPath)
	}
	if !isFlagSet(fs, "v") {
		p.bool("VERBOSE", &c.Verbose)
	}
	if !isFlagSet(fs, "d") {
		p.bool("DETAILS", &c.Details)
	}
	if !isFlagSet(fs, "quiet", "q") {
		p.bool("QUIET", &c.Quiet)
	}
	if !isFlagSet(fs, "json") {
		p.bool("JSON", &c.JSONOutput)
	}
	if !isFlagSet(fs, "no-color") {
		p.bool("NO_COLOR", &c.NoColor)
	}
	return p.err
}
