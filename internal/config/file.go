package config

import (
	"flag"
	"time"

	"github.com/BurntSushi/toml"
	apperrors "github.com/agbru/fibdrv/internal/errors"
)

// duration decodes TOML strings such as "30s" into a time.Duration.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// fileConfig is the layout of the TOML configuration file:
//
//	mode = "server"
//	k = 1000
//	[bench]
//	samples = 200
//	[server]
//	port = "9090"
//	[log]
//	level = "debug"
type fileConfig struct {
	Mode             string   `toml:"mode"`
	K                int64    `toml:"k"`
	Algo             string   `toml:"algo"`
	Timeout          duration `toml:"timeout"`
	DisableSmallPath bool     `toml:"no_small_path"`
	MaxLimbs         int      `toml:"max_limbs"`
	NoColor          bool     `toml:"no_color"`
	Theme            string   `toml:"theme"`

	Bench struct {
		Offset  int64 `toml:"offset"`
		Samples int   `toml:"samples"`
		CPU     int   `toml:"cpu"`
	} `toml:"bench"`

	Server struct {
		Port      string  `toml:"port"`
		MaxK      int64   `toml:"max_k"`
		CacheSize int     `toml:"cache_size"`
		RateLimit float64 `toml:"rate_limit"`
		RateBurst int     `toml:"rate_burst"`
	} `toml:"server"`

	Log struct {
		Level      string `toml:"level"`
		Format     string `toml:"format"`
		File       string `toml:"file"`
		MaxSizeMB  int    `toml:"max_size_mb"`
		MaxBackups int    `toml:"max_backups"`
		MaxAgeDays int    `toml:"max_age_days"`
		Compress   bool   `toml:"compress"`
	} `toml:"log"`
}

// applyFileOverrides loads path and applies every key it defines to the
// values no flag set. Unknown keys are rejected.
func applyFileOverrides(c *AppConfig, fs *flag.FlagSet, path string) error {
	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return apperrors.NewConfigError("reading config file %s: %v", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return apperrors.NewConfigError("config file %s: unknown key %q", path, undecoded[0].String())
	}

	apply := func(key []string, flagNames []string, set func()) {
		if md.IsDefined(key...) && !isFlagSet(fs, flagNames...) {
			set()
		}
	}

	apply([]string{"mode"}, []string{"mode"}, func() { c.Mode = fc.Mode })
	apply([]string{"k"}, []string{"k", "n"}, func() { c.K = fc.K })
	apply([]string{"algo"}, []string{"algo"}, func() { c.Algo = fc.Algo })
	apply([]string{"timeout"}, []string{"timeout"}, func() { c.Timeout = fc.Timeout.Duration })
	apply([]string{"no_small_path"}, []string{"no-small-path"}, func() { c.DisableSmallPath = fc.DisableSmallPath })
	apply([]string{"max_limbs"}, []string{"max-limbs"}, func() { c.MaxLimbs = fc.MaxLimbs })
	apply([]string{"no_color"}, []string{"no-color"}, func() { c.NoColor = fc.NoColor })
	apply([]string{"theme"}, []string{"theme"}, func() { c.Theme = fc.Theme })

	apply([]string{"bench", "offset"}, []string{"offset"}, func() { c.Offset = fc.Bench.Offset })
	apply([]string{"bench", "samples"}, []string{"samples"}, func() { c.Samples = fc.Bench.Samples })
	apply([]string{"bench", "cpu"}, []string{"cpu"}, func() { c.CPU = fc.Bench.CPU })

	apply([]string{"server", "port"}, []string{"port"}, func() { c.Port = fc.Server.Port })
	apply([]string{"server", "max_k"}, []string{"max-k"}, func() { c.MaxK = fc.Server.MaxK })
	apply([]string{"server", "cache_size"}, []string{"cache-size"}, func() { c.CacheSize = fc.Server.CacheSize })
	apply([]string{"server", "rate_limit"}, []string{"rate-limit"}, func() { c.RateLimit = fc.Server.RateLimit })
	apply([]string{"server", "rate_burst"}, []string{"rate-burst"}, func() { c.RateBurst = fc.Server.RateBurst })

	apply([]string{"log", "level"}, []string{"log-level"}, func() { c.Log.Level = fc.Log.Level })
	apply([]string{"log", "format"}, []string{"log-format"}, func() { c.Log.Format = fc.Log.Format })
	apply([]string{"log", "file"}, []string{"log-file"}, func() { c.Log.File = fc.Log.File })
	apply([]string{"log", "max_size_mb"}, nil, func() { c.Log.MaxSizeMB = fc.Log.MaxSizeMB })
	apply([]string{"log", "max_backups"}, nil, func() { c.Log.MaxBackups = fc.Log.MaxBackups })
	apply([]string{"log", "max_age_days"}, nil, func() { c.Log.MaxAgeDays = fc.Log.MaxAgeDays })
	apply([]string{"log", "compress"}, nil, func() { c.Log.Compress = fc.Log.Compress })
	return nil
}
