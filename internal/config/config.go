// Package config reads driver settings from the environment.
package config

import (
	"time"

	"github.com/xyproto/env/v2"
)

const (
	DefaultCC            = "gcc"
	DefaultWatchDebounce = 200 * time.Millisecond
)

// Config controls how the driver talks to the external toolchain
type Config struct {
	CC            string        // MINICC_CC: preprocessor, assembler and linker driver
	KeepTemps     bool          // MINICC_KEEP_TEMPS: keep .i and .s files
	Verbose       bool          // MINICC_VERBOSE: echo subprocess command lines
	WatchDebounce time.Duration // MINICC_WATCH_DEBOUNCE_MS
}

// Default is the configuration with no variables set
func Default() Config {
	return Config{CC: DefaultCC, WatchDebounce: DefaultWatchDebounce}
}

// Load reads the MINICC_* variables, falling back to Default for anything
// unset or malformed.
func Load() Config {
	cfg := Default()
	cfg.CC = env.Str("MINICC_CC", DefaultCC)
	if cfg.CC == "" {
		cfg.CC = DefaultCC
	}
	cfg.KeepTemps = env.Bool("MINICC_KEEP_TEMPS")
	cfg.Verbose = env.Bool("MINICC_VERBOSE")
	if ms := env.Int("MINICC_WATCH_DEBOUNCE_MS", int(DefaultWatchDebounce/time.Millisecond)); ms >= 0 {
		cfg.WatchDebounce = time.Duration(ms) * time.Millisecond
	}
	return cfg
}
