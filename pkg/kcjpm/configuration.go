package kcjpm

import (
	"fmt"
	"time"

	"github.com/kcjpm/kcjpm/internal/settings"
)

// Config configures a Client. Zero-valued fields are filled by
// WithDefaults: callers normally only set ProjectRoot and, if they need
// something other than the machine default, CacheRoot.
type Config struct {
	// ProjectRoot is the directory holding kcjpm.toml or cjpm.toml.
	ProjectRoot string

	// Profile selects a build profile by name (e.g. "debug", "release").
	// Empty selects "release".
	Profile string

	// CompilerBinary is the name or path of the target-language compiler
	// invoked for each package. Empty defaults to "cjc".
	CompilerBinary string

	// CacheRoot is where fetched dependencies and git clones are cached.
	// Empty sources the ambient settings layer's default (~/.kcjpm/cache
	// unless overridden by a settings file or KCJPM_CACHE_ROOT).
	CacheRoot string

	// Registries maps a manifest's registry name to its base URL. A "default"
	// entry is added from the ambient settings layer's DefaultRegistry if
	// absent.
	Registries map[string]string

	// Jobs bounds parallel compilation within one dependency level. 0 sources
	// the ambient settings layer's default (logical CPU count unless
	// overridden).
	Jobs int

	// HTTPTimeout bounds one registry archive download. 0 defaults to 2 minutes.
	HTTPTimeout time.Duration

	// LogLevel is one of "debug", "info", "warn", "error". Empty sources the
	// ambient settings layer's default ("info" unless overridden).
	LogLevel string

	// SettingsFile optionally points at an ambient settings file (TOML, INI,
	// JSON, etc.) layered under KCJPM_-prefixed environment variables and
	// over the built-in defaults. Empty means env-and-defaults only.
	SettingsFile string
}

// Validate reports whether cfg is usable as given, before defaults are applied.
func (cfg Config) Validate() error {
	if cfg.ProjectRoot == "" {
		return fmt.Errorf("kcjpm: ProjectRoot must not be empty")
	}
	return nil
}

// WithDefaults returns a copy of cfg with every zero-valued field replaced
// by its production default, sourcing CacheRoot, Jobs, and LogLevel from the
// ambient settings layer (env, optional SettingsFile, then built-in
// defaults) rather than hand-rolling them here.
func (cfg Config) WithDefaults(ambient settings.Settings) Config {
	if cfg.Profile == "" {
		cfg.Profile = "release"
	}
	if cfg.CompilerBinary == "" {
		cfg.CompilerBinary = "cjc"
	}
	if cfg.CacheRoot == "" {
		cfg.CacheRoot = ambient.CacheRoot
	}
	if cfg.Registries == nil {
		cfg.Registries = map[string]string{}
	}
	if _, ok := cfg.Registries["default"]; !ok && ambient.DefaultRegistry != "" {
		cfg.Registries["default"] = ambient.DefaultRegistry
	}
	if cfg.Jobs == 0 {
		cfg.Jobs = ambient.Jobs
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 2 * time.Minute
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = ambient.LogLevel
	}
	return cfg
}
