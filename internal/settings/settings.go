// Package settings loads the ambient, project-independent configuration a
// kcjpm invocation needs before it ever opens a manifest: where the
// dependency cache lives, which registry to talk to by default, and how
// many jobs to run when a manifest doesn't say. Precedence is env over
// file over built-in defaults, the same layering the teacher's config
// loader applies.
package settings

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Settings is the resolved ambient configuration.
type Settings struct {
	CacheRoot      string
	DefaultRegistry string
	Jobs           int
	LogLevel       string
}

const envPrefix = "KCJPM"

// Default returns the built-in defaults, before any file or env layering.
func Default(homeDir string) Settings {
	return Settings{
		CacheRoot:       homeDir + "/.kcjpm/cache",
		DefaultRegistry: "https://registry.kcjpm.dev",
		Jobs:            runtime.NumCPU(),
		LogLevel:        "info",
	}
}

// Load reads an optional settings file (TOML, INI, JSON, etc. — anything
// viper supports) at configPath, layers KCJPM_-prefixed environment
// variables on top, and falls back to Default for anything neither source
// sets.
func Load(configPath, homeDir string) (Settings, error) {
	defaults := Default(homeDir)

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("cache_root", defaults.CacheRoot)
	v.SetDefault("default_registry", defaults.DefaultRegistry)
	v.SetDefault("jobs", defaults.Jobs)
	v.SetDefault("log_level", defaults.LogLevel)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, os.ErrNotExist) {
				return Settings{}, fmt.Errorf("read settings file %s: %w", configPath, err)
			}
		}
	}

	_ = v.BindEnv("cache_root")
	_ = v.BindEnv("default_registry")
	_ = v.BindEnv("jobs")
	_ = v.BindEnv("log_level")

	return Settings{
		CacheRoot:       v.GetString("cache_root"),
		DefaultRegistry: v.GetString("default_registry"),
		Jobs:            v.GetInt("jobs"),
		LogLevel:        v.GetString("log_level"),
	}, nil
}
