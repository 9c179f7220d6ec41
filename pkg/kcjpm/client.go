// Package kcjpm is the public facade over the build-and-package engine: the
// surface a command-line front end (out of scope here) would import. It
// wires the internal manifest, resolver, fetch, discover, incremental, and
// compiler packages into one Client with a single entry point, Build.
package kcjpm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kcjpm/kcjpm/internal/adapters"
	"github.com/kcjpm/kcjpm/internal/compiler"
	"github.com/kcjpm/kcjpm/internal/domain"
	"github.com/kcjpm/kcjpm/internal/events"
	"github.com/kcjpm/kcjpm/internal/fetch"
	"github.com/kcjpm/kcjpm/internal/incremental"
	"github.com/kcjpm/kcjpm/internal/manifest"
	"github.com/kcjpm/kcjpm/internal/pipeline"
	"github.com/kcjpm/kcjpm/internal/settings"
)

// Client drives builds for one project. It is safe for concurrent use: each
// Build call threads its own pipeline.State through a fresh run.
type Client struct {
	config Config
	fs     domain.FS
	log    domain.Logger
	bus    *events.Bus
	stages *pipeline.Stages
}

// NewClient validates cfg, applies defaults, and wires the production
// adapters (real filesystem, real child-process executor, real git/HTTP
// clients) into a ready-to-use Client.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	ambient, err := settings.Load(cfg.SettingsFile, home)
	if err != nil {
		return nil, fmt.Errorf("kcjpm: load settings: %w", err)
	}
	cfg = cfg.WithDefaults(ambient)

	fs := adapters.NewOSFilesystem()
	log := adapters.NewConsoleLogger(os.Stderr, cfg.LogLevel)
	bus := events.NewBus(log)

	cloner := adapters.NewGoGitCloner()
	httpClient := adapters.NewNetHTTPClient(cfg.HTTPTimeout)
	fetcher := fetch.New(fs, cfg.ProjectRoot, cfg.CacheRoot, cloner, httpClient, cfg.Registries)

	cache := &incremental.Store{FS: fs, OutputDir: filepath.Join(cfg.ProjectRoot, "target", cfg.Profile)}

	stages := &pipeline.Stages{
		FS:       fs,
		Fetcher:  fetcher,
		Compiler: compiler.New(adapters.NewOSProcessExecutor(), cfg.CompilerBinary),
		Bus:      bus,
		Cache:    cache,
	}

	return &Client{config: cfg, fs: fs, log: log, bus: bus, stages: stages}, nil
}

// Subscribe registers a listener for the build's event stream (dependency
// resolution, package discovery, compile progress, diagnostics). It must be
// called before the first Build, matching events.Bus's registration rules.
func (c *Client) Subscribe(listener events.Listener) {
	c.bus.Subscribe(listener)
}

// BuildResult is what one Build invocation returns: the set of packages that
// were actually compiled this run and the dependency graph the build
// resolved against.
type BuildResult struct {
	CompiledPackages []string
	SkippedPackages  []string
	State            pipeline.State
}

// Build runs the full seven-stage pipeline: validate the manifest, resolve
// and lock dependencies, discover the project's own packages, detect which
// of them changed since the last successful build, compile the changed ones
// level by level, and persist fresh fingerprints for what succeeded.
func (c *Client) Build(ctx context.Context) (BuildResult, error) {
	c.bus.Start()

	req := pipeline.Request{
		ProjectRoot: c.config.ProjectRoot,
		ProfileName: c.config.Profile,
		Jobs:        c.config.Jobs,
	}

	result := c.stages.Build(ctx, req)
	if result.IsErr() {
		return BuildResult{}, fmt.Errorf("kcjpm: build failed: %w", result.UnwrapErr())
	}
	st := result.Unwrap()

	var compiled, skipped []string
	for _, pkg := range st.Packages {
		if _, ok := st.Results[pkg.Name]; ok {
			compiled = append(compiled, pkg.Name)
		} else {
			skipped = append(skipped, pkg.Name)
		}
	}

	return BuildResult{CompiledPackages: compiled, SkippedPackages: skipped, State: st}, nil
}

// Manifest loads and default-fills the project's manifest without resolving
// dependencies or touching the filesystem cache — useful for a front end
// that only needs to show package metadata.
func (c *Client) Manifest(ctx context.Context) (manifest.Manifest, error) {
	return manifest.LoadAndConvert(ctx, c.fs, c.config.ProjectRoot)
}

// Logger exposes the Client's structured logger so a caller can attribute
// its own messages to the same sink.
func (c *Client) Logger() domain.Logger {
	return c.log
}
