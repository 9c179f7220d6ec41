package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kcjpm/kcjpm/internal/buildctx"
	"github.com/kcjpm/kcjpm/internal/buildlock"
	"github.com/kcjpm/kcjpm/internal/compiler"
	"github.com/kcjpm/kcjpm/internal/discover"
	"github.com/kcjpm/kcjpm/internal/domain"
	"github.com/kcjpm/kcjpm/internal/events"
	"github.com/kcjpm/kcjpm/internal/incremental"
	"github.com/kcjpm/kcjpm/internal/lockfile"
	"github.com/kcjpm/kcjpm/internal/manifest"
	"github.com/kcjpm/kcjpm/internal/resolver"
)

// Request is what a caller supplies to start a build.
type Request struct {
	ProjectRoot string
	ProfileName string
	Jobs        int // bounds parallel compilation; 0 means unbounded within a level

	// RunID correlates this build's event stream with the lock file it
	// writes. Build generates one when left empty.
	RunID string
}

// State threads through the build stages, each adding the piece it
// produces. Stages never remove what an earlier one set.
type State struct {
	Request  Request
	Manifest manifest.Manifest
	Resolved resolver.ResolvedGraph
	Packages []discover.PackageInfo
	Build    buildctx.Context

	// Changed maps package name to whether incremental caching determined
	// it needs recompiling.
	Changed map[string]bool
	// Results maps package name to its compile outcome, populated only for
	// packages that were actually compiled.
	Results map[string]compiler.Result
}

// Stages wires the build pipeline to its concrete collaborators. Build
// assembles the seven stages into one Pipeline[Request, State].
type Stages struct {
	FS        domain.FS
	Fetcher   resolver.PackageFetcher
	Compiler  *compiler.Compiler
	Bus       *events.Bus
	Cache     *incremental.Store
	LockFile  string // absolute or project-relative path override; empty uses lockfile.FileName at the project root
}

// Build composes and runs the full seven-stage pipeline: Validate,
// ResolveDependencies, DiscoverPackages, IncrementalCacheLoad,
// ChangeDetection, Compile, IncrementalCacheStore.
func (s *Stages) Build(ctx context.Context, req Request) domain.Result[State] {
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}

	// Held for the whole build so a second concurrent `kcjpm build` against
	// the same project waits rather than racing this one's lock file writes
	// and incremental cache stores.
	lock, err := buildlock.Acquire(ctx, filepath.Join(req.ProjectRoot, ".kcjpm.buildlock"))
	if err != nil {
		return domain.Err[State](fmt.Errorf("acquire build lock: %w", err))
	}
	defer lock.Release()

	p := Compose(s.validate(), s.resolveDependencies())
	p = Compose(p, s.discoverPackages())
	p = Compose(p, s.loadIncrementalCache())
	p = Compose(p, s.detectChanges())
	p = Compose(p, s.compile())
	p = Compose(p, s.storeIncrementalCache())

	s.publish(ctx, events.Event{Kind: events.KindBuildStarted, Timestamp: time.Now(), RunID: req.RunID})
	result := p(ctx, req)
	if result.IsErr() {
		s.publish(ctx, events.Event{Kind: events.KindBuildFinished, Timestamp: time.Now(), RunID: req.RunID, Err: result.UnwrapErr()})
		return result
	}
	s.publish(ctx, events.Event{Kind: events.KindBuildFinished, Timestamp: time.Now(), RunID: req.RunID, Success: true})
	return result
}

func (s *Stages) publish(ctx context.Context, ev events.Event) {
	if s.Bus != nil {
		s.Bus.Publish(ctx, ev)
	}
}

// validate loads and default-fills the manifest at the project root.
func (s *Stages) validate() Pipeline[Request, State] {
	return func(ctx context.Context, req Request) domain.Result[State] {
		m, err := manifest.LoadAndConvert(ctx, s.FS, req.ProjectRoot)
		if err != nil {
			return domain.Err[State](fmt.Errorf("validate manifest: %w", err))
		}
		return domain.Ok(State{Request: req, Manifest: m})
	}
}

// resolveDependencies walks the manifest's dependency set to a flattened,
// version-checked graph and writes the resulting lock file.
func (s *Stages) resolveDependencies() Pipeline[State, State] {
	return func(ctx context.Context, st State) domain.Result[State] {
		resolved, err := resolver.Resolve(ctx, s.Fetcher, st.Manifest.Dependencies)
		if err != nil {
			return domain.Err[State](fmt.Errorf("resolve dependencies: %w", err))
		}
		for _, e := range resolved.Entries {
			s.publish(ctx, events.Event{
				Kind:            events.KindDependencyResolved,
				Timestamp:       time.Now(),
				RunID:           st.Request.RunID,
				Package:         e.Name,
				ResolvedVersion: e.Version,
				Source:          e.Source.String(),
			})
		}

		lockPath := s.LockFile
		if lockPath == "" {
			lockPath = filepath.Join(st.Request.ProjectRoot, lockfile.FileName)
		}
		if err := lockfile.Write(lockPath, lockfile.Generate(resolved.Entries, st.Request.RunID)); err != nil {
			return domain.Err[State](fmt.Errorf("write lock file: %w", err))
		}

		st.Resolved = resolved
		return domain.Ok(st)
	}
}

// discoverPackages walks the project's own source tree and assembles the
// CompilationContext the remaining stages need.
func (s *Stages) discoverPackages() Pipeline[State, State] {
	return func(ctx context.Context, st State) domain.Result[State] {
		sourceDir := filepath.Join(st.Request.ProjectRoot, st.Manifest.Build.SourceDir)
		packages, err := discover.Discover(ctx, s.FS, sourceDir, st.Manifest.Package.Name)
		if err != nil {
			return domain.Err[State](fmt.Errorf("discover packages: %w", err))
		}
		if _, err := discover.ImportGraph(packages); err != nil {
			return domain.Err[State](fmt.Errorf("discover packages: %w", err))
		}
		for _, pkg := range packages {
			s.publish(ctx, events.Event{Kind: events.KindPackageDiscovered, Timestamp: time.Now(), RunID: st.Request.RunID, Package: pkg.Name})
		}

		bc, err := buildctx.Assemble(st.Request.ProjectRoot, st.Manifest, st.Request.ProfileName, packages, st.Resolved)
		if err != nil {
			return domain.Err[State](fmt.Errorf("assemble build context: %w", err))
		}

		st.Packages = packages
		st.Build = bc
		return domain.Ok(st)
	}
}

// loadIncrementalCache passes the state through unchanged whether or not a
// cache store is configured; ChangeDetection reads each package's stored
// fingerprint itself when it compares.
func (s *Stages) loadIncrementalCache() Pipeline[State, State] {
	return func(ctx context.Context, st State) domain.Result[State] {
		return domain.Ok(st)
	}
}

// detectChanges computes each package's current fingerprint and compares it
// against what the last successful build stored, so unchanged packages can
// skip recompilation.
func (s *Stages) detectChanges() Pipeline[State, State] {
	return func(ctx context.Context, st State) domain.Result[State] {
		changed := make(map[string]bool, len(st.Packages))
		depVersions := make(map[string]string, len(st.Resolved.Entries))
		for _, e := range st.Resolved.Entries {
			depVersions[e.Name] = e.Version
		}

		for _, pkg := range st.Packages {
			if s.Cache == nil || !st.Manifest.Build.Incremental {
				changed[pkg.Name] = true
				continue
			}
			files := make(map[string]string, len(pkg.Files))
			for _, f := range pkg.Files {
				text, err := s.FS.ReadText(ctx, f)
				if err != nil {
					return domain.Err[State](fmt.Errorf("read %s for fingerprinting: %w", f, err))
				}
				files[f] = text
			}
			in := incremental.Inputs{Package: pkg.Name, Files: files, DependencyVersions: depVersions}
			isChanged := s.Cache.Changed(ctx, in)
			changed[pkg.Name] = isChanged

			kind := events.KindCacheHit
			if isChanged {
				kind = events.KindCacheMiss
			}
			s.publish(ctx, events.Event{Kind: kind, Timestamp: time.Now(), RunID: st.Request.RunID, Package: pkg.Name, CacheKey: string(incremental.Compute(in))})
		}

		st.Changed = changed
		return domain.Ok(st)
	}
}

// compile runs the target-language compiler over every changed package,
// one topological level of the project's own import graph at a time, with
// up to Request.Jobs packages compiling concurrently within a level.
func (s *Stages) compile() Pipeline[State, State] {
	return func(ctx context.Context, st State) domain.Result[State] {
		importGraph, err := discover.ImportGraph(st.Packages)
		if err != nil {
			return domain.Err[State](fmt.Errorf("compile: %w", err))
		}
		levels, err := importGraph.Levels()
		if err != nil {
			return domain.Err[State](fmt.Errorf("compile: order packages: %w", err))
		}

		byName := make(map[string]discover.PackageInfo, len(st.Packages))
		for _, pkg := range st.Packages {
			byName[pkg.Name] = pkg
		}

		results := make(map[string]compiler.Result, len(st.Packages))
		for _, level := range levels {
			g, gctx := errgroup.WithContext(ctx)
			jobs := st.Request.Jobs
			if !st.Manifest.Build.Parallel {
				jobs = 1
			}
			if jobs > 0 {
				g.SetLimit(jobs)
			}

			type outcome struct {
				name   string
				result compiler.Result
			}
			outcomes := make(chan outcome, len(level))

			for _, name := range level {
				pkg, ok := byName[name]
				if !ok || !st.Changed[name] {
					continue
				}
				pkg := pkg
				g.Go(func() error {
					start := time.Now()
					s.publish(gctx, events.Event{Kind: events.KindPackageCompileStarted, Timestamp: time.Now(), RunID: st.Request.RunID, Package: pkg.Name})

					result, err := s.Compiler.Compile(gctx, st.Build, pkg)
					if err != nil {
						return fmt.Errorf("compile %s: %w", pkg.Name, err)
					}
					for _, diag := range result.Diagnostics {
						s.publish(gctx, events.Event{Kind: events.KindDiagnostic, Timestamp: time.Now(), RunID: st.Request.RunID, Package: pkg.Name, Diagnostic: diag})
					}
					s.publish(gctx, events.Event{
						Kind: events.KindPackageCompileFinished, Timestamp: time.Now(),
						RunID: st.Request.RunID, Package: pkg.Name, Duration: time.Since(start), Success: result.Success,
					})
					if !result.Success {
						return fmt.Errorf("compile %s: exited %d", pkg.Name, result.ExitCode)
					}
					outcomes <- outcome{name: pkg.Name, result: result}
					return nil
				})
			}

			if err := g.Wait(); err != nil {
				return domain.Err[State](err)
			}
			close(outcomes)
			for o := range outcomes {
				results[o.name] = o.result
			}
		}

		st.Results = results
		return domain.Ok(st)
	}
}

// storeIncrementalCache persists a fresh fingerprint for every package that
// compiled successfully this run, so the next invocation can skip it.
func (s *Stages) storeIncrementalCache() Pipeline[State, State] {
	return func(ctx context.Context, st State) domain.Result[State] {
		if s.Cache == nil {
			return domain.Ok(st)
		}
		depVersions := make(map[string]string, len(st.Resolved.Entries))
		for _, e := range st.Resolved.Entries {
			depVersions[e.Name] = e.Version
		}

		for _, pkg := range st.Packages {
			if _, compiled := st.Results[pkg.Name]; !compiled {
				continue
			}
			files := make(map[string]string, len(pkg.Files))
			for _, f := range pkg.Files {
				text, err := s.FS.ReadText(ctx, f)
				if err != nil {
					return domain.Err[State](fmt.Errorf("read %s for fingerprint store: %w", f, err))
				}
				files[f] = text
			}
			fp := incremental.Compute(incremental.Inputs{Package: pkg.Name, Files: files, DependencyVersions: depVersions})
			if err := s.Cache.Store(ctx, pkg.Name, fp); err != nil {
				return domain.Err[State](fmt.Errorf("store fingerprint for %s: %w", pkg.Name, err))
			}
		}
		return domain.Ok(st)
	}
}
