// Package fetch materializes a dependency spec — a path, a Git ref, or a
// registry version — into a local directory holding that package's
// manifest and sources, and reports back what the resolver needs to place
// it in the dependency graph and eventually the lock file.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/kcjpm/kcjpm/internal/adapters"
	"github.com/kcjpm/kcjpm/internal/domain"
	"github.com/kcjpm/kcjpm/internal/lockfile"
	"github.com/kcjpm/kcjpm/internal/manifest"
	"github.com/kcjpm/kcjpm/internal/resolver"
)

// Fetcher dispatches a dependency spec to the sub-fetcher for its kind and
// implements resolver.PackageFetcher.
type Fetcher struct {
	FS          domain.FS
	ProjectRoot string
	Path        *PathFetcher
	Git         *GitFetcher
	Registry    *RegistryFetcher
}

// New builds a Fetcher wired to the production adapters, rooted at a cache
// directory (conventionally ~/.kcjpm/cache per spec.md §6). registries maps
// registry names ("default", "private") to their base URLs and is the only
// registry source the fetcher consults; the project's Manifest.Registry
// table is not read.
func New(fs domain.FS, projectRoot, cacheRoot string, cloner adapters.GitCloner, httpClient adapters.HTTPClient, registries map[string]string) *Fetcher {
	return &Fetcher{
		FS:          fs,
		ProjectRoot: projectRoot,
		Path:        &PathFetcher{FS: fs, ProjectRoot: projectRoot},
		Git:         &GitFetcher{FS: fs, Cloner: cloner, CacheRoot: filepath.Join(cacheRoot, "git")},
		Registry: &RegistryFetcher{
			FS:         fs,
			HTTP:       httpClient,
			CacheRoot:  filepath.Join(cacheRoot, "registry"),
			Registries: registries,
		},
	}
}

var _ resolver.PackageFetcher = (*Fetcher)(nil)

// Fetch implements resolver.PackageFetcher.
func (f *Fetcher) Fetch(ctx context.Context, spec manifest.DependencySpec) (resolver.FetchedPackage, error) {
	switch spec.Kind {
	case manifest.KindPath:
		return f.Path.Fetch(ctx, spec)
	case manifest.KindGit:
		return f.Git.Fetch(ctx, spec)
	default:
		return f.Registry.Fetch(ctx, spec)
	}
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9.]+`)

// slug turns an arbitrary URL or name into a filesystem-safe directory
// component, used to keep the cache layout deterministic and readable.
func slug(s string) string {
	return strings.Trim(nonAlnum.ReplaceAllString(s, "-"), "-")
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func loadManifest(ctx context.Context, fs domain.FS, dir string) (manifest.Manifest, error) {
	m, err := manifest.LoadFromProjectRoot(ctx, fs, dir)
	if err != nil {
		return manifest.Manifest{}, fmt.Errorf("load manifest at %s: %w", dir, err)
	}
	return m, nil
}
