package fetch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/kcjpm/kcjpm/internal/adapters"
	"github.com/kcjpm/kcjpm/internal/domain"
	"github.com/kcjpm/kcjpm/internal/lockfile"
	"github.com/kcjpm/kcjpm/internal/manifest"
	"github.com/kcjpm/kcjpm/internal/resolver"
)

// GitFetcher clones (or reuses a prior clone of) a Git dependency into a
// deterministic cache subdirectory keyed by repository URL and ref, so
// repeated resolves of the same ref reuse one checkout.
type GitFetcher struct {
	FS        domain.FS
	Cloner    adapters.GitCloner
	CacheRoot string
}

func (g *GitFetcher) Fetch(ctx context.Context, spec manifest.DependencySpec) (resolver.FetchedPackage, error) {
	dir := filepath.Join(g.CacheRoot, slug(spec.GitURL), slug(spec.Ref.Value))

	if err := g.FS.CreateDirectories(ctx, filepath.Dir(dir), 0o755); err != nil {
		return resolver.FetchedPackage{}, fmt.Errorf("prepare git cache dir: %w", err)
	}

	commit, err := g.Cloner.CloneOrOpen(ctx, spec.GitURL, dir, toAdapterRef(spec.Ref))
	if err != nil {
		return resolver.FetchedPackage{}, fmt.Errorf("clone %s: %w", spec.GitURL, err)
	}

	m, err := loadManifest(ctx, g.FS, dir)
	if err != nil {
		return resolver.FetchedPackage{}, err
	}

	return resolver.FetchedPackage{
		Version: m.Package.Version,
		Source: lockfile.PackageSource{
			Kind:   manifest.KindGit,
			URL:    spec.GitURL,
			Ref:    spec.Ref,
			Commit: commit,
		},
		Dependencies: m.Dependencies,
	}, nil
}

func toAdapterRef(ref manifest.GitRef) adapters.GitRef {
	switch ref.Kind {
	case manifest.Tag:
		return adapters.GitRef{Kind: adapters.GitRefTag, Value: ref.Value}
	case manifest.Commit:
		return adapters.GitRef{Kind: adapters.GitRefCommit, Value: ref.Value}
	default:
		return adapters.GitRef{Kind: adapters.GitRefBranch, Value: ref.Value}
	}
}
